package entity

// Category is one of the five listing categories the market stand exposes.
// Analysis always visits them in the fixed order of AllCategories.
type Category int

const (
	CategoryWeaponsOffense Category = iota
	CategoryWeaponsDefense
	CategoryAmulets
	CategorySpells
	CategoryMisc
)

// AllCategories is the fixed sweep order.
var AllCategories = [...]Category{
	CategoryWeaponsOffense,
	CategoryWeaponsDefense,
	CategoryAmulets,
	CategorySpells,
	CategoryMisc,
}

func (c Category) String() string {
	switch c {
	case CategoryWeaponsOffense:
		return "weapons_offense"
	case CategoryWeaponsDefense:
		return "weapons_defense"
	case CategoryAmulets:
		return "amulets"
	case CategorySpells:
		return "spells"
	case CategoryMisc:
		return "misc"
	default:
		return "unknown"
	}
}

// ParseCategory is the inverse of String.
func ParseCategory(s string) (Category, bool) {
	for _, c := range AllCategories {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// CategoryNav holds the navigation strings of one category: the menu link
// label the game client clicks and the two anchors that delimit the listing
// section in the raw page text. One table serves both the parser and the
// game client, so the strings cannot drift apart.
type CategoryNav struct {
	MenuLabel    string
	SectionStart string
	SectionEnd   string
}

var categoryNav = map[Category]CategoryNav{
	CategoryWeaponsOffense: {
		MenuLabel:    "Angriffswaffen",
		SectionStart: "Folgende Angriffswaffen werden angeboten:",
		SectionEnd:   "Zurück zum Marktplatz",
	},
	CategoryWeaponsDefense: {
		MenuLabel:    "Verteidigungswaffen",
		SectionStart: "Folgende Verteidigungswaffen werden angeboten:",
		SectionEnd:   "Zurück zum Marktplatz",
	},
	CategoryAmulets: {
		MenuLabel:    "Amulette",
		SectionStart: "Folgende Amulette werden angeboten:",
		SectionEnd:   "Zurück zum Marktplatz",
	},
	CategorySpells: {
		MenuLabel:    "Zauber",
		SectionStart: "Folgende Zauber werden angeboten:",
		SectionEnd:   "Zurück zum Marktplatz",
	},
	CategoryMisc: {
		MenuLabel:    "Sonstiges",
		SectionStart: "Folgende Waren werden angeboten:",
		SectionEnd:   "Zurück zum Marktplatz",
	},
}

func (c Category) Nav() CategoryNav {
	return categoryNav[c]
}

// NextCategory wraps around at the end of AllCategories.
func NextCategory(c Category) (next Category, wrapped bool) {
	for i, cat := range AllCategories {
		if cat == c {
			if i == len(AllCategories)-1 {
				return AllCategories[0], true
			}
			return AllCategories[i+1], false
		}
	}
	return AllCategories[0], true
}
