package pricing

import (
	"regexp"
	"strings"
)

// Многие варианты предметов делят одну запись в каталоге: "Seelenkapsel von
// Gruldan" и "Seelenkapsel von Мork" продаются по одной и той же цене.
// Правила сводят такие варианты к каноническому имени каталога.
type canonRule struct {
	re        *regexp.Regexp
	canonical string
}

var canonRules = []canonRule{
	{regexp.MustCompile(`^Seelenkapsel von .+$`), "Seelenkapsel von Wesen"},
	{regexp.MustCompile(`^Blutprobe von .+$`), "Blutprobe von Wesen"},
	{regexp.MustCompile(`^Trophäe von .+$`), "Trophäe von Wesen"},
	{regexp.MustCompile(`^Foliant des .+$`), "Foliant des Wissens"},
	{regexp.MustCompile(`^(kleiner|großer) Heiltrank$`), "Heiltrank"},
}

// CanonicalName maps an item variant to its catalog name. Names without a
// matching rule are already canonical.
func CanonicalName(name string) string {
	name = strings.TrimSpace(name)

	for _, rule := range canonRules {
		if rule.re.MatchString(name) {
			return rule.canonical
		}
	}

	return name
}
