package listing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"fw_trader/internal/domain"
	"fw_trader/internal/domain/entity"
	"fw_trader/internal/domain/service/listing"
	"fw_trader/pkg/errcodes"
)

// fakeResolver prices items from a fixed shop-price table with the default
// 1.15 markup; unknown names have no resale basis.
type fakeResolver struct {
	shopPrices map[string]int64
}

func (f *fakeResolver) Basis(_ context.Context, name string) (*entity.PriceBasis, error) {
	basis := &entity.PriceBasis{Name: name}
	if price, ok := f.shopPrices[name]; ok {
		basis.ShopPrice = &price
	}
	return basis, nil
}

func (f *fakeResolver) Profit(basis *entity.PriceBasis, cost int64) (int64, error) {
	if basis.ShopPrice == nil {
		return 0, domain.NewError(errcodes.PricingGap, "no resale basis")
	}
	return int64(float64(*basis.ShopPrice)*1.15) - cost, nil
}

const weaponsPage = `<p>Marktstand von Gorbas</p>
Folgende Angriffswaffen werden angeboten:<br>
<b>Rostiges Schwert</b> für 1.200 Gold <a href="item.php?action=kaufen&mit_item=42&check=9f">kaufen</a><br>
<b>Flammenklinge</b> (magisch) für 5.000 Gold <a href="item.php?action=kaufen&mit_item=77&check=a1">kaufen</a><br>
<b>Unbekanntes Artefakt</b> für 10 Gold <a href="item.php?action=kaufen&mit_item=99&check=ff">kaufen</a><br>
<a href="markt.php">Zurück zum Marktplatz</a>`

func TestParserParse(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	resolver := &fakeResolver{shopPrices: map[string]int64{
		"Rostiges Schwert": 2000,
		"Flammenklinge":    4000,
	}}

	parser := listing.NewParser(resolver)

	offers, err := parser.Parse(ctx, entity.CategoryWeaponsOffense, weaponsPage)
	rq.NoError(err)

	// Артефакт без базы цены пропущен, клинок в минусе отвергнут.
	rq.Len(offers, 1)

	offer := offers[0]
	rq.Equal("Rostiges Schwert", offer.Name)
	rq.EqualValues(42, offer.ItemID)
	rq.EqualValues(1200, offer.Cost)
	rq.EqualValues(1100, offer.Profit)
	rq.False(offer.Magical)
	rq.Equal("item.php?action=kaufen&mit_item=42&check=9f", offer.Ref)
}

func TestParserMagicalFlag(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	resolver := &fakeResolver{shopPrices: map[string]int64{"Flammenklinge": 50000}}

	offers, err := listing.NewParser(resolver).
		Parse(ctx, entity.CategoryWeaponsOffense, weaponsPage)
	rq.NoError(err)

	rq.Len(offers, 1)
	rq.True(offers[0].Magical)
}

func TestParserStructuralFailures(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	parser := listing.NewParser(&fakeResolver{shopPrices: map[string]int64{"X": 100}})

	testCases := []struct {
		name string
		raw  string
	}{
		{
			name: "section header missing",
			raw:  `<b>X</b> für 10 Gold <a href="i.php?mit_item=1">kaufen</a>`,
		},
		{
			name: "section never closed",
			raw:  `Folgende Angriffswaffen werden angeboten:<br><b>X</b> für 10 Gold`,
		},
		{
			name: "cost not numeric",
			raw: "Folgende Angriffswaffen werden angeboten:<br>" +
				`<b>X</b> für zehn Gold <a href="i.php?mit_item=1">kaufen</a><br>` +
				"Zurück zum Marktplatz",
		},
		{
			name: "purchase reference missing",
			raw: "Folgende Angriffswaffen werden angeboten:<br>" +
				"<b>X</b> für 10 Gold<br>" +
				"Zurück zum Marktplatz",
		},
		{
			name: "item id missing in reference",
			raw: "Folgende Angriffswaffen werden angeboten:<br>" +
				`<b>X</b> für 10 Gold <a href="i.php?ohne_item=1">kaufen</a><br>` +
				"Zurück zum Marktplatz",
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(*testing.T) {
			_, err := parser.Parse(ctx, entity.CategoryWeaponsOffense, tc.raw)
			rq.Error(err)
			rq.True(domain.IsFormatError(err))
		})
	}
}

func TestParserCategoryFilter(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	resolver := &fakeResolver{shopPrices: map[string]int64{"Rostiges Schwert": 2000}}

	categories := listing.NewCategorySet(entity.CategoryAmulets)

	parser := listing.NewParser(resolver).
		WithAcceptor(listing.MinProfitAcceptor(1, categories))

	offers, err := parser.Parse(ctx, entity.CategoryWeaponsOffense, weaponsPage)
	rq.NoError(err)
	rq.Empty(offers)

	categories.Allow(entity.CategoryWeaponsOffense)

	offers, err = parser.Parse(ctx, entity.CategoryWeaponsOffense, weaponsPage)
	rq.NoError(err)
	rq.Len(offers, 1)
}
