package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fw_trader/internal/domain/service/pricing"
)

func TestCanonicalName(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "soul capsule variant collapses",
			in:   "Seelenkapsel von Gruldan",
			want: "Seelenkapsel von Wesen",
		},
		{
			name: "blood sample variant collapses",
			in:   "Blutprobe von Onlo",
			want: "Blutprobe von Wesen",
		},
		{
			name: "small healing potion collapses",
			in:   "kleiner Heiltrank",
			want: "Heiltrank",
		},
		{
			name: "large healing potion collapses",
			in:   "großer Heiltrank",
			want: "Heiltrank",
		},
		{
			name: "plain healing potion unchanged",
			in:   "Heiltrank",
			want: "Heiltrank",
		},
		{
			name: "unknown name unchanged",
			in:   "Wakrudpilz",
			want: "Wakrudpilz",
		},
		{
			name: "surrounding whitespace stripped",
			in:   "  Wakrudpilz ",
			want: "Wakrudpilz",
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.want, pricing.CanonicalName(tc.in))
		})
	}
}

func TestTradeRegistry(t *testing.T) {
	rq := require.New(t)

	registry := pricing.DefaultTradeRegistry()

	// Незарегистрированные предметы магазин принимает всегда.
	rq.True(registry.CatalogSellable("Heiltrank"))

	// Только игрокам.
	rq.False(registry.CatalogSellable("Seelenkapsel von Wesen"))
	rq.False(registry.CatalogSellable("Ölfass"))

	// Игрокам и магазину.
	rq.True(registry.CatalogSellable("Zyanklee"))
}
