package entity

import "time"

// PlayerPrice is the most recent player-to-player sale observed for an item,
// scoped by game world.
type PlayerPrice struct {
	Value      int64     `json:"value"`
	ObservedAt time.Time `json:"observed_at"`
	World      string    `json:"world"`
}

// PriceBasis is the resolved pricing record for an item name. Either price
// may be absent; absence is data, not an error. Both absent means no resale
// basis exists for the item.
type PriceBasis struct {
	Name        string       `json:"name"`
	ShopPrice   *int64       `json:"shop_price,omitempty"`
	PlayerPrice *PlayerPrice `json:"player_price,omitempty"`
	FetchedAt   time.Time    `json:"fetched_at"`
	FromCache   bool         `json:"from_cache"`
}

// Valid reports whether the record may still be served from cache. The
// player-market observation timestamp drives staleness; records without a
// player price age from their fetch time instead.
func (b *PriceBasis) Valid(now time.Time, window time.Duration) bool {
	ts := b.FetchedAt
	if b.PlayerPrice != nil {
		ts = b.PlayerPrice.ObservedAt
	}
	if ts.IsZero() {
		return false
	}
	return now.Sub(ts) < window
}
