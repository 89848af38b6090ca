package persistence

import (
	"time"

	"fw_trader/internal/domain/entity"
)

// priceBasisSchema — представление таблицы price_basis в БД.
type priceBasisSchema struct {
	Name             string     `db:"name"`
	World            string     `db:"world"`
	ShopPrice        *int64     `db:"shop_price"`
	PlayerPrice      *int64     `db:"player_price"`
	PlayerObservedAt *time.Time `db:"player_observed_at"`
	PlayerWorld      *string    `db:"player_world"`
	FetchedAt        time.Time  `db:"fetched_at"`
}

func fromBasis(world string, b *entity.PriceBasis) *priceBasisSchema {
	s := &priceBasisSchema{
		Name:      b.Name,
		World:     world,
		ShopPrice: b.ShopPrice,
		FetchedAt: b.FetchedAt,
	}
	if b.PlayerPrice != nil {
		v := b.PlayerPrice.Value
		ts := b.PlayerPrice.ObservedAt
		w := b.PlayerPrice.World
		s.PlayerPrice = &v
		s.PlayerObservedAt = &ts
		s.PlayerWorld = &w
	}
	return s
}

func (s *priceBasisSchema) toDomain() *entity.PriceBasis {
	b := &entity.PriceBasis{
		Name:      s.Name,
		ShopPrice: s.ShopPrice,
		FetchedAt: s.FetchedAt,
	}
	if s.PlayerPrice != nil {
		pp := &entity.PlayerPrice{Value: *s.PlayerPrice}
		if s.PlayerObservedAt != nil {
			pp.ObservedAt = *s.PlayerObservedAt
		}
		if s.PlayerWorld != nil {
			pp.World = *s.PlayerWorld
		}
		b.PlayerPrice = pp
	}
	return b
}
