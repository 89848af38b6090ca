package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"fw_trader/internal/domain/entity"
	"fw_trader/internal/infrastructure/persistence"
)

func newTestRepo(t *testing.T) *persistence.PriceBasisRepository {
	t.Helper()

	db, err := sqlx.Connect("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// Память живёт на одном соединении.
	db.SetMaxOpenConns(1)

	repo := persistence.NewPriceBasisRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))

	return repo
}

func TestPriceBasisRoundTrip(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newTestRepo(t)

	shop := int64(2000)
	observed := time.Date(2026, 7, 15, 9, 30, 0, 0, time.UTC)

	basis := &entity.PriceBasis{
		Name:      "Heiltrank",
		ShopPrice: &shop,
		PlayerPrice: &entity.PlayerPrice{
			Value:      1800,
			ObservedAt: observed,
			World:      "welt1",
		},
		FetchedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	rq.NoError(repo.Upsert(ctx, "welt1", basis))

	loaded, err := repo.LoadAll(ctx, "welt1")
	rq.NoError(err)
	rq.Len(loaded, 1)

	got := loaded[0]
	rq.Equal("Heiltrank", got.Name)
	rq.NotNil(got.ShopPrice)
	rq.EqualValues(2000, *got.ShopPrice)
	rq.NotNil(got.PlayerPrice)
	rq.EqualValues(1800, got.PlayerPrice.Value)
	rq.Equal(observed, got.PlayerPrice.ObservedAt.UTC())
	rq.Equal("welt1", got.PlayerPrice.World)

	// Другой мир не видит записи.
	other, err := repo.LoadAll(ctx, "welt9")
	rq.NoError(err)
	rq.Empty(other)
}

func TestPriceBasisUpsertOverwrites(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newTestRepo(t)

	shop := int64(2000)
	basis := &entity.PriceBasis{Name: "Heiltrank", ShopPrice: &shop, FetchedAt: time.Now()}
	rq.NoError(repo.Upsert(ctx, "welt1", basis))

	newShop := int64(2500)
	basis.ShopPrice = &newShop
	basis.PlayerPrice = nil
	rq.NoError(repo.Upsert(ctx, "welt1", basis))

	loaded, err := repo.LoadAll(ctx, "welt1")
	rq.NoError(err)
	rq.Len(loaded, 1)
	rq.EqualValues(2500, *loaded[0].ShopPrice)
	rq.Nil(loaded[0].PlayerPrice)
}

func TestPriceBasisPrune(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newTestRepo(t)

	cutoff := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	rq.NoError(repo.UpsertBatch(ctx, "welt1", []*entity.PriceBasis{
		{Name: "alt", FetchedAt: cutoff.Add(-time.Hour)},
		{Name: "frisch", FetchedAt: cutoff.Add(time.Hour)},
	}))

	pruned, err := repo.Prune(ctx, "welt1", cutoff)
	rq.NoError(err)
	rq.EqualValues(1, pruned)

	loaded, err := repo.LoadAll(ctx, "welt1")
	rq.NoError(err)
	rq.Len(loaded, 1)
	rq.Equal("frisch", loaded[0].Name)
}
