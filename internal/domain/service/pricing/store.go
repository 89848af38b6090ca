package pricing

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/patrickmn/go-cache"

	"fw_trader/internal/domain"
	"fw_trader/internal/domain/entity"
	"fw_trader/pkg/errcodes"
	"fw_trader/pkg/logx"
)

const (
	defaultValidityWindow = 30 * 24 * time.Hour
	defaultMarkupFactor   = 1.15
)

type CatalogClient interface {
	// ItemPrice returns nil without error when the catalog has no entry.
	ItemPrice(ctx context.Context, name string) (*int64, error)
}

type MarketClient interface {
	// LastPlayerPrice returns nil without error when no sale was observed.
	LastPlayerPrice(ctx context.Context, name, world string) (*entity.PlayerPrice, error)
}

type Repository interface {
	Upsert(ctx context.Context, world string, basis *entity.PriceBasis) error
	LoadAll(ctx context.Context, world string) ([]*entity.PriceBasis, error)
}

// Store разрешает и кэширует базу цены предмета. Живой кэш держим в памяти,
// sqlite-репозиторий переживает перезапуски.
type Store struct {
	catalog  CatalogClient
	market   MarketClient
	repo     Repository
	registry *TradeRegistry

	world  string
	window time.Duration
	markup float64

	records *cache.Cache
	now     func() time.Time
}

func NewStore(
	catalog CatalogClient,
	market MarketClient,
	repo Repository,
	world string,
) *Store {
	return &Store{
		catalog:  catalog,
		market:   market,
		repo:     repo,
		registry: DefaultTradeRegistry(),
		world:    world,
		window:   defaultValidityWindow,
		markup:   defaultMarkupFactor,
		records:  cache.New(cache.NoExpiration, time.Hour),
		now:      time.Now,
	}
}

func (s *Store) WithValidityWindow(window time.Duration) *Store {
	s.window = window
	return s
}

func (s *Store) WithMarkupFactor(markup float64) *Store {
	s.markup = markup
	return s
}

func (s *Store) WithRegistry(registry *TradeRegistry) *Store {
	s.registry = registry
	return s
}

// WithClock замена времени в тестах.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Warm loads the persisted cache into memory.
func (s *Store) Warm(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	records, err := s.repo.LoadAll(ctx, s.world)
	if err != nil {
		return fmt.Errorf("repo.LoadAll: %w", err)
	}

	for _, basis := range records {
		basis.FromCache = true
		s.records.Set(basis.Name, basis, cache.NoExpiration)
	}

	logger(ctx).Info("price cache warmed", "records", len(records))

	return nil
}

// Basis returns the pricing record for an item name, preferring a valid
// cached record over a remote lookup. A record with both prices absent is
// still a record; the gap surfaces later in ResaleValue.
func (s *Store) Basis(ctx context.Context, name string) (*entity.PriceBasis, error) {
	if raw, found := s.records.Get(name); found {
		basis := raw.(*entity.PriceBasis)
		if basis.Valid(s.now(), s.window) {
			return basis, nil
		}
	}

	return s.refresh(ctx, name)
}

// refresh performs the two independent remote lookups and caches whatever
// they produced, including partial knowledge.
func (s *Store) refresh(ctx context.Context, name string) (*entity.PriceBasis, error) {
	basis := &entity.PriceBasis{
		Name:      name,
		FetchedAt: s.now(),
		FromCache: false,
	}

	shopPrice, err := s.catalog.ItemPrice(ctx, CanonicalName(name))
	if err != nil {
		if !domain.IsTransientIO(err) {
			return nil, fmt.Errorf("catalog.ItemPrice: %w", err)
		}
		logger(ctx).Warn("catalog lookup failed, degrading to unknown",
			logx.FieldItemName, name, "error", err)
	} else {
		basis.ShopPrice = shopPrice
	}

	playerPrice, err := s.market.LastPlayerPrice(ctx, name, s.world)
	if err != nil {
		if !domain.IsTransientIO(err) {
			return nil, fmt.Errorf("market.LastPlayerPrice: %w", err)
		}
		logger(ctx).Warn("player market lookup failed, degrading to unknown",
			logx.FieldItemName, name, "error", err)
	} else {
		basis.PlayerPrice = playerPrice
	}

	s.records.Set(name, basis, cache.NoExpiration)

	if s.repo != nil {
		if err := s.repo.Upsert(ctx, s.world, basis); err != nil {
			logger(ctx).Error("failed to persist price basis",
				logx.FieldItemName, name, "error", err)
		}
	}

	return basis, nil
}

// ResaleValue applies the basis-selection rule: shop-sellable items resell at
// the catalog price inflated by the shop markup, rounded down; everything
// else resells at the player-market price.
func (s *Store) ResaleValue(basis *entity.PriceBasis) (int64, error) {
	if s.registry.CatalogSellable(CanonicalName(basis.Name)) && basis.ShopPrice != nil {
		return int64(math.Floor(float64(*basis.ShopPrice) * s.markup)), nil
	}

	if basis.PlayerPrice != nil {
		return basis.PlayerPrice.Value, nil
	}

	return 0, domain.NewError(errcodes.PricingGap,
		fmt.Sprintf("no resale basis for %q", basis.Name))
}

// Profit computes the resale margin of one asking cost against the basis.
func (s *Store) Profit(basis *entity.PriceBasis, cost int64) (int64, error) {
	resale, err := s.ResaleValue(basis)
	if err != nil {
		return 0, err
	}

	return resale - cost, nil
}
