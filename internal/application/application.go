package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"fw_trader/internal/config"
	"fw_trader/internal/domain/entity"
	"fw_trader/internal/domain/service/listing"
	"fw_trader/internal/domain/service/pricing"
	"fw_trader/internal/domain/service/purchase"
	"fw_trader/internal/domain/service/routine"
	"fw_trader/internal/infrastructure/gameclient"
	"fw_trader/internal/infrastructure/notifier"
	"fw_trader/internal/infrastructure/persistence"
	"fw_trader/internal/infrastructure/priceapi"
	"fw_trader/internal/infrastructure/telemetry"
	"fw_trader/internal/server"
	"fw_trader/internal/worker"
	"fw_trader/pkg/application/connectors"
	"fw_trader/pkg/application/modules"
	"fw_trader/pkg/middlewarex"
)

const (
	appName         = "fw_trader"
	appVersion      = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

func Run(ctx context.Context, cancel context.CancelFunc) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	// 2. Storage
	sqlite := &connectors.Sqlite{Path: cfg.Sqlite.Path}
	db := sqlite.Client(ctx)
	defer sqlite.Close(ctx)

	repo := persistence.NewPriceBasisRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return fmt.Errorf("repo migrate: %w", err)
	}

	rds := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	bridge := telemetry.NewBridge(rds.Client(ctx), cfg.App.BotName)
	defer rds.Close(ctx)

	// 3. Pricing
	priceClient := priceapi.NewClient(cfg.Pricing.ServiceURL)

	priceStore := pricing.NewStore(priceClient, priceClient, repo, cfg.Game.World).
		WithValidityWindow(cfg.Pricing.ValidityWindow).
		WithMarkupFactor(cfg.Pricing.MarkupFactor)

	if err := priceStore.Warm(ctx); err != nil {
		return fmt.Errorf("price store warm: %w", err)
	}

	// 4. Game browser session
	game, err := gameclient.NewClient(ctx, gameclient.Options{
		BaseURL:  cfg.Game.BaseURL,
		World:    cfg.Game.World,
		Username: cfg.Game.Username,
		Password: cfg.Game.Password,
		Headless: cfg.Game.Headless,
		Debug:    cfg.Game.Debug,
	})
	if err != nil {
		return fmt.Errorf("game client: %w", err)
	}
	defer game.Close()

	if err := game.Login(ctx); err != nil {
		return fmt.Errorf("game login: %w", err)
	}

	// 5. Trading pipeline
	categories := listing.NewCategorySet()

	parser := listing.NewParser(priceStore).
		WithAcceptor(listing.MinProfitAcceptor(cfg.Worker.MinProfit, categories))

	tradeRoutine := routine.NewRoutine(game, parser, purchase.NewExecutor(game)).
		WithDeliveryDelay(cfg.Worker.DeliveryDelay)

	trader := worker.NewTrader(tradeRoutine, bridge, cfg.Game.World).
		WithIntervals(cfg.Worker.TickInterval, cfg.Worker.TelemetryInterval)

	if cfg.Pricing.ReportEnabled {
		trader = trader.WithReporter(priceClient)
	}

	// 6. Notifier bot
	var purchasesCh chan entity.PurchaseResult
	if cfg.Bot.Enabled {
		alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier bot: %w", err)
		}

		if err := alertBot.SendText(ctx, "🚀 Trader startet!"); err != nil {
			logger(ctx).Error("❌ bot test failed, check token and chat id", "error", err)
		}

		purchasesCh = make(chan entity.PurchaseResult, 100)
		trader = trader.WithPurchaseChannel(purchasesCh)

		go func() {
			if err := alertBot.Run(ctx, purchasesCh); err != nil && ctx.Err() == nil {
				logger(ctx).Error("notifier bot stopped", "error", err)
			}
		}()
	}

	// 7. Worker
	if err := trader.Start(ctx); err != nil {
		return fmt.Errorf("trader start: %w", err)
	}
	defer trader.Stop()

	// 8. HTTP surface
	g, gCtx := errgroup.WithContext(ctx)

	router := chi.NewRouter()
	router.Use(middlewarex.TraceID, middlewarex.Logger, middlewarex.Recovery)
	server.NewServer(server.NewTraderServer(trader, bridge, categories)).RegisterRoutes(router)

	modules.HTTPServer{ShutdownTimeout: shutdownTimeout}.Run(gCtx, g, &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.Server.HTTPAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	})

	modules.ProbeServer{
		Name:          appName,
		Version:       appVersion,
		ListenAddress: cfg.Server.ProbeAddress,
	}.Run(gCtx, g)

	modules.MetricServer{ListenAddress: cfg.Server.MetricAddress}.Run(gCtx, g)

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		cancel()
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}
