package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"fw_trader/internal/domain"
	"fw_trader/internal/domain/entity"
	"fw_trader/internal/domain/service/routine"
	"fw_trader/internal/infrastructure/telemetry"
	"fw_trader/pkg/logx"
	"fw_trader/pkg/metrics"
)

const (
	defaultTickInterval      = 100 * time.Millisecond
	defaultTelemetryInterval = 500 * time.Millisecond

	recentPurchasesKeep = 50
)

type TelemetryBridge interface {
	PushState(ctx context.Context, state telemetry.State) error
	PushBought(ctx context.Context, results []entity.PurchaseResult) error
	ReadSignals(ctx context.Context) (telemetry.Signals, error)
}

type PurchaseReporter interface {
	ReportPurchase(ctx context.Context, world string, res entity.PurchaseResult) error
}

// Trader гоняет фазовый автомат по тикам и раз в интервал телеметрии
// сверяется с внешним миром: сигналы оператора, выгрузка покупок, снапшот
// состояния. Между границами телеметрии автомат никто не трогает.
type Trader struct {
	routine  *routine.Routine
	bridge   TelemetryBridge
	reporter PurchaseReporter

	purchases chan<- entity.PurchaseResult
	world     string

	tickInterval      time.Duration
	telemetryInterval time.Duration

	// Snapshot for readers outside the run goroutine.
	state  telemetry.State
	recent []entity.PurchaseResult

	prevPhase    entity.Phase
	prevFailures int

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewTrader(
	tradeRoutine *routine.Routine,
	bridge TelemetryBridge,
	world string,
) *Trader {
	t := &Trader{
		routine:           tradeRoutine,
		bridge:            bridge,
		world:             world,
		tickInterval:      defaultTickInterval,
		telemetryInterval: defaultTelemetryInterval,
		state:             telemetry.State{Phase: tradeRoutine.Phase()},
		prevPhase:         tradeRoutine.Phase(),
	}

	return t
}

func (t *Trader) WithReporter(reporter PurchaseReporter) *Trader {
	t.reporter = reporter
	return t
}

// WithPurchaseChannel подключает уведомителя; отправка не блокирует цикл.
func (t *Trader) WithPurchaseChannel(purchases chan<- entity.PurchaseResult) *Trader {
	t.purchases = purchases
	return t
}

func (t *Trader) WithIntervals(tick, boundary time.Duration) *Trader {
	if tick > 0 {
		t.tickInterval = tick
	}
	if boundary > 0 {
		t.telemetryInterval = boundary
	}
	return t
}

func (t *Trader) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.isRunning {
		return errors.New("trader is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	t.cancelFunc = cancel
	t.isRunning = true

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() {
			t.mu.Lock()
			t.isRunning = false
			t.cancelFunc = nil
			t.mu.Unlock()
		}()

		if err := t.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(runCtx).Error("trader stopped with error", logx.Error(err))
		}
	}()

	return nil
}

func (t *Trader) Stop() {
	t.mu.Lock()

	if !t.isRunning {
		t.mu.Unlock()
		return
	}

	if t.cancelFunc != nil {
		t.cancelFunc()
	}
	t.mu.Unlock()

	t.wg.Wait()
}

// IsRunning возвращает текущий статус
func (t *Trader) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isRunning
}

// Run drives the loop until the context ends. Phase ticks and telemetry
// boundaries interleave on independent cadences.
func (t *Trader) Run(ctx context.Context) error {
	logger(ctx).Info("🚀 trader started", logx.FieldWorld, t.world)

	t.routine.SetPhaseObserver(func(phase entity.Phase) {
		t.onPhaseChange(ctx, phase)
	})

	tick := time.NewTicker(t.tickInterval)
	defer tick.Stop()

	boundary := time.NewTicker(t.telemetryInterval)
	defer boundary.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("🛑 trader stopped")
			return ctx.Err()
		case <-boundary.C:
			t.telemetryBoundary(ctx)
		case <-tick.C:
			t.tick(ctx)
		}
	}
}

func (t *Trader) tick(ctx context.Context) {
	t.mu.Lock()
	skip := t.state.Paused || t.state.Problem
	t.mu.Unlock()

	if skip {
		return
	}

	err := t.routine.Tick(ctx)
	if err == nil {
		return
	}

	if domain.IsStructural(err) {
		logger(ctx).Error("⛔ structural error, trader halted", logx.Error(err))

		t.mu.Lock()
		t.state.Problem = true
		t.state.ProblemAt = time.Now()
		t.mu.Unlock()

		metrics.ProblemFlag.Set(1)
		return
	}

	logger(ctx).Warn("tick failed", logx.Error(err))
}

// telemetryBoundary applies pending operator signals, flushes purchases and
// publishes the state snapshot. Pause changes happen only here.
func (t *Trader) telemetryBoundary(ctx context.Context) {
	signals, err := t.bridge.ReadSignals(ctx)
	if err != nil {
		logger(ctx).Warn("failed to read signals", logx.Error(err))
	}

	t.mu.Lock()
	switch {
	case signals.Start && signals.Stop:
		// Противоречивые сигналы в одном интервале не меняют состояние.
	case signals.Stop:
		t.state.Paused = true
	case signals.Start:
		t.state.Paused = false
	}

	t.state.Phase = t.routine.Phase()
	t.state.TotalCost, t.state.TotalProfit = t.routine.Totals()
	state := t.state
	t.mu.Unlock()

	t.flushPurchases(ctx)
	t.updateCounters()

	if err := t.bridge.PushState(ctx, state); err != nil {
		logger(ctx).Warn("failed to push state", logx.Error(err))
	}
}

func (t *Trader) flushPurchases(ctx context.Context) {
	bought := t.routine.DrainBought()
	if len(bought) == 0 {
		return
	}

	t.mu.Lock()
	t.recent = append(t.recent, bought...)
	if len(t.recent) > recentPurchasesKeep {
		t.recent = t.recent[len(t.recent)-recentPurchasesKeep:]
	}
	t.mu.Unlock()

	for _, res := range bought {
		metrics.PurchasesTotal.WithLabelValues("bought").Inc()
		metrics.SpentGoldTotal.Add(float64(res.Offer.Cost))
		metrics.ProfitGoldTotal.Add(float64(res.Offer.Profit))

		if t.purchases != nil {
			select {
			case t.purchases <- res:
			default:
				logger(ctx).Warn("purchase channel full, notification dropped",
					logx.FieldItemName, res.Offer.Name)
			}
		}

		if t.reporter != nil {
			if err := t.reporter.ReportPurchase(ctx, t.world, res); err != nil {
				logger(ctx).Warn("failed to report purchase", logx.Error(err))
			}
		}
	}

	if err := t.bridge.PushBought(ctx, bought); err != nil {
		logger(ctx).Warn("failed to push purchases", logx.Error(err))
	}
}

func (t *Trader) updateCounters() {
	_, failures := t.routine.Attempts()

	for i := t.prevFailures; i < failures; i++ {
		metrics.PurchasesTotal.WithLabelValues("missed").Inc()
	}

	t.prevFailures = failures
}

// onPhaseChange runs inside the run goroutine; it refreshes the snapshot and
// pushes it without waiting for the next boundary.
func (t *Trader) onPhaseChange(ctx context.Context, phase entity.Phase) {
	sweepDone := t.prevPhase == entity.PhaseAnalyze && phase != entity.PhaseAnalyze

	metrics.CurrentPhase.WithLabelValues(string(t.prevPhase)).Set(0)
	metrics.CurrentPhase.WithLabelValues(string(phase)).Set(1)
	if sweepDone {
		metrics.SweepsTotal.Inc()
	}
	t.prevPhase = phase

	t.mu.Lock()
	t.state.Phase = phase
	t.state.TotalCost, t.state.TotalProfit = t.routine.Totals()
	state := t.state
	t.mu.Unlock()

	if err := t.bridge.PushState(ctx, state); err != nil {
		logger(ctx).Warn("failed to push state", logx.Error(err))
	}
}

// State возвращает последний снапшот для HTTP-статуса.
func (t *Trader) State() telemetry.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// RecentPurchases returns a copy of the last purchases, newest last.
func (t *Trader) RecentPurchases() []entity.PurchaseResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.recent) == 0 {
		return nil
	}

	result := make([]entity.PurchaseResult, len(t.recent))
	copy(result, t.recent)
	return result
}

// ClearProblem снимает флаг проблемы после ручной проверки оператором.
func (t *Trader) ClearProblem() {
	t.mu.Lock()
	t.state.Problem = false
	t.state.ProblemAt = time.Time{}
	t.mu.Unlock()

	metrics.ProblemFlag.Set(0)
}
