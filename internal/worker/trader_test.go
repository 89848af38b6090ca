package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"fw_trader/internal/domain/entity"
	"fw_trader/internal/domain/service/routine"
	"fw_trader/internal/infrastructure/telemetry"
)

type fakeBridge struct {
	signals     telemetry.Signals
	states      []telemetry.State
	pushedBatch [][]entity.PurchaseResult
}

func (f *fakeBridge) PushState(_ context.Context, state telemetry.State) error {
	f.states = append(f.states, state)
	return nil
}

func (f *fakeBridge) PushBought(_ context.Context, results []entity.PurchaseResult) error {
	f.pushedBatch = append(f.pushedBatch, results)
	return nil
}

func (f *fakeBridge) ReadSignals(context.Context) (telemetry.Signals, error) {
	signals := f.signals
	f.signals = telemetry.Signals{}
	return signals, nil
}

type stuckGame struct{}

func (stuckGame) OpenCategoryMenu(context.Context, entity.Category) (bool, error) {
	return false, nil
}

func (stuckGame) ReadCurrentPageText(context.Context) (string, error) { return "", nil }

func (stuckGame) CanActNow(context.Context) (bool, error) { return false, nil }

func (stuckGame) ChatHistory(context.Context) ([]string, error) { return nil, nil }

type noParser struct{}

func (noParser) Parse(context.Context, entity.Category, string) ([]entity.Offer, error) {
	return nil, nil
}

type noExecutor struct{}

func (noExecutor) Execute(context.Context, entity.Offer) (bool, error) { return false, nil }

func newIdleTrader(bridge *fakeBridge) *Trader {
	r := routine.NewRoutine(stuckGame{}, noParser{}, noExecutor{})
	return NewTrader(r, bridge, "welt1")
}

func TestSignalsApplyOnBoundary(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	bridge := &fakeBridge{}
	trader := newIdleTrader(bridge)

	bridge.signals = telemetry.Signals{Stop: true}
	trader.telemetryBoundary(ctx)
	rq.True(trader.State().Paused)

	bridge.signals = telemetry.Signals{Start: true}
	trader.telemetryBoundary(ctx)
	rq.False(trader.State().Paused)

	// Противоречивая пара флагов состояния не меняет.
	bridge.signals = telemetry.Signals{Stop: true}
	trader.telemetryBoundary(ctx)
	rq.True(trader.State().Paused)

	bridge.signals = telemetry.Signals{Start: true, Stop: true}
	trader.telemetryBoundary(ctx)
	rq.True(trader.State().Paused)
}

func TestStructuralErrorSetsProblem(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	trader := newIdleTrader(&fakeBridge{})

	// Меню не открывается: первый же тик фазы анализа структурно падает.
	trader.tick(ctx)

	state := trader.State()
	rq.True(state.Problem)
	rq.False(state.ProblemAt.IsZero())

	trader.ClearProblem()
	rq.False(trader.State().Problem)
}

func TestProblemSkipsTicks(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	trader := newIdleTrader(&fakeBridge{})

	trader.tick(ctx)
	rq.True(trader.State().Problem)

	// Рутина заморожена в awaiting_delivery, пока флаг не снят.
	phase := trader.routine.Phase()
	rq.Equal(entity.PhaseAwaitingDelivery, phase)

	trader.tick(ctx)
	rq.Equal(phase, trader.routine.Phase())
}

func TestBoundaryFlushesPurchases(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	bridge := &fakeBridge{}
	trader := newIdleTrader(bridge)

	trader.telemetryBoundary(ctx)

	rq.Empty(bridge.pushedBatch)
	rq.Len(bridge.states, 1)
	rq.Equal(entity.PhaseAnalyze, bridge.states[0].Phase)
}
