package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"fw_trader/internal/domain"
	"fw_trader/internal/domain/entity"
	"fw_trader/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	keyPhase       = "phase"
	keyPaused      = "paused"
	keyProblem     = "problem"
	keyProblemAt   = "problem_at"
	keyTotalCost   = "total_cost"
	keyTotalProfit = "total_profit"
	keyBoughtList  = "bought"
	keySignalStart = "signal:start"
	keySignalStop  = "signal:stop"
)

// State is the worker snapshot published on every telemetry boundary.
type State struct {
	Phase       entity.Phase
	Paused      bool
	Problem     bool
	ProblemAt   time.Time
	TotalCost   int64
	TotalProfit int64
}

// Signals carries the operator flags collected since the last boundary.
type Signals struct {
	Start bool
	Stop  bool
}

// Bridge mirrors worker state into redis so external tooling can watch the
// trader without talking to its HTTP API.
type Bridge struct {
	client *redis.Client
	prefix string
}

func NewBridge(client *redis.Client, botName string) *Bridge {
	return &Bridge{
		client: client,
		prefix: "trader:" + botName + ":",
	}
}

// PushState writes the full snapshot in one pipeline round trip.
func (b *Bridge) PushState(ctx context.Context, state State) error {
	pipe := b.client.Pipeline()

	pipe.Set(ctx, b.prefix+keyPhase, string(state.Phase), 0)
	pipe.Set(ctx, b.prefix+keyPaused, strconv.FormatBool(state.Paused), 0)
	pipe.Set(ctx, b.prefix+keyProblem, strconv.FormatBool(state.Problem), 0)
	pipe.Set(ctx, b.prefix+keyTotalCost, state.TotalCost, 0)
	pipe.Set(ctx, b.prefix+keyTotalProfit, state.TotalProfit, 0)

	if state.Problem {
		pipe.Set(ctx, b.prefix+keyProblemAt, state.ProblemAt.Format(time.RFC3339), 0)
	} else {
		pipe.Del(ctx, b.prefix+keyProblemAt)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return domain.WrapError(err, errcodes.TransientIO, "failed to push state")
	}

	return nil
}

// PushBought appends purchase records to the bought list.
func (b *Bridge) PushBought(ctx context.Context, results []entity.PurchaseResult) error {
	if len(results) == 0 {
		return nil
	}

	values := make([]any, 0, len(results))
	for i := range results {
		raw, err := json.Marshal(results[i])
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError,
				fmt.Sprintf("failed to marshal purchase %d", i))
		}
		values = append(values, raw)
	}

	if err := b.client.RPush(ctx, b.prefix+keyBoughtList, values...).Err(); err != nil {
		return domain.WrapError(err, errcodes.TransientIO, "failed to push purchases")
	}

	return nil
}

// ReadSignals consumes the pending operator flags. GetDel keeps the read and
// the reset atomic per flag.
func (b *Bridge) ReadSignals(ctx context.Context) (Signals, error) {
	var signals Signals

	start, err := b.client.GetDel(ctx, b.prefix+keySignalStart).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return signals, domain.WrapError(err, errcodes.TransientIO, "failed to read start signal")
	}
	signals.Start = start != ""

	stop, err := b.client.GetDel(ctx, b.prefix+keySignalStop).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return signals, domain.WrapError(err, errcodes.TransientIO, "failed to read stop signal")
	}
	signals.Stop = stop != ""

	return signals, nil
}

// SignalStart raises the start flag for the next telemetry boundary.
func (b *Bridge) SignalStart(ctx context.Context) error {
	if err := b.client.Set(ctx, b.prefix+keySignalStart, "1", 0).Err(); err != nil {
		return domain.WrapError(err, errcodes.TransientIO, "failed to set start signal")
	}
	return nil
}

// SignalStop raises the stop flag for the next telemetry boundary.
func (b *Bridge) SignalStop(ctx context.Context) error {
	if err := b.client.Set(ctx, b.prefix+keySignalStop, "1", 0).Err(); err != nil {
		return domain.WrapError(err, errcodes.TransientIO, "failed to set stop signal")
	}
	return nil
}
