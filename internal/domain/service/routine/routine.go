package routine

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/patrickmn/go-cache"

	"fw_trader/internal/domain"
	"fw_trader/internal/domain/entity"
	"fw_trader/internal/domain/service/candidates"
	"fw_trader/pkg/errcodes"
	"fw_trader/pkg/logx"
)

const (
	// Купленный лот не заводим в очередь повторно, пока страница мерчанта
	// может отставать от покупки.
	purchasedSuppression = time.Hour

	defaultDeliveryDelay = 5 * time.Minute
)

// Сообщение о пополнении ассортимента в истории чата.
var defaultDeliveryPattern = regexp.MustCompile(`Der Händler .* neue Waren erhalten`)

type GameClient interface {
	OpenCategoryMenu(ctx context.Context, category entity.Category) (bool, error)
	ReadCurrentPageText(ctx context.Context) (string, error)
	CanActNow(ctx context.Context) (bool, error)
	ChatHistory(ctx context.Context) ([]string, error)
}

type ListingParser interface {
	Parse(ctx context.Context, category entity.Category, raw string) ([]entity.Offer, error)
}

type PurchaseExecutor interface {
	Execute(ctx context.Context, offer entity.Offer) (bool, error)
}

// PhaseObserver is notified on every transition, so observers see phase
// changes without waiting for the next telemetry poll.
type PhaseObserver func(phase entity.Phase)

// transitions — явная таблица допустимых переходов фаз.
var transitions = map[entity.Phase][]entity.Phase{
	entity.PhaseAnalyze:          {entity.PhaseAnalyze, entity.PhasePurchase, entity.PhaseAwaitingDelivery},
	entity.PhasePurchase:         {entity.PhaseWait, entity.PhaseAnalyze},
	entity.PhaseWait:             {entity.PhaseWait, entity.PhasePurchase},
	entity.PhaseAwaitingDelivery: {entity.PhaseAwaitingDelivery, entity.PhaseAnalyze},
}

// Routine — фазовый автомат торгового цикла. Одна фаза за тик, никаких
// ретраев внутри: политика повторов принадлежит вызывающему воркеру.
type Routine struct {
	client   GameClient
	parser   ListingParser
	executor PurchaseExecutor

	phase    entity.Phase
	category entity.Category
	queue    *candidates.Queue

	bought      []entity.PurchaseResult
	purchased   *cache.Cache
	totalCost   int64
	totalProfit int64
	attempts    int
	failures    int

	deliveryDelay     time.Duration
	deliveryPattern   *regexp.Regexp
	deliveryWaitStart time.Time
	chatSeen          int

	observer PhaseObserver
	now      func() time.Time
}

func NewRoutine(
	client GameClient,
	parser ListingParser,
	executor PurchaseExecutor,
) *Routine {
	return &Routine{
		client:          client,
		parser:          parser,
		executor:        executor,
		phase:           entity.PhaseAnalyze,
		queue:           candidates.NewQueue(),
		purchased:       cache.New(purchasedSuppression, 10*time.Minute),
		deliveryDelay:   defaultDeliveryDelay,
		deliveryPattern: defaultDeliveryPattern,
		now:             time.Now,
	}
}

func (r *Routine) WithDeliveryDelay(delay time.Duration) *Routine {
	r.deliveryDelay = delay
	return r
}

func (r *Routine) WithDeliveryPattern(pattern *regexp.Regexp) *Routine {
	r.deliveryPattern = pattern
	return r
}

// WithClock замена времени в тестах.
func (r *Routine) WithClock(now func() time.Time) *Routine {
	r.now = now
	return r
}

func (r *Routine) SetPhaseObserver(observer PhaseObserver) {
	r.observer = observer
}

func (r *Routine) Phase() entity.Phase {
	return r.phase
}

// ForcePhase is the problem-state escape hatch of the outer service; it
// bypasses the transition table on purpose.
func (r *Routine) ForcePhase(phase entity.Phase) {
	if r.phase == phase {
		return
	}

	r.phase = phase
	if r.observer != nil {
		r.observer(phase)
	}
}

// Totals returns the running cost and profit of all bought offers.
func (r *Routine) Totals() (cost, profit int64) {
	return r.totalCost, r.totalProfit
}

// Attempts returns purchase attempt and failure counters.
func (r *Routine) Attempts() (attempts, failures int) {
	return r.attempts, r.failures
}

// DrainBought передаёт владение буфером купленных лотов вызывающему и
// начинает новый. Ровно один потребитель за интервал телеметрии.
func (r *Routine) DrainBought() []entity.PurchaseResult {
	drained := r.bought
	r.bought = nil
	return drained
}

// Tick executes exactly one phase action. A structural error forces the
// phase to awaiting_delivery and is returned for the caller's problem flag.
func (r *Routine) Tick(ctx context.Context) error {
	var (
		next entity.Phase
		err  error
	)

	switch r.phase {
	case entity.PhaseAnalyze:
		next, err = r.analyze(ctx)
	case entity.PhasePurchase:
		next, err = r.purchase(ctx)
	case entity.PhaseWait:
		next, err = r.wait(ctx)
	case entity.PhaseAwaitingDelivery:
		next, err = r.awaitDelivery(ctx)
	default:
		return domain.NewError(errcodes.InternalServerError,
			fmt.Sprintf("unknown phase %q", r.phase))
	}

	if err != nil && domain.IsStructural(err) {
		r.ForcePhase(entity.PhaseAwaitingDelivery)
		return err
	}

	r.setPhase(ctx, next)

	return err
}

func (r *Routine) setPhase(ctx context.Context, next entity.Phase) {
	if next == r.phase {
		return
	}

	allowed := false
	for _, p := range transitions[r.phase] {
		if p == next {
			allowed = true
			break
		}
	}
	if !allowed {
		logger(ctx).Warn("transition outside table",
			"from", r.phase.String(), "to", next.String())
	}

	logger(ctx).Info("phase transition",
		"from", r.phase.String(), logx.FieldPhase, next.String())

	r.phase = next
	if r.observer != nil {
		r.observer(next)
	}
}

// analyze processes the current category of the sweep and advances the
// cycle; completing a sweep decides between purchasing and waiting for the
// next delivery.
func (r *Routine) analyze(ctx context.Context) (entity.Phase, error) {
	category := r.category

	if category == entity.AllCategories[0] {
		// Новый проход: кандидаты прошлого прохода устарели.
		r.queue.Clear()
	}

	opened, err := r.client.OpenCategoryMenu(ctx, category)
	if err != nil || !opened {
		return r.phase, domain.WrapError(err, errcodes.MenuNotOpened,
			fmt.Sprintf("category menu %s did not open", category))
	}

	raw, err := r.client.ReadCurrentPageText(ctx)
	if err != nil {
		return r.phase, domain.WrapError(err, errcodes.StateError, "page text unavailable")
	}

	offers, err := r.parser.Parse(ctx, category, raw)
	if err != nil {
		return r.phase, fmt.Errorf("parser.Parse: %w", err)
	}

	merged := 0
	for _, offer := range offers {
		if _, bought := r.purchased.Get(fmt.Sprint(offer.ItemID)); bought {
			continue
		}
		r.queue.Push(offer)
		merged++
	}

	if merged > 0 {
		logger(ctx).Info("category analyzed",
			logx.FieldCategory, category.String(), "accepted", merged)
	}

	next, wrapped := entity.NextCategory(category)
	r.category = next
	if !wrapped {
		return entity.PhaseAnalyze, nil
	}

	// Sweep complete.
	if r.queue.Len() == 0 {
		r.startDeliveryWait(ctx)
		return entity.PhaseAwaitingDelivery, nil
	}

	return entity.PhasePurchase, nil
}

// purchase pops the best candidate and executes exactly one attempt.
func (r *Routine) purchase(ctx context.Context) (entity.Phase, error) {
	offer, ok := r.queue.PopMax()
	if !ok {
		// Кандидаты кончились или устарели — сканируем заново.
		return entity.PhaseAnalyze, nil
	}

	r.attempts++

	bought, err := r.executor.Execute(ctx, offer)
	switch {
	case domain.IsListingVanished(err):
		// Проигранная гонка за лот: промах, но не ошибка тика.
		r.failures++
		return entity.PhaseWait, nil
	case err != nil:
		r.failures++
		return entity.PhaseWait, fmt.Errorf("executor.Execute: %w", err)
	case !bought:
		r.failures++
		return entity.PhaseWait, nil
	}

	r.bought = append(r.bought, entity.PurchaseResult{
		Offer:  offer,
		Bought: true,
		At:     r.now(),
	})
	r.purchased.Set(fmt.Sprint(offer.ItemID), true, cache.DefaultExpiration)
	r.totalCost += offer.Cost
	r.totalProfit += offer.Profit

	return entity.PhaseWait, nil
}

// wait polls the action budget; nothing else happens this tick.
func (r *Routine) wait(ctx context.Context) (entity.Phase, error) {
	canAct, err := r.client.CanActNow(ctx)
	if err != nil {
		logger(ctx).Warn("action budget unavailable, staying in wait", "error", err)
		return entity.PhaseWait, nil
	}

	if canAct {
		return entity.PhasePurchase, nil
	}

	return entity.PhaseWait, nil
}

// awaitDelivery watches the chat history for the restock broadcast; the
// blind delay stays as a fallback for worlds where the broadcast is muted.
func (r *Routine) awaitDelivery(ctx context.Context) (entity.Phase, error) {
	if r.deliveryWaitStart.IsZero() {
		r.startDeliveryWait(ctx)
	}

	messages, err := r.client.ChatHistory(ctx)
	if err != nil {
		logger(ctx).Warn("chat history unavailable", "error", err)
	}

	if len(messages) > r.chatSeen {
		for _, msg := range messages[r.chatSeen:] {
			if r.deliveryPattern.MatchString(msg) {
				logger(ctx).Info("🚚 delivery detected in chat")
				r.deliveryWaitStart = time.Time{}
				return entity.PhaseAnalyze, nil
			}
		}
		r.chatSeen = len(messages)
	}

	if r.now().Sub(r.deliveryWaitStart) >= r.deliveryDelay {
		logger(ctx).Info("delivery delay elapsed without chat signal")
		r.deliveryWaitStart = time.Time{}
		return entity.PhaseAnalyze, nil
	}

	return entity.PhaseAwaitingDelivery, nil
}

func (r *Routine) startDeliveryWait(ctx context.Context) {
	r.deliveryWaitStart = r.now()
	r.chatSeen = 0

	if messages, err := r.client.ChatHistory(ctx); err == nil {
		// Совпадения до начала ожидания не считаются.
		r.chatSeen = len(messages)
	}
}
