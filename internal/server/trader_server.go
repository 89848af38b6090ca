package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"fw_trader/internal/domain/entity"
	"fw_trader/internal/domain/service/listing"
	"fw_trader/internal/infrastructure/telemetry"
	"fw_trader/pkg/errcodes"
	"fw_trader/pkg/httpx/reply"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type traderControl interface {
	State() telemetry.State
	IsRunning() bool
	RecentPurchases() []entity.PurchaseResult
	ClearProblem()
}

type signalBridge interface {
	SignalStart(ctx context.Context) error
	SignalStop(ctx context.Context) error
}

// TraderServer — операторский API поверх работающего трейдера.
// Сигналы идут через телеметрию и применяются на её границе, а не сразу.
type TraderServer struct {
	trader     traderControl
	bridge     signalBridge
	categories *listing.CategorySet
}

func NewTraderServer(
	trader traderControl,
	bridge signalBridge,
	categories *listing.CategorySet,
) TraderServer {
	return TraderServer{
		trader:     trader,
		bridge:     bridge,
		categories: categories,
	}
}

func (s TraderServer) getV1Status(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK,
		newRESTStatus(s.trader.IsRunning(), s.trader.State()))

	return nil
}

func (s TraderServer) getV1Purchases(w http.ResponseWriter, r *http.Request) error {
	purchases := s.trader.RecentPurchases()

	response := make([]restPurchase, 0, len(purchases))
	for _, p := range purchases {
		response = append(response, newRESTPurchase(p))
	}

	reply.JSON(r.Context(), w, http.StatusOK, response)

	return nil
}

func (s TraderServer) postV1SignalStart(w http.ResponseWriter, r *http.Request) error {
	if err := s.bridge.SignalStart(r.Context()); err != nil {
		return fmt.Errorf("bridge.SignalStart: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s TraderServer) postV1SignalStop(w http.ResponseWriter, r *http.Request) error {
	if err := s.bridge.SignalStop(r.Context()); err != nil {
		return fmt.Errorf("bridge.SignalStop: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s TraderServer) postV1ProblemClear(w http.ResponseWriter, r *http.Request) error {
	s.trader.ClearProblem()

	reply.OK(w)

	return nil
}

func (s TraderServer) getV1Categories(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, newRESTCategories(s.categories.List()))

	return nil
}

func (s TraderServer) putV1Categories(w http.ResponseWriter, r *http.Request) error {
	var request restCategories
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("json.Decode: %w", err),
			failure.WithCode(errcodes.ValidationError),
		)
	}

	categories, err := request.toDomain()
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("request.toDomain: %w", err),
			failure.WithCode(errcodes.ValidationError),
		)
	}

	s.categories.Replace(categories)

	reply.JSON(r.Context(), w, http.StatusOK, newRESTCategories(s.categories.List()))

	return nil
}
