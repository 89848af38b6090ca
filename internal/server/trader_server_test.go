package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"fw_trader/internal/domain/entity"
	"fw_trader/internal/domain/service/listing"
	"fw_trader/internal/infrastructure/telemetry"
	"fw_trader/internal/server"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type fakeTrader struct {
	state          telemetry.State
	running        bool
	recent         []entity.PurchaseResult
	problemCleared int
}

func (f *fakeTrader) State() telemetry.State { return f.state }

func (f *fakeTrader) IsRunning() bool { return f.running }

func (f *fakeTrader) RecentPurchases() []entity.PurchaseResult { return f.recent }

func (f *fakeTrader) ClearProblem() { f.problemCleared++ }

type fakeBridge struct {
	starts int
	stops  int
}

func (f *fakeBridge) SignalStart(context.Context) error {
	f.starts++
	return nil
}

func (f *fakeBridge) SignalStop(context.Context) error {
	f.stops++
	return nil
}

func newTestServer(trader *fakeTrader, bridge *fakeBridge, categories *listing.CategorySet) *httptest.Server {
	router := chi.NewRouter()
	server.NewServer(server.NewTraderServer(trader, bridge, categories)).RegisterRoutes(router)
	return httptest.NewServer(router)
}

func TestGetStatus(t *testing.T) {
	rq := require.New(t)

	trader := &fakeTrader{
		running: true,
		state: telemetry.State{
			Phase:       entity.PhasePurchase,
			Problem:     true,
			ProblemAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			TotalCost:   1200,
			TotalProfit: 1100,
		},
	}

	srv := newTestServer(trader, &fakeBridge{}, listing.NewCategorySet())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/status")
	rq.NoError(err)
	defer resp.Body.Close()

	rq.Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Running     bool   `json:"running"`
		Phase       string `json:"phase"`
		Problem     bool   `json:"problem"`
		ProblemAt   string `json:"problemAt"`
		TotalCost   int64  `json:"totalCost"`
		TotalProfit int64  `json:"totalProfit"`
	}
	rq.NoError(json.NewDecoder(resp.Body).Decode(&body))

	rq.True(body.Running)
	rq.Equal("purchase", body.Phase)
	rq.True(body.Problem)
	rq.Equal("2026-08-01T12:00:00Z", body.ProblemAt)
	rq.EqualValues(1200, body.TotalCost)
	rq.EqualValues(1100, body.TotalProfit)
}

func TestSignalsAndProblemClear(t *testing.T) {
	rq := require.New(t)

	trader := &fakeTrader{}
	bridge := &fakeBridge{}

	srv := newTestServer(trader, bridge, listing.NewCategorySet())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/signals/start", "", http.NoBody)
	rq.NoError(err)
	resp.Body.Close()
	rq.Equal(http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/v1/signals/stop", "", http.NoBody)
	rq.NoError(err)
	resp.Body.Close()
	rq.Equal(http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/v1/problem/clear", "", http.NoBody)
	rq.NoError(err)
	resp.Body.Close()
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.Equal(1, bridge.starts)
	rq.Equal(1, bridge.stops)
	rq.Equal(1, trader.problemCleared)
}

func TestCategoriesRoundTrip(t *testing.T) {
	rq := require.New(t)

	categories := listing.NewCategorySet()

	srv := newTestServer(&fakeTrader{}, &fakeBridge{}, categories)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/v1/categories/",
		strings.NewReader(`{"categories":["amulets","spells"]}`))
	rq.NoError(err)

	resp, err := http.DefaultClient.Do(req)
	rq.NoError(err)
	defer resp.Body.Close()

	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(
		[]entity.Category{entity.CategoryAmulets, entity.CategorySpells},
		categories.List(),
	)

	// Неизвестная категория отклоняется целиком.
	req, err = http.NewRequest(http.MethodPut, srv.URL+"/v1/categories/",
		strings.NewReader(`{"categories":["amulets","swords"]}`))
	rq.NoError(err)

	resp, err = http.DefaultClient.Do(req)
	rq.NoError(err)
	defer resp.Body.Close()

	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Len(categories.List(), 2)
}
