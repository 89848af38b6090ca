package priceapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fw_trader/internal/domain"
	"fw_trader/internal/domain/entity"
	"fw_trader/internal/infrastructure/priceapi"
)

func TestItemPrice(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/catalog/item", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("name") {
		case "Heiltrank":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"Heiltrank","shop_price":2000}`))
		case "Kaputt":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := priceapi.NewClient(srv.URL).WithHTTPClient(srv.Client())

	price, err := client.ItemPrice(ctx, "Heiltrank")
	rq.NoError(err)
	rq.NotNil(price)
	rq.EqualValues(2000, *price)

	// Отсутствие в каталоге — знание, не ошибка.
	price, err = client.ItemPrice(ctx, "Wakrudpilz")
	rq.NoError(err)
	rq.Nil(price)

	_, err = client.ItemPrice(ctx, "Kaputt")
	rq.Error(err)
	rq.True(domain.IsTransientIO(err))
}

func TestLastPlayerPrice(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	observed := time.Date(2026, 7, 15, 9, 30, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/market/last-sale", func(w http.ResponseWriter, r *http.Request) {
		rq.Equal("welt1", r.URL.Query().Get("world"))

		if r.URL.Query().Get("name") != "Ölfass" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Ölfass","price":900,"observed_at":"2026-07-15T09:30:00Z","world":"welt1"}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := priceapi.NewClient(srv.URL).WithHTTPClient(srv.Client())

	sale, err := client.LastPlayerPrice(ctx, "Ölfass", "welt1")
	rq.NoError(err)
	rq.NotNil(sale)
	rq.EqualValues(900, sale.Value)
	rq.Equal(observed, sale.ObservedAt.UTC())

	sale, err = client.LastPlayerPrice(ctx, "Unbekannt", "welt1")
	rq.NoError(err)
	rq.Nil(sale)
}

func TestClientUnreachable(t *testing.T) {
	rq := require.New(t)

	client := priceapi.NewClient("http://127.0.0.1:1")

	_, err := client.ItemPrice(context.Background(), "Heiltrank")
	rq.Error(err)
	rq.True(domain.IsTransientIO(err))
}

func TestReportPurchase(t *testing.T) {
	rq := require.New(t)

	var gotBody string

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/market/purchases", func(w http.ResponseWriter, r *http.Request) {
		rq.Equal(http.MethodPost, r.Method)

		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)

		w.WriteHeader(http.StatusCreated)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := priceapi.NewClient(srv.URL).WithHTTPClient(srv.Client())

	shopPrice := int64(2000)

	err := client.ReportPurchase(context.Background(), "welt1", entity.PurchaseResult{
		Offer: entity.Offer{
			ItemID: 42,
			Name:   "Rostiges Schwert",
			Cost:   1200,
			Profit: 1100,
			Basis: &entity.PriceBasis{
				Name:      "Rostiges Schwert",
				ShopPrice: &shopPrice,
				PlayerPrice: &entity.PlayerPrice{
					Value:      2500,
					ObservedAt: time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC),
					World:      "welt1",
				},
				FromCache: true,
			},
		},
		At: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	})
	rq.NoError(err)
	rq.Contains(gotBody, `"item_id":42`)
	rq.Contains(gotBody, `"world":"welt1"`)
	rq.Contains(gotBody, `"profit":1100`)
	rq.Contains(gotBody, `"shop_price":2000`)
	rq.Contains(gotBody, `"player_price":2500`)
	rq.Contains(gotBody, `"player_observed_at":"2026-07-30T09:00:00Z"`)
	rq.Contains(gotBody, `"from_cache":true`)
}
