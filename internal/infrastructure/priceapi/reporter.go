package priceapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"fw_trader/internal/domain"
	"fw_trader/internal/domain/entity"
	"fw_trader/pkg/errcodes"
)

// purchaseBasis — база перепродажи, на которой было принято решение.
type purchaseBasis struct {
	ShopPrice        *int64     `json:"shop_price,omitempty"`
	PlayerPrice      *int64     `json:"player_price,omitempty"`
	PlayerObservedAt *time.Time `json:"player_observed_at,omitempty"`
	FromCache        bool       `json:"from_cache"`
}

type purchaseReport struct {
	ItemID   int64          `json:"item_id"`
	Name     string         `json:"name"`
	Cost     int64          `json:"cost"`
	Profit   int64          `json:"profit"`
	Category string         `json:"category"`
	World    string         `json:"world"`
	BoughtAt time.Time      `json:"bought_at"`
	Basis    *purchaseBasis `json:"basis,omitempty"`
}

// ReportPurchase feeds our own purchase back into the community price data.
// Failures are transient, the trade already happened.
func (c *Client) ReportPurchase(ctx context.Context, world string, res entity.PurchaseResult) error {
	report := purchaseReport{
		ItemID:   res.Offer.ItemID,
		Name:     res.Offer.Name,
		Cost:     res.Offer.Cost,
		Profit:   res.Offer.Profit,
		Category: res.Offer.Category.String(),
		World:    world,
		BoughtAt: res.At,
	}

	if basis := res.Offer.Basis; basis != nil {
		report.Basis = &purchaseBasis{
			ShopPrice: basis.ShopPrice,
			FromCache: basis.FromCache,
		}
		if pp := basis.PlayerPrice; pp != nil {
			report.Basis.PlayerPrice = &pp.Value
			report.Basis.PlayerObservedAt = &pp.ObservedAt
		}
	}

	b, err := json.Marshal(report)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to marshal report")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/market/purchases", bytes.NewReader(b))
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(err, errcodes.TransientIO, "price service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.NewError(errcodes.TransientIO,
			fmt.Sprintf("price service answered %d", resp.StatusCode))
	}

	return nil
}
