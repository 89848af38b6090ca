package priceapi

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"fw_trader/internal/domain/entity"
)

type lastSaleResponse struct {
	Name       string    `json:"name"`
	Price      int64     `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
	World      string    `json:"world"`
}

// LastPlayerPrice returns the most recent player-to-player sale recorded for
// the item, or nil when the market tracker has never seen one.
func (c *Client) LastPlayerPrice(ctx context.Context, name, world string) (*entity.PlayerPrice, error) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("world", world)

	var resp lastSaleResponse

	status, err := c.getJSON(ctx, "/v1/market/last-sale", query, &resp)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return nil, nil
	}

	return &entity.PlayerPrice{
		Value:      resp.Price,
		ObservedAt: resp.ObservedAt,
		World:      resp.World,
	}, nil
}
