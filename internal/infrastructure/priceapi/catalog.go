package priceapi

import (
	"context"
	"net/http"
	"net/url"
)

type catalogItemResponse struct {
	Name      string `json:"name"`
	ShopPrice int64  `json:"shop_price"`
}

// ItemPrice returns the catalog shop price for an item name, or nil when the
// catalog has no entry for it.
func (c *Client) ItemPrice(ctx context.Context, name string) (*int64, error) {
	query := url.Values{}
	query.Set("name", name)

	var resp catalogItemResponse

	status, err := c.getJSON(ctx, "/v1/catalog/item", query, &resp)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return nil, nil
	}

	return &resp.ShopPrice, nil
}
