package server

import (
	"errors"
	"fmt"
	"time"

	"fw_trader/internal/domain/entity"
	"fw_trader/internal/infrastructure/telemetry"
)

type restStatus struct {
	Running     bool   `json:"running"`
	Phase       string `json:"phase"`
	Paused      bool   `json:"paused"`
	Problem     bool   `json:"problem"`
	ProblemAt   string `json:"problemAt,omitempty"`
	TotalCost   int64  `json:"totalCost"`
	TotalProfit int64  `json:"totalProfit"`
}

func newRESTStatus(running bool, state telemetry.State) restStatus {
	status := restStatus{
		Running:     running,
		Phase:       string(state.Phase),
		Paused:      state.Paused,
		Problem:     state.Problem,
		TotalCost:   state.TotalCost,
		TotalProfit: state.TotalProfit,
	}

	if state.Problem {
		status.ProblemAt = state.ProblemAt.Format(time.RFC3339)
	}

	return status
}

type restPurchase struct {
	ItemID   int64  `json:"itemId"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Cost     int64  `json:"cost"`
	Profit   int64  `json:"profit"`
	Magical  bool   `json:"magical"`
	BoughtAt string `json:"boughtAt"`
}

func newRESTPurchase(res entity.PurchaseResult) restPurchase {
	return restPurchase{
		ItemID:   res.Offer.ItemID,
		Name:     res.Offer.Name,
		Category: res.Offer.Category.String(),
		Cost:     res.Offer.Cost,
		Profit:   res.Offer.Profit,
		Magical:  res.Offer.Magical,
		BoughtAt: res.At.Format(time.RFC3339),
	}
}

type restCategories struct {
	Categories []string `json:"categories"`
}

func newRESTCategories(categories []entity.Category) restCategories {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.String())
	}

	return restCategories{Categories: names}
}

func (r restCategories) toDomain() ([]entity.Category, error) {
	if len(r.Categories) == 0 {
		return nil, errors.New("at least one category required")
	}

	categories := make([]entity.Category, 0, len(r.Categories))
	for _, name := range r.Categories {
		category, ok := entity.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		categories = append(categories, category)
	}

	return categories, nil
}
