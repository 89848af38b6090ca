package entity

import "time"

// Offer is one parsed, priced and accepted purchase candidate.
// Immutable once built; owned by the candidate queue until the purchase
// executor consumes it.
type Offer struct {
	// Основная информация о лоте
	ItemID   int64    `json:"item_id"`
	Name     string   `json:"name"`
	Cost     int64    `json:"cost"`
	Category Category `json:"category"`
	Magical  bool     `json:"magical"`

	// Экономические показатели (почему мы решили купить)
	Profit int64       `json:"profit"`
	Basis  *PriceBasis `json:"basis,omitempty"`

	// Технические данные для мгновенной покупки (чтобы не искать заново)
	Ref string `json:"-"`
}

// PurchaseResult records one executor attempt for telemetry pickup.
type PurchaseResult struct {
	Offer  Offer     `json:"offer"`
	Bought bool      `json:"bought"`
	At     time.Time `json:"at"`
}
