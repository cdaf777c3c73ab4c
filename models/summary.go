package models

import (
	"time"

	"github.com/google/uuid"
)

// PurchasedItem is one line of a completed purchase, priced from the
// pre-commit read, not from the cart's display hints.
type PurchasedItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// PurchaseSummary is produced once at successful checkout completion and
// exists only for the current session to render a confirmation. It is not
// persisted anywhere.
type PurchaseSummary struct {
	ID              uuid.UUID       `json:"id"`
	Items           []PurchasedItem `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	DiscountPercent int             `json:"discount_percent"`
	Total           float64         `json:"total"`
	CompletedAt     time.Time       `json:"completed_at"`
}
