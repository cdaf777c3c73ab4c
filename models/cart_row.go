package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRow is the database representation of one cart line item when the
// gorm persistence backend is selected. Position preserves insertion order.
type CartRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SessionID string    `gorm:"index;not null" json:"session_id"`
	ProductID string    `gorm:"not null" json:"product_id"`
	Quantity  int       `gorm:"default:1" json:"quantity"`
	Position  int       `gorm:"not null" json:"position"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *CartRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
