package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a piece of video or audio equipment in the catalogue.
type Product struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	SKU            string    `json:"sku" db:"sku"`
	Price          float64   `json:"price" db:"price"`
	StockQuantity  int       `json:"stockQuantity" db:"stock_quantity"`
	TrackInventory bool      `json:"trackInventory" db:"track_inventory"`
	Brand          string    `json:"brand,omitempty" db:"brand"`
	Category       string    `json:"category,omitempty" db:"category"`
	IsFeatured     bool      `json:"isFeatured" db:"is_featured"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// CanFulfil reports whether the product can cover the requested quantity.
// Products that do not track inventory always pass the stock check.
func (p *Product) CanFulfil(quantity int) bool {
	return p.IsActive && (!p.TrackInventory || p.StockQuantity >= quantity)
}
