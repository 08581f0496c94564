package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductKit represents a bundle of products sold as a single unit with its
// own SKU and price. Its purchasability is derived from component stock,
// never stored.
type ProductKit struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	SKU         string    `json:"sku" db:"sku"`
	KitPrice    float64   `json:"kitPrice" db:"kit_price"`
	IsAvailable bool      `json:"isAvailable" db:"is_available"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	Items       []KitItem `json:"items"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// KitItem represents one component product within a kit.
type KitItem struct {
	ID            uuid.UUID `json:"id" db:"id"`
	KitID         uuid.UUID `json:"kitId" db:"kit_id"`
	ProductID     uuid.UUID `json:"productId" db:"product_id"`
	Quantity      int       `json:"quantity" db:"quantity"`
	OverridePrice *float64  `json:"overridePrice,omitempty" db:"override_price"`
	SortOrder     int       `json:"sortOrder" db:"sort_order"`
}

// EffectivePrice returns the price this component contributes inside the kit,
// preferring the override when one is set.
func (k *KitItem) EffectivePrice(productPrice float64) float64 {
	if k.OverridePrice != nil {
		return *k.OverridePrice
	}
	return productPrice
}
