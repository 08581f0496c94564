package model

import (
	"time"

	"github.com/google/uuid"
)

// CartItem represents one active line in a customer's shopping cart.
// UnitPrice is a snapshot of the product price at the time the line was added.
type CartItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID uuid.UUID `json:"customerId" db:"customer_id"`
	ProductID  uuid.UUID `json:"productId" db:"product_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	UnitPrice  float64   `json:"unitPrice" db:"unit_price"`
	IsActive   bool      `json:"-" db:"is_active"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// TotalPrice returns the line total.
func (c *CartItem) TotalPrice() float64 {
	return c.UnitPrice * float64(c.Quantity)
}

// CartSummary aggregates the derived cart totals. Total and ItemCount are
// always computed from the lines, never stored.
type CartSummary struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// SummariseCart derives the cart totals from its lines.
func SummariseCart(items []CartItem) CartSummary {
	summary := CartSummary{Items: items}
	for i := range items {
		summary.Total += items[i].TotalPrice()
		summary.ItemCount += items[i].Quantity
	}
	return summary
}
