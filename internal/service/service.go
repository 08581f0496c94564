package service

import (
	"context"

	"pva-store/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// GetAll retrieves active products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetBySKU retrieves a single product by SKU.
	GetBySKU(ctx context.Context, sku string) (*model.Product, error)

	// Search retrieves products matching the term; an empty term lists all.
	Search(ctx context.Context, term string) ([]model.Product, error)

	// GetFeatured retrieves products flagged as featured.
	GetFeatured(ctx context.Context) ([]model.Product, error)

	// Create validates and inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update validates and persists product changes.
	Update(ctx context.Context, product *model.Product) error

	// Delete soft-deletes a product. Returns false if the id does not resolve.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// SetStock overwrites a product's stock level. Returns false if the id
	// does not resolve.
	SetStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)

	// IsAvailable reports whether the product can cover the quantity.
	IsAvailable(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
}

// CustomerService defines operations for customer management.
type CustomerService interface {
	// GetByID retrieves a single customer by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)

	// GetByEmail retrieves a single customer by email.
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)

	// Create validates and inserts a new customer.
	Create(ctx context.Context, customer *model.Customer) error

	// Update validates and persists customer changes.
	Update(ctx context.Context, customer *model.Customer) error

	// Delete soft-deletes a customer. Returns false if the id does not resolve.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CartService defines operations on a customer's shopping cart.
type CartService interface {
	// GetCart retrieves the customer's cart lines with derived totals.
	GetCart(ctx context.Context, customerID uuid.UUID) (model.CartSummary, error)

	// AddItem adds quantity of a product to the cart, merging into an
	// existing line when one is present.
	AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*model.CartItem, error)

	// UpdateQuantity sets a new quantity on an existing line; a quantity of
	// zero or less removes the line.
	UpdateQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*model.CartItem, error)

	// RemoveItem removes the line for the product. Returns false if no line
	// exists.
	RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (bool, error)

	// Clear removes every line of the cart.
	Clear(ctx context.Context, customerID uuid.UUID) error

	// Validate reports whether every line currently passes availability.
	// This is a read-only pre-flight check, not a reservation.
	Validate(ctx context.Context, customerID uuid.UUID) (bool, error)
}

// KitService defines operations on composite product kits.
type KitService interface {
	// GetAll retrieves active kits.
	GetAll(ctx context.Context) ([]model.ProductKit, error)

	// GetByID retrieves a single kit by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProductKit, error)

	// GetAvailable retrieves kits whose every component is currently fulfillable.
	GetAvailable(ctx context.Context) ([]model.ProductKit, error)

	// Create validates kit composition and inserts the kit.
	Create(ctx context.Context, kit *model.ProductKit) error

	// IsAvailable reports whether the kit can currently be fulfilled.
	IsAvailable(ctx context.Context, kitID uuid.UUID) (bool, error)

	// MaxAvailableQuantity computes the maximum purchasable quantity of the
	// kit given current component stock.
	MaxAvailableQuantity(ctx context.Context, kitID uuid.UUID) (int, error)
}

// OrderService defines the order workflow.
type OrderService interface {
	// CreateFromCart converts the customer's cart into a persisted order,
	// reserving stock, snapshotting prices and clearing the cart in one unit
	// of work.
	CreateFromCart(ctx context.Context, customerID uuid.UUID, shipping model.Address, billing *model.Address) (*model.Order, error)

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByNumber retrieves an order with its items by order number.
	GetByNumber(ctx context.Context, number string) (*model.Order, error)

	// GetByCustomer retrieves the customer's orders.
	GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error)

	// GetByStatus retrieves orders in the given status.
	GetByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)

	// UpdateStatus moves the order through the fulfilment state machine.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error)

	// UpdatePaymentStatus records a payment state change.
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status model.PaymentStatus) (*model.Order, error)

	// Cancel cancels the order and restores stock. Returns false without
	// error when the order id does not resolve; already-cancelled orders
	// report true.
	Cancel(ctx context.Context, orderID uuid.UUID) (bool, error)

	// CalculateCartTotal returns what the customer's cart would currently
	// cost as an order.
	CalculateCartTotal(ctx context.Context, customerID uuid.UUID) (float64, error)
}
