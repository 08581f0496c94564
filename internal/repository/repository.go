package repository

import (
	"context"
	"time"

	"pva-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
// All reads filter out soft-deleted rows (is_active = FALSE) by default.
type ProductRepository interface {
	// GetAll retrieves active products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single active product by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetByIDs retrieves multiple active products by their IDs.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)

	// GetBySKU retrieves a single active product by its SKU.
	GetBySKU(ctx context.Context, sku string) (*model.Product, error)

	// Search retrieves active products whose name, brand or SKU matches the term.
	Search(ctx context.Context, term string) ([]model.Product, error)

	// GetFeatured retrieves active products flagged as featured.
	GetFeatured(ctx context.Context) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update persists mutable product fields.
	Update(ctx context.Context, product *model.Product) error

	// SoftDelete deactivates a product. Returns false if the id does not
	// resolve to an active product.
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)

	// SetStock overwrites the stock level of a product. Returns false if the
	// id does not resolve to an active product.
	SetStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
}

// CustomerRepository defines the interface for customer data access operations.
type CustomerRepository interface {
	// GetByID retrieves a single active customer by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)

	// GetByEmail retrieves a single active customer by email.
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)

	// EmailExists reports whether an active customer already uses the email.
	EmailExists(ctx context.Context, email string) (bool, error)

	// Create inserts a new customer.
	Create(ctx context.Context, customer *model.Customer) error

	// Update persists mutable customer fields.
	Update(ctx context.Context, customer *model.Customer) error

	// SoftDelete deactivates a customer. Returns false if the id does not
	// resolve to an active customer.
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CartRepository defines the interface for cart line data access operations.
// Cart lines are soft-deleted on removal so order history stays auditable.
type CartRepository interface {
	// GetItems retrieves the customer's active cart lines.
	GetItems(ctx context.Context, customerID uuid.UUID) ([]model.CartItem, error)

	// GetItem retrieves the active cart line for (customer, product), if any.
	GetItem(ctx context.Context, customerID, productID uuid.UUID) (*model.CartItem, error)

	// Add inserts a new cart line.
	Add(ctx context.Context, item *model.CartItem) error

	// UpdateQuantity sets a new quantity on an existing line.
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error

	// Remove soft-deletes the line for (customer, product). Returns false if
	// no active line exists.
	Remove(ctx context.Context, customerID, productID uuid.UUID) (bool, error)

	// Clear soft-deletes every active line of the customer and returns the
	// number of lines removed.
	Clear(ctx context.Context, customerID uuid.UUID) (int, error)

	// ClearTx soft-deletes every active line of the customer within the
	// provided transaction.
	ClearTx(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) error
}

// OrderRepository defines the interface for order data access operations.
// Order creation and mutation run inside a transaction owned by the caller:
// the transaction is the unit of work that keeps order rows, stock levels and
// cart lines consistent.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateItems inserts the order's items within the provided transaction.
	CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// Update persists order status, payment status, dates and totals within
	// the provided transaction.
	Update(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByNumber retrieves an order with its items by its order number.
	GetByNumber(ctx context.Context, number string) (*model.Order, error)

	// GetByCustomer retrieves the customer's orders, newest first, without items.
	GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error)

	// GetByStatus retrieves orders in the given status, newest first, without items.
	GetByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)

	// NumberExists reports whether an order already uses the number.
	NumberExists(ctx context.Context, number string) (bool, error)

	// CountCreatedSince counts orders created at or after the given time.
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// KitRepository defines the interface for product kit data access operations.
type KitRepository interface {
	// GetAll retrieves active kits with their items.
	GetAll(ctx context.Context) ([]model.ProductKit, error)

	// GetByID retrieves a single active kit with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProductKit, error)

	// SKUExists reports whether an active kit already uses the SKU.
	SKUExists(ctx context.Context, sku string) (bool, error)

	// Create inserts a kit and its items atomically.
	Create(ctx context.Context, kit *model.ProductKit) error
}
