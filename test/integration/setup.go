package integration

import (
	"context"
	"testing"
	"time"

	"pva-store/internal/database"
	"pva-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, runs the embedded
// migrations against it and opens a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()

	// The same migration path the server runs at startup.
	if err := database.Migrate(connStr, logger); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// insertCustomer seeds a customer row and returns its id.
func insertCustomer(t *testing.T, pool *pgxpool.Pool, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO customers (id, first_name, last_name, email, is_active, created_at, updated_at)
		VALUES ($1, 'Test', 'Customer', $2, TRUE, NOW(), NOW())`,
		id, email)
	if err != nil {
		t.Fatalf("failed to insert customer: %v", err)
	}

	return id
}

// insertProduct seeds a product row and returns the product.
func insertProduct(t *testing.T, pool *pgxpool.Pool, sku string, price float64, stock int, tracked bool) *model.Product {
	t.Helper()

	product := &model.Product{
		ID:             uuid.New(),
		Name:           "Product " + sku,
		SKU:            sku,
		Price:          price,
		StockQuantity:  stock,
		TrackInventory: tracked,
		IsActive:       true,
	}

	_, err := pool.Exec(context.Background(), `
		INSERT INTO products (id, name, description, sku, price, stock_quantity, track_inventory,
			brand, category, is_featured, is_active, created_at, updated_at)
		VALUES ($1, $2, '', $3, $4, $5, $6, '', '', FALSE, TRUE, NOW(), NOW())`,
		product.ID, product.Name, product.SKU, product.Price, product.StockQuantity, product.TrackInventory)
	if err != nil {
		t.Fatalf("failed to insert product: %v", err)
	}

	return product
}

// insertCartItem seeds an active cart line.
func insertCartItem(t *testing.T, pool *pgxpool.Pool, customerID, productID uuid.UUID, quantity int, unitPrice float64) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO cart_items (id, customer_id, product_id, quantity, unit_price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())`,
		uuid.New(), customerID, productID, quantity, unitPrice)
	if err != nil {
		t.Fatalf("failed to insert cart item: %v", err)
	}
}

// productStock reads the current stock level of a product.
func productStock(t *testing.T, pool *pgxpool.Pool, productID uuid.UUID) int {
	t.Helper()

	var stock int
	err := pool.QueryRow(context.Background(),
		`SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&stock)
	if err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}

	return stock
}

// activeCartLines counts the customer's active cart lines.
func activeCartLines(t *testing.T, pool *pgxpool.Pool, customerID uuid.UUID) int {
	t.Helper()

	var count int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM cart_items WHERE customer_id = $1 AND is_active`, customerID).Scan(&count)
	if err != nil {
		t.Fatalf("failed to count cart lines: %v", err)
	}

	return count
}
