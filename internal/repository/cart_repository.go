package repository

import (
	"context"
	"errors"
	"fmt"

	"pva-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const cartColumns = `id, customer_id, product_id, quantity, unit_price, is_active, created_at, updated_at`

// execer is the subset of pgx shared by the pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

func scanCartItem(row pgx.Row) (*model.CartItem, error) {
	var item model.CartItem
	err := row.Scan(&item.ID, &item.CustomerID, &item.ProductID, &item.Quantity,
		&item.UnitPrice, &item.IsActive, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItems retrieves the customer's active cart lines.
func (r *cartRepository) GetItems(ctx context.Context, customerID uuid.UUID) ([]model.CartItem, error) {
	query := `
		SELECT ` + cartColumns + `
		FROM cart_items
		WHERE customer_id = $1 AND is_active
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// GetItem retrieves the active cart line for (customer, product), if any.
func (r *cartRepository) GetItem(ctx context.Context, customerID, productID uuid.UUID) (*model.CartItem, error) {
	query := `
		SELECT ` + cartColumns + `
		FROM cart_items
		WHERE customer_id = $1 AND product_id = $2 AND is_active
	`

	item, err := scanCartItem(r.pool.QueryRow(ctx, query, customerID, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).
			Str("customer_id", customerID.String()).
			Str("product_id", productID.String()).
			Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}

	return item, nil
}

// Add inserts a new cart line.
func (r *cartRepository) Add(ctx context.Context, item *model.CartItem) error {
	query := `
		INSERT INTO cart_items (id, customer_id, product_id, quantity, unit_price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID, item.CustomerID, item.ProductID, item.Quantity,
		item.UnitPrice, item.IsActive, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("customer_id", item.CustomerID.String()).
			Str("product_id", item.ProductID.String()).
			Msg("failed to insert cart item")
		return fmt.Errorf("failed to insert cart item: %w", err)
	}

	return nil
}

// UpdateQuantity sets a new quantity on an existing line.
func (r *cartRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $2, updated_at = NOW()
		WHERE id = $1 AND is_active
	`

	tag, err := r.pool.Exec(ctx, query, id, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_item_id", id.String()).Msg("failed to update cart item quantity")
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

// Remove soft-deletes the line for (customer, product).
func (r *cartRepository) Remove(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	query := `
		UPDATE cart_items
		SET is_active = FALSE, updated_at = NOW()
		WHERE customer_id = $1 AND product_id = $2 AND is_active
	`

	tag, err := r.pool.Exec(ctx, query, customerID, productID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("customer_id", customerID.String()).
			Str("product_id", productID.String()).
			Msg("failed to remove cart item")
		return false, fmt.Errorf("failed to remove cart item: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Clear soft-deletes every active line of the customer.
func (r *cartRepository) Clear(ctx context.Context, customerID uuid.UUID) (int, error) {
	removed, err := r.clear(ctx, r.pool, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to clear cart")
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	return removed, nil
}

// ClearTx soft-deletes every active line of the customer within the provided transaction.
func (r *cartRepository) ClearTx(ctx context.Context, tx pgx.Tx, customerID uuid.UUID) error {
	if _, err := r.clear(ctx, tx, customerID); err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to clear cart in transaction")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

func (r *cartRepository) clear(ctx context.Context, db execer, customerID uuid.UUID) (int, error) {
	query := `
		UPDATE cart_items
		SET is_active = FALSE, updated_at = NOW()
		WHERE customer_id = $1 AND is_active
	`

	tag, err := db.Exec(ctx, query, customerID)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}
