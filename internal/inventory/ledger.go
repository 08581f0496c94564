// Package inventory tracks per-product stock levels and exposes the atomic
// reserve/release operations the order workflow runs inside its unit of work.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"pva-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Ledger reserves and releases tracked product stock.
//
// Reserve and Release run inside the caller's transaction so that stock
// mutation commits or rolls back together with the order rows. Reserve is a
// single conditional UPDATE with a stock floor check, so two concurrent
// reservations for the last unit serialise at the database row: exactly one
// sees a row affected, the other gets InsufficientStockError.
type Ledger interface {
	// IsAvailable reports whether the product is active and can cover the
	// requested quantity. Products that do not track inventory always pass.
	// Unknown product ids report false.
	IsAvailable(ctx context.Context, productID uuid.UUID, quantity int) (bool, error)

	// Reserve decrements tracked stock by quantity. It is a no-op for
	// products that do not track inventory. Fails with
	// *model.InsufficientStockError when stock cannot cover the request, and
	// model.ErrProductNotFound when the id does not resolve.
	Reserve(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error

	// Release returns tracked stock taken by a cancelled order. It never
	// fails on quantity grounds and is a no-op for untracked products.
	Release(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error
}

// ledger implements Ledger on PostgreSQL.
type ledger struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLedger creates a PostgreSQL-backed inventory ledger.
func NewLedger(pool *pgxpool.Pool, logger zerolog.Logger) Ledger {
	return &ledger{
		pool:   pool,
		logger: logger.With().Str("component", "inventory").Logger(),
	}
}

// IsAvailable reports whether the product can cover the requested quantity.
func (l *ledger) IsAvailable(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	query := `
		SELECT NOT track_inventory OR stock_quantity >= $2
		FROM products
		WHERE id = $1 AND is_active
	`

	var available bool
	err := l.pool.QueryRow(ctx, query, productID, quantity).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		l.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to check availability")
		return false, fmt.Errorf("failed to check availability: %w", err)
	}

	return available, nil
}

// Reserve decrements tracked stock by quantity within the transaction.
func (l *ledger) Reserve(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	// The WHERE clause is the floor check: the row is only touched when the
	// decrement cannot go negative, so concurrent reservations cannot oversell.
	query := `
		UPDATE products
		SET stock_quantity = CASE WHEN track_inventory THEN stock_quantity - $2 ELSE stock_quantity END,
			updated_at = NOW()
		WHERE id = $1 AND is_active AND (NOT track_inventory OR stock_quantity >= $2)
	`

	tag, err := tx.Exec(ctx, query, productID, quantity)
	if err != nil {
		l.logger.Error().Err(err).
			Str("product_id", productID.String()).
			Int("quantity", quantity).
			Msg("failed to reserve stock")
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if tag.RowsAffected() > 0 {
		l.logger.Debug().
			Str("product_id", productID.String()).
			Int("quantity", quantity).
			Msg("stock reserved")
		return nil
	}

	return l.reserveFailure(ctx, tx, productID, quantity)
}

// reserveFailure distinguishes a missing product from an uncovered request,
// reading through the transaction so the reported availability matches the
// state the reservation saw.
func (l *ledger) reserveFailure(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	query := `
		SELECT name, stock_quantity
		FROM products
		WHERE id = $1 AND is_active
	`

	var name string
	var available int
	err := tx.QueryRow(ctx, query, productID).Scan(&name, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrProductNotFound
		}
		l.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to inspect product after reserve failure")
		return fmt.Errorf("failed to inspect product: %w", err)
	}

	l.logger.Warn().
		Str("product_id", productID.String()).
		Str("product", name).
		Int("available", available).
		Int("requested", quantity).
		Msg("insufficient stock")

	return &model.InsufficientStockError{
		ProductName: name,
		Available:   available,
		Requested:   quantity,
	}
}

// Release returns tracked stock within the transaction.
func (l *ledger) Release(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	// No upper bound is enforced on restored stock. Untracked products are
	// skipped so cancellation stays symmetric with Reserve.
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = NOW()
		WHERE id = $1 AND track_inventory
	`

	_, err := tx.Exec(ctx, query, productID, quantity)
	if err != nil {
		l.logger.Error().Err(err).
			Str("product_id", productID.String()).
			Int("quantity", quantity).
			Msg("failed to release stock")
		return fmt.Errorf("failed to release stock: %w", err)
	}

	l.logger.Debug().
		Str("product_id", productID.String()).
		Int("quantity", quantity).
		Msg("stock released")

	return nil
}
