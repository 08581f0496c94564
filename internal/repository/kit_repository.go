package repository

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

const kitColumns = `id, name, description, sku, kit_price, is_available, is_active, created_at, updated_at`

// kitRepository implements the KitRepository interface using PostgreSQL.
type kitRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewKitRepository creates a new PostgreSQL-backed product kit repository.
func NewKitRepository(pool *pgxpool.Pool, logger zerolog.Logger) KitRepository {
	return &kitRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "kit").Logger(),
	}
}

func scanKit(row pgx.Row) (*model.ProductKit, error) {
	var k model.ProductKit
	err := row.Scan(&k.ID, &k.Name, &k.Description, &k.SKU, &k.KitPrice,
		&k.IsAvailable, &k.IsActive, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// GetAll retrieves active kits with their items.
func (r *kitRepository) GetAll(ctx context.Context) ([]model.ProductKit, error) {
	query := `
		SELECT ` + kitColumns + `
		FROM product_kits
		WHERE is_active
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query kits")
		return nil, fmt.Errorf("failed to query kits: %w", err)
	}
	defer rows.Close()

	var kits []model.ProductKit
	for rows.Next() {
		k, err := scanKit(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan kit row")
			return nil, fmt.Errorf("failed to scan kit: %w", err)
		}
		kits = append(kits, *k)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating kit rows")
		return nil, fmt.Errorf("error iterating kits: %w", err)
	}

	for i := range kits {
		items, err := r.getItems(ctx, kits[i].ID)
		if err != nil {
			return nil, err
		}
		kits[i].Items = items
	}

	return kits, nil
}

// GetByID retrieves a single active kit with its items.
func (r *kitRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProductKit, error) {
	query := `
		SELECT ` + kitColumns + `
		FROM product_kits
		WHERE id = $1 AND is_active
	`

	kit, err := scanKit(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("kit_id", id.String()).Msg("kit not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("kit_id", id.String()).Msg("failed to query kit")
		return nil, fmt.Errorf("failed to query kit: %w", err)
	}

	items, err := r.getItems(ctx, kit.ID)
	if err != nil {
		return nil, err
	}
	kit.Items = items

	return kit, nil
}

func (r *kitRepository) getItems(ctx context.Context, kitID uuid.UUID) ([]model.KitItem, error) {
	query := `
		SELECT id, kit_id, product_id, quantity, override_price, sort_order
		FROM product_kit_items
		WHERE kit_id = $1
		ORDER BY sort_order, id
	`

	rows, err := r.pool.Query(ctx, query, kitID)
	if err != nil {
		r.logger.Error().Err(err).Str("kit_id", kitID.String()).Msg("failed to query kit items")
		return nil, fmt.Errorf("failed to query kit items: %w", err)
	}
	defer rows.Close()

	var items []model.KitItem
	for rows.Next() {
		var item model.KitItem
		err := rows.Scan(&item.ID, &item.KitID, &item.ProductID, &item.Quantity,
			&item.OverridePrice, &item.SortOrder)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan kit item row")
			return nil, fmt.Errorf("failed to scan kit item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating kit item rows")
		return nil, fmt.Errorf("error iterating kit items: %w", err)
	}

	return items, nil
}

// SKUExists reports whether an active kit already uses the SKU.
func (r *kitRepository) SKUExists(ctx context.Context, sku string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM product_kits WHERE sku = $1 AND is_active)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, sku).Scan(&exists); err != nil {
		r.logger.Error().Err(err).Str("sku", sku).Msg("failed to check kit SKU")
		return false, fmt.Errorf("failed to check kit SKU: %w", err)
	}

	return exists, nil
}

// Create inserts a kit and its items atomically.
func (r *kitRepository) Create(ctx context.Context, kit *model.ProductKit) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	kitQuery := `
		INSERT INTO product_kits (id, name, description, sku, kit_price, is_available, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.Exec(ctx, kitQuery,
		kit.ID, kit.Name, kit.Description, kit.SKU, kit.KitPrice,
		kit.IsAvailable, kit.IsActive, kit.CreatedAt, kit.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("sku", kit.SKU).Msg("failed to insert kit")
		return fmt.Errorf("failed to insert kit: %w", err)
	}

	itemQuery := `
		INSERT INTO product_kit_items (id, kit_id, product_id, quantity, override_price, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i := range kit.Items {
		item := &kit.Items[i]
		_, err = tx.Exec(ctx, itemQuery,
			item.ID, item.KitID, item.ProductID, item.Quantity, item.OverridePrice, item.SortOrder)
		if err != nil {
			r.logger.Error().Err(err).
				Str("kit_id", kit.ID.String()).
				Str("product_id", item.ProductID.String()).
				Msg("failed to insert kit item")
			return fmt.Errorf("failed to insert kit item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("kit_id", kit.ID.String()).Msg("failed to commit kit transaction")
		return fmt.Errorf("failed to commit kit transaction: %w", err)
	}

	return nil
}
