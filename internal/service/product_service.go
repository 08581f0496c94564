package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pva-store/internal/inventory"
	"pva-store/internal/model"
	"pva-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	ledger      inventory.Ledger
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, ledger inventory.Ledger, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		ledger:      ledger,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves active products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// GetBySKU retrieves a single product by SKU.
func (s *productService) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	product, err := s.productRepo.GetBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Search retrieves products whose name, brand or category matches the term.
func (s *productService) Search(ctx context.Context, term string) ([]model.Product, error) {
	products, err := s.productRepo.Search(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

// GetFeatured retrieves products flagged as featured.
func (s *productService) GetFeatured(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}

	return products, nil
}

// Create validates and inserts a new product.
func (s *productService) Create(ctx context.Context, product *model.Product) error {
	if err := s.validate(product); err != nil {
		return err
	}

	existing, err := s.productRepo.GetBySKU(ctx, product.SKU)
	if err != nil {
		return fmt.Errorf("failed to check sku: %w", err)
	}
	if existing != nil {
		return model.ErrDuplicateSKU
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now()
	product.IsActive = true
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("sku", product.SKU).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("sku", product.SKU).
		Msg("product created")

	return nil
}

// Update validates and persists product changes.
func (s *productService) Update(ctx context.Context, product *model.Product) error {
	if err := s.validate(product); err != nil {
		return err
	}

	existing, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return model.ErrProductNotFound
	}

	if product.SKU != existing.SKU {
		other, err := s.productRepo.GetBySKU(ctx, product.SKU)
		if err != nil {
			return fmt.Errorf("failed to check sku: %w", err)
		}
		if other != nil && other.ID != product.ID {
			return model.ErrDuplicateSKU
		}
	}

	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// Delete soft-deletes a product.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.productRepo.SoftDelete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	if deleted {
		s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	}

	return deleted, nil
}

// SetStock overwrites a product's stock level.
func (s *productService) SetStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	if quantity < 0 {
		return false, model.ValidationError("stock quantity cannot be negative")
	}

	updated, err := s.productRepo.SetStock(ctx, id, quantity)
	if err != nil {
		return false, fmt.Errorf("failed to set stock: %w", err)
	}

	if updated {
		s.logger.Info().
			Str("product_id", id.String()).
			Int("quantity", quantity).
			Msg("stock level set")
	}

	return updated, nil
}

// IsAvailable reports whether the product can cover the quantity.
func (s *productService) IsAvailable(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, model.ValidationError("quantity must be greater than zero")
	}

	return s.ledger.IsAvailable(ctx, id, quantity)
}

func (s *productService) validate(product *model.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return model.ValidationError("product name is required")
	}
	if strings.TrimSpace(product.SKU) == "" {
		return model.ValidationError("product sku is required")
	}
	if product.Price <= 0 {
		return model.ValidationError("product price must be greater than zero")
	}
	if product.StockQuantity < 0 {
		return model.ValidationError("stock quantity cannot be negative")
	}

	product.Name = strings.TrimSpace(product.Name)
	product.SKU = strings.TrimSpace(product.SKU)

	return nil
}
