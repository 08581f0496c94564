package service

import (
	"context"
	"fmt"
	"time"

	"pva-store/internal/cartcache"
	"pva-store/internal/inventory"
	"pva-store/internal/model"
	"pva-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	ledger      inventory.Ledger
	cache       *cartcache.Cache
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	ledger inventory.Ledger,
	cache *cartcache.Cache,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		ledger:      ledger,
		cache:       cache,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves the customer's cart lines with derived totals.
func (s *cartService) GetCart(ctx context.Context, customerID uuid.UUID) (model.CartSummary, error) {
	if summary, ok := s.cache.Get(customerID); ok {
		return summary, nil
	}

	items, err := s.cartRepo.GetItems(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to load cart")
		return model.CartSummary{}, fmt.Errorf("failed to load cart: %w", err)
	}

	summary := model.SummariseCart(items)
	s.cache.Set(customerID, summary)

	return summary, nil
}

// AddItem adds quantity of a product to the cart. An existing line for the
// same product is merged by summing quantities, and the merged total is
// re-validated against current availability.
func (s *cartService) AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, model.ValidationError("quantity must be greater than zero")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}
	if product == nil {
		s.logger.Warn().
			Str("customer_id", customerID.String()).
			Str("product_id", productID.String()).
			Msg("add to cart for unknown product")
		return nil, model.ErrProductNotFound
	}

	existing, err := s.cartRepo.GetItem(ctx, customerID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}

	resulting := quantity
	if existing != nil {
		resulting += existing.Quantity
	}

	available, err := s.ledger.IsAvailable(ctx, productID, resulting)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if !available {
		s.logger.Warn().
			Str("customer_id", customerID.String()).
			Str("product_id", productID.String()).
			Int("quantity", resulting).
			Msg("product unavailable for cart")
		return nil, model.ErrProductUnavailable
	}

	if existing != nil {
		existing.Quantity = resulting
		existing.UpdatedAt = time.Now()
		if err := s.cartRepo.UpdateQuantity(ctx, existing.ID, resulting); err != nil {
			return nil, fmt.Errorf("failed to merge cart item: %w", err)
		}
		s.cache.Invalidate(customerID)
		return existing, nil
	}

	now := time.Now()
	item := &model.CartItem{
		ID:         uuid.New(),
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  product.Price,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.cartRepo.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.cache.Invalidate(customerID)

	s.logger.Debug().
		Str("customer_id", customerID.String()).
		Str("product_id", productID.String()).
		Int("quantity", quantity).
		Msg("cart item added")

	return item, nil
}

// UpdateQuantity sets a new quantity on an existing line; a quantity of zero
// or less removes the line.
func (s *cartService) UpdateQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*model.CartItem, error) {
	item, err := s.cartRepo.GetItem(ctx, customerID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	if item == nil {
		return nil, model.ErrCartItemNotFound
	}

	if quantity <= 0 {
		if _, err := s.cartRepo.Remove(ctx, customerID, productID); err != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", err)
		}
		s.cache.Invalidate(customerID)
		return item, nil
	}

	available, err := s.ledger.IsAvailable(ctx, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if !available {
		return nil, model.ErrProductUnavailable
	}

	item.Quantity = quantity
	item.UpdatedAt = time.Now()
	if err := s.cartRepo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	s.cache.Invalidate(customerID)

	return item, nil
}

// RemoveItem removes the line for the product.
func (s *cartService) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	removed, err := s.cartRepo.Remove(ctx, customerID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to remove cart item: %w", err)
	}

	if removed {
		s.cache.Invalidate(customerID)
	}

	return removed, nil
}

// Clear removes every line of the cart.
func (s *cartService) Clear(ctx context.Context, customerID uuid.UUID) error {
	removed, err := s.cartRepo.Clear(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.cache.Invalidate(customerID)

	s.logger.Debug().
		Str("customer_id", customerID.String()).
		Int("removed", removed).
		Msg("cart cleared")

	return nil
}

// Validate reports whether every line currently passes availability. It is a
// read-only pre-flight check; only the reservation inside order creation is
// authoritative.
func (s *cartService) Validate(ctx context.Context, customerID uuid.UUID) (bool, error) {
	items, err := s.cartRepo.GetItems(ctx, customerID)
	if err != nil {
		return false, fmt.Errorf("failed to load cart: %w", err)
	}

	for _, item := range items {
		available, err := s.ledger.IsAvailable(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return false, fmt.Errorf("failed to check availability: %w", err)
		}
		if !available {
			s.logger.Debug().
				Str("customer_id", customerID.String()).
				Str("product_id", item.ProductID.String()).
				Int("quantity", item.Quantity).
				Msg("cart line failed validation")
			return false, nil
		}
	}

	return true, nil
}
