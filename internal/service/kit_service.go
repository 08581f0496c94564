package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pva-store/internal/model"
	"pva-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxUntrackedKitQuantity caps the reported purchasable quantity when no
// component of the kit tracks inventory.
const maxUntrackedKitQuantity = 1000

// kitService implements KitService.
type kitService struct {
	kitRepo     repository.KitRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewKitService creates a new kit service.
func NewKitService(kitRepo repository.KitRepository, productRepo repository.ProductRepository, logger zerolog.Logger) KitService {
	return &kitService{
		kitRepo:     kitRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "kit").Logger(),
	}
}

// GetAll retrieves active kits with derived availability.
func (s *kitService) GetAll(ctx context.Context) ([]model.ProductKit, error) {
	kits, err := s.kitRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list kits")
		return nil, fmt.Errorf("failed to list kits: %w", err)
	}

	for i := range kits {
		available, err := s.deriveAvailability(ctx, &kits[i])
		if err != nil {
			return nil, err
		}
		kits[i].IsAvailable = available
	}

	return kits, nil
}

// GetByID retrieves a single kit with derived availability.
func (s *kitService) GetByID(ctx context.Context, id uuid.UUID) (*model.ProductKit, error) {
	kit, err := s.kitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get kit: %w", err)
	}
	if kit == nil {
		return nil, model.ErrKitNotFound
	}

	available, err := s.deriveAvailability(ctx, kit)
	if err != nil {
		return nil, err
	}
	kit.IsAvailable = available

	return kit, nil
}

// GetAvailable retrieves kits whose every component is currently fulfillable.
func (s *kitService) GetAvailable(ctx context.Context) ([]model.ProductKit, error) {
	kits, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]model.ProductKit, 0, len(kits))
	for _, kit := range kits {
		if kit.IsAvailable {
			available = append(available, kit)
		}
	}

	return available, nil
}

// Create validates kit composition and inserts the kit.
func (s *kitService) Create(ctx context.Context, kit *model.ProductKit) error {
	if strings.TrimSpace(kit.Name) == "" {
		return model.ValidationError("kit name is required")
	}
	if strings.TrimSpace(kit.SKU) == "" {
		return model.ValidationError("kit sku is required")
	}
	if kit.KitPrice <= 0 {
		return model.ValidationError("kit price must be greater than zero")
	}
	if len(kit.Items) == 0 {
		return model.ValidationError("kit must contain at least one item")
	}

	kit.Name = strings.TrimSpace(kit.Name)
	kit.SKU = strings.TrimSpace(kit.SKU)

	seen := make(map[uuid.UUID]struct{}, len(kit.Items))
	for i := range kit.Items {
		item := &kit.Items[i]
		if item.Quantity < 1 {
			return model.ValidationError("kit item quantity must be at least one")
		}
		if item.OverridePrice != nil && *item.OverridePrice < 0 {
			return model.ValidationError("kit item override price cannot be negative")
		}
		if _, dup := seen[item.ProductID]; dup {
			return model.ValidationError("kit contains the same product twice")
		}
		seen[item.ProductID] = struct{}{}
	}

	exists, err := s.kitRepo.SKUExists(ctx, kit.SKU)
	if err != nil {
		return fmt.Errorf("failed to check kit sku: %w", err)
	}
	if exists {
		return model.ErrDuplicateSKU
	}

	products, err := s.componentProducts(ctx, kit)
	if err != nil {
		return err
	}
	for i := range kit.Items {
		if _, ok := products[kit.Items[i].ProductID]; !ok {
			return model.ErrProductNotFound
		}
	}

	if kit.ID == uuid.Nil {
		kit.ID = uuid.New()
	}
	now := time.Now()
	kit.IsAvailable = true
	kit.IsActive = true
	kit.CreatedAt = now
	kit.UpdatedAt = now
	for i := range kit.Items {
		item := &kit.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.KitID = kit.ID
		if item.SortOrder == 0 {
			item.SortOrder = i
		}
	}

	if err := s.kitRepo.Create(ctx, kit); err != nil {
		s.logger.Error().Err(err).Str("sku", kit.SKU).Msg("failed to create kit")
		return fmt.Errorf("failed to create kit: %w", err)
	}

	s.logger.Info().
		Str("kit_id", kit.ID.String()).
		Str("sku", kit.SKU).
		Int("items", len(kit.Items)).
		Msg("kit created")

	return nil
}

// IsAvailable reports whether the kit can currently be fulfilled.
func (s *kitService) IsAvailable(ctx context.Context, kitID uuid.UUID) (bool, error) {
	kit, err := s.kitRepo.GetByID(ctx, kitID)
	if err != nil {
		return false, fmt.Errorf("failed to get kit: %w", err)
	}
	if kit == nil {
		return false, model.ErrKitNotFound
	}

	return s.deriveAvailability(ctx, kit)
}

// MaxAvailableQuantity computes the maximum purchasable quantity of the kit
// given current component stock.
func (s *kitService) MaxAvailableQuantity(ctx context.Context, kitID uuid.UUID) (int, error) {
	kit, err := s.kitRepo.GetByID(ctx, kitID)
	if err != nil {
		return 0, fmt.Errorf("failed to get kit: %w", err)
	}
	if kit == nil {
		return 0, model.ErrKitNotFound
	}

	products, err := s.componentProducts(ctx, kit)
	if err != nil {
		return 0, err
	}

	return maxKitQuantity(kit, products), nil
}

func (s *kitService) deriveAvailability(ctx context.Context, kit *model.ProductKit) (bool, error) {
	products, err := s.componentProducts(ctx, kit)
	if err != nil {
		return false, err
	}

	return kitAvailable(kit, products), nil
}

func (s *kitService) componentProducts(ctx context.Context, kit *model.ProductKit) (map[uuid.UUID]model.Product, error) {
	ids := make([]uuid.UUID, 0, len(kit.Items))
	for _, item := range kit.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load kit components: %w", err)
	}

	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	return byID, nil
}

// kitAvailable reports whether every component can cover its per-kit quantity.
// The stored is_available flag acts as a manual merchandising switch; a kit
// switched off never reports available regardless of stock. A component that
// is missing or inactive also makes the kit unavailable.
func kitAvailable(kit *model.ProductKit, products map[uuid.UUID]model.Product) bool {
	if !kit.IsAvailable || len(kit.Items) == 0 {
		return false
	}

	for _, item := range kit.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return false
		}
		if !product.CanFulfil(item.Quantity) {
			return false
		}
	}

	return true
}

// maxKitQuantity returns the minimum over tracked components of
// stock / per-kit quantity. When no component tracks inventory the result is
// capped at maxUntrackedKitQuantity.
func maxKitQuantity(kit *model.ProductKit, products map[uuid.UUID]model.Product) int {
	if len(kit.Items) == 0 {
		return 0
	}

	max := maxUntrackedKitQuantity
	tracked := false

	for _, item := range kit.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return 0
		}
		if !product.TrackInventory {
			continue
		}
		tracked = true

		buildable := product.StockQuantity / item.Quantity
		if buildable < max {
			max = buildable
		}
	}

	if !tracked {
		return maxUntrackedKitQuantity
	}

	return max
}
