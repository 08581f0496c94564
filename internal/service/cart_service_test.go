package service

import (
	"context"
	"testing"
	"time"

	"pva-store/internal/cartcache"
	"pva-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartServiceForTest(
	cartRepo *MockCartRepository,
	productRepo *MockProductRepository,
	ledger *MockLedger,
) (CartService, *cartcache.Cache) {
	logger := zerolog.Nop()
	cache := cartcache.New(10, time.Minute, logger)
	return NewCartService(cartRepo, productRepo, ledger, cache, logger), cache
}

func TestCartService_AddItem_NewLine(t *testing.T) {
	ctx := context.Background()

	customerID := uuid.New()
	product := &model.Product{
		ID:             uuid.New(),
		Name:           "Shotgun Mic",
		SKU:            "MIC-004",
		Price:          349.00,
		StockQuantity:  8,
		TrackInventory: true,
		IsActive:       true,
	}

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)

	service, _ := newCartServiceForTest(mockCartRepo, mockProductRepo, mockLedger)

	mockProductRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	mockCartRepo.On("GetItem", ctx, customerID, product.ID).Return(nil, nil)
	mockLedger.On("IsAvailable", ctx, product.ID, 2).Return(true, nil)
	mockCartRepo.On("Add", ctx, mock.AnythingOfType("*model.CartItem")).Return(nil)

	item, err := service.AddItem(ctx, customerID, product.ID, 2)

	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 349.00, item.UnitPrice)
	assert.True(t, item.IsActive)

	mockCartRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
}

func TestCartService_AddItem_MergesExistingLine(t *testing.T) {
	ctx := context.Background()

	customerID := uuid.New()
	product := &model.Product{
		ID:             uuid.New(),
		Name:           "Shotgun Mic",
		Price:          349.00,
		StockQuantity:  8,
		TrackInventory: true,
		IsActive:       true,
	}
	existing := &model.CartItem{
		ID:         uuid.New(),
		CustomerID: customerID,
		ProductID:  product.ID,
		Quantity:   3,
		UnitPrice:  349.00,
		IsActive:   true,
	}

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)

	service, _ := newCartServiceForTest(mockCartRepo, mockProductRepo, mockLedger)

	mockProductRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	mockCartRepo.On("GetItem", ctx, customerID, product.ID).Return(existing, nil)
	// The merged quantity, not the increment, is what gets validated.
	mockLedger.On("IsAvailable", ctx, product.ID, 5).Return(true, nil)
	mockCartRepo.On("UpdateQuantity", ctx, existing.ID, 5).Return(nil)

	item, err := service.AddItem(ctx, customerID, product.ID, 2)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, item.ID)
	assert.Equal(t, 5, item.Quantity)

	mockCartRepo.AssertNotCalled(t, "Add")
	mockLedger.AssertExpectations(t)
}

func TestCartService_AddItem_Unavailable(t *testing.T) {
	ctx := context.Background()

	customerID := uuid.New()
	product := &model.Product{
		ID:             uuid.New(),
		Name:           "Field Mixer",
		Price:          899.00,
		StockQuantity:  1,
		TrackInventory: true,
		IsActive:       true,
	}

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)

	service, _ := newCartServiceForTest(mockCartRepo, mockProductRepo, mockLedger)

	mockProductRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	mockCartRepo.On("GetItem", ctx, customerID, product.ID).Return(nil, nil)
	mockLedger.On("IsAvailable", ctx, product.ID, 2).Return(false, nil)

	item, err := service.AddItem(ctx, customerID, product.ID, 2)

	require.Error(t, err)
	assert.Equal(t, model.ErrProductUnavailable, err)
	assert.Nil(t, item)
	mockCartRepo.AssertNotCalled(t, "Add")
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	ctx := context.Background()

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)

	service, _ := newCartServiceForTest(mockCartRepo, mockProductRepo, mockLedger)

	for _, quantity := range []int{0, -1} {
		item, err := service.AddItem(ctx, uuid.New(), uuid.New(), quantity)

		require.Error(t, err)
		assert.Nil(t, item)

		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeValidation, domainErr.Code)
	}

	mockProductRepo.AssertNotCalled(t, "GetByID")
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	ctx := context.Background()

	productID := uuid.New()

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)

	service, _ := newCartServiceForTest(mockCartRepo, mockProductRepo, mockLedger)

	mockProductRepo.On("GetByID", ctx, productID).Return(nil, nil)

	item, err := service.AddItem(ctx, uuid.New(), productID, 1)

	require.Error(t, err)
	assert.Equal(t, model.ErrProductNotFound, err)
	assert.Nil(t, item)
}

func TestCartService_UpdateQuantity_ZeroRemovesLine(t *testing.T) {
	ctx := context.Background()

	customerID := uuid.New()
	productID := uuid.New()
	existing := &model.CartItem{
		ID:         uuid.New(),
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   3,
		IsActive:   true,
	}

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)

	service, _ := newCartServiceForTest(mockCartRepo, mockProductRepo, mockLedger)

	mockCartRepo.On("GetItem", ctx, customerID, productID).Return(existing, nil)
	mockCartRepo.On("Remove", ctx, customerID, productID).Return(true, nil)

	item, err := service.UpdateQuantity(ctx, customerID, productID, 0)

	require.NoError(t, err)
	require.NotNil(t, item)
	mockCartRepo.AssertNotCalled(t, "UpdateQuantity")
	mockLedger.AssertNotCalled(t, "IsAvailable")
}

func TestCartService_UpdateQuantity_MissingLine(t *testing.T) {
	ctx := context.Background()

	customerID := uuid.New()
	productID := uuid.New()

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)

	service, _ := newCartServiceForTest(mockCartRepo, mockProductRepo, mockLedger)

	mockCartRepo.On("GetItem", ctx, customerID, productID).Return(nil, nil)

	item, err := service.UpdateQuantity(ctx, customerID, productID, 2)

	require.Error(t, err)
	assert.Equal(t, model.ErrCartItemNotFound, err)
	assert.Nil(t, item)
}

func TestCartService_GetCart_CachesSummary(t *testing.T) {
	ctx := context.Background()

	customerID := uuid.New()
	lines := []model.CartItem{
		{ID: uuid.New(), CustomerID: customerID, ProductID: uuid.New(), Quantity: 2, UnitPrice: 349.00, IsActive: true},
		{ID: uuid.New(), CustomerID: customerID, ProductID: uuid.New(), Quantity: 1, UnitPrice: 25.00, IsActive: true},
	}

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)

	service, _ := newCartServiceForTest(mockCartRepo, mockProductRepo, mockLedger)

	mockCartRepo.On("GetItems", ctx, customerID).Return(lines, nil).Once()

	first, err := service.GetCart(ctx, customerID)
	require.NoError(t, err)
	assert.InDelta(t, 723.00, first.Total, 0.001)
	assert.Equal(t, 3, first.ItemCount)

	// Second read is served from the cache; the single .Once() expectation
	// fails the test if the repository is hit again.
	second, err := service.GetCart(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	mockCartRepo.AssertExpectations(t)
}

func TestCartService_MutationInvalidatesCache(t *testing.T) {
	ctx := context.Background()

	customerID := uuid.New()
	productID := uuid.New()

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)

	service, cache := newCartServiceForTest(mockCartRepo, mockProductRepo, mockLedger)

	cache.Set(customerID, model.CartSummary{ItemCount: 5})

	mockCartRepo.On("Remove", ctx, customerID, productID).Return(true, nil)

	removed, err := service.RemoveItem(ctx, customerID, productID)

	require.NoError(t, err)
	assert.True(t, removed)

	_, ok := cache.Get(customerID)
	assert.False(t, ok, "mutation should invalidate the cached summary")
}

func TestCartService_Validate(t *testing.T) {
	ctx := context.Background()

	customerID := uuid.New()
	okID := uuid.New()
	shortID := uuid.New()
	lines := []model.CartItem{
		{ProductID: okID, Quantity: 1},
		{ProductID: shortID, Quantity: 4},
	}

	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)

	service, _ := newCartServiceForTest(mockCartRepo, mockProductRepo, mockLedger)

	mockCartRepo.On("GetItems", ctx, customerID).Return(lines, nil)
	mockLedger.On("IsAvailable", ctx, okID, 1).Return(true, nil)
	mockLedger.On("IsAvailable", ctx, shortID, 4).Return(false, nil)

	valid, err := service.Validate(ctx, customerID)

	require.NoError(t, err)
	assert.False(t, valid)
}
