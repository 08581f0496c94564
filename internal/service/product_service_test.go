package service

import (
	"context"
	"testing"

	"pva-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductServiceForTest(productRepo *MockProductRepository, ledger *MockLedger) ProductService {
	return NewProductService(productRepo, ledger, zerolog.Nop())
}

func TestProductService_Create_Success(t *testing.T) {
	ctx := context.Background()

	product := &model.Product{
		Name:          "  PVA Cine Camera  ",
		SKU:           "CAM-001",
		Price:         1299.00,
		StockQuantity: 5,
	}

	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)
	service := newProductServiceForTest(mockProductRepo, mockLedger)

	mockProductRepo.On("GetBySKU", ctx, "CAM-001").Return(nil, nil)
	mockProductRepo.On("Create", ctx, product).Return(nil)

	err := service.Create(ctx, product)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.True(t, product.IsActive)
	assert.Equal(t, "PVA Cine Camera", product.Name)

	mockProductRepo.AssertExpectations(t)
}

func TestProductService_Create_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		product *model.Product
	}{
		{name: "missing name", product: &model.Product{SKU: "CAM-001", Price: 10}},
		{name: "blank name", product: &model.Product{Name: "   ", SKU: "CAM-001", Price: 10}},
		{name: "missing sku", product: &model.Product{Name: "Camera", Price: 10}},
		{name: "zero price", product: &model.Product{Name: "Camera", SKU: "CAM-001"}},
		{name: "negative price", product: &model.Product{Name: "Camera", SKU: "CAM-001", Price: -5}},
		{name: "negative stock", product: &model.Product{Name: "Camera", SKU: "CAM-001", Price: 10, StockQuantity: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProductRepo := new(MockProductRepository)
			mockLedger := new(MockLedger)
			service := newProductServiceForTest(mockProductRepo, mockLedger)

			err := service.Create(ctx, tt.product)

			require.Error(t, err)

			var domainErr *model.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, model.ErrCodeValidation, domainErr.Code)
			mockProductRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestProductService_Create_DuplicateSKU(t *testing.T) {
	ctx := context.Background()

	existing := &model.Product{ID: uuid.New(), Name: "Old Camera", SKU: "CAM-001", Price: 999.00, IsActive: true}
	product := &model.Product{Name: "New Camera", SKU: "CAM-001", Price: 1299.00}

	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)
	service := newProductServiceForTest(mockProductRepo, mockLedger)

	mockProductRepo.On("GetBySKU", ctx, "CAM-001").Return(existing, nil)

	err := service.Create(ctx, product)

	require.Error(t, err)
	assert.Equal(t, model.ErrDuplicateSKU, err)
	mockProductRepo.AssertNotCalled(t, "Create")
}

func TestProductService_Update_SKUConflict(t *testing.T) {
	ctx := context.Background()

	id := uuid.New()
	existing := &model.Product{ID: id, Name: "Camera", SKU: "CAM-001", Price: 999.00, IsActive: true}
	other := &model.Product{ID: uuid.New(), Name: "Mixer", SKU: "MIX-001", Price: 899.00, IsActive: true}
	update := &model.Product{ID: id, Name: "Camera", SKU: "MIX-001", Price: 999.00}

	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)
	service := newProductServiceForTest(mockProductRepo, mockLedger)

	mockProductRepo.On("GetByID", ctx, id).Return(existing, nil)
	mockProductRepo.On("GetBySKU", ctx, "MIX-001").Return(other, nil)

	err := service.Update(ctx, update)

	require.Error(t, err)
	assert.Equal(t, model.ErrDuplicateSKU, err)
	mockProductRepo.AssertNotCalled(t, "Update")
}

func TestProductService_Update_NotFound(t *testing.T) {
	ctx := context.Background()

	update := &model.Product{ID: uuid.New(), Name: "Camera", SKU: "CAM-001", Price: 999.00}

	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)
	service := newProductServiceForTest(mockProductRepo, mockLedger)

	mockProductRepo.On("GetByID", ctx, update.ID).Return(nil, nil)

	err := service.Update(ctx, update)

	require.Error(t, err)
	assert.Equal(t, model.ErrProductNotFound, err)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()

	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)
	service := newProductServiceForTest(mockProductRepo, mockLedger)

	id := uuid.New()
	mockProductRepo.On("GetByID", ctx, id).Return(nil, nil)

	product, err := service.GetByID(ctx, id)

	require.Error(t, err)
	assert.Equal(t, model.ErrProductNotFound, err)
	assert.Nil(t, product)
}

func TestProductService_GetAll_ClampsPagination(t *testing.T) {
	ctx := context.Background()

	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)
	service := newProductServiceForTest(mockProductRepo, mockLedger)

	mockProductRepo.On("GetAll", ctx, 20, 0).Return([]model.Product{}, nil)

	_, err := service.GetAll(ctx, -5, -10)

	require.NoError(t, err)
	mockProductRepo.AssertExpectations(t)
}

func TestProductService_SetStock(t *testing.T) {
	ctx := context.Background()

	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)
	service := newProductServiceForTest(mockProductRepo, mockLedger)

	id := uuid.New()
	mockProductRepo.On("SetStock", ctx, id, 12).Return(true, nil)

	updated, err := service.SetStock(ctx, id, 12)

	require.NoError(t, err)
	assert.True(t, updated)

	_, err = service.SetStock(ctx, id, -1)
	require.Error(t, err)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeValidation, domainErr.Code)
}

func TestProductService_IsAvailable_DelegatesToLedger(t *testing.T) {
	ctx := context.Background()

	mockProductRepo := new(MockProductRepository)
	mockLedger := new(MockLedger)
	service := newProductServiceForTest(mockProductRepo, mockLedger)

	id := uuid.New()
	mockLedger.On("IsAvailable", ctx, id, 2).Return(true, nil)

	available, err := service.IsAvailable(ctx, id, 2)

	require.NoError(t, err)
	assert.True(t, available)

	_, err = service.IsAvailable(ctx, id, 0)
	require.Error(t, err)
}
