package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pva-store/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Search(ctx context.Context, term string) ([]model.Product, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetFeatured(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductService) Update(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductService) SetStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductService) IsAvailable(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}

func productTestRouter(h *ProductHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/products", h.List)
	r.Post("/api/products", h.Create)
	r.Get("/api/products/{id}", h.GetByID)
	r.Get("/api/products/{id}/availability", h.Availability)
	return r
}

func TestProductHandler_List(t *testing.T) {
	logger := zerolog.Nop()

	products := []model.Product{
		{ID: uuid.New(), Name: "Camera", SKU: "CAM-001", Price: 1299.00, IsActive: true},
		{ID: uuid.New(), Name: "Mixer", SKU: "MIX-002", Price: 899.00, IsActive: true},
	}

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, logger)

	mockService.On("GetAll", mock.Anything, 0, 0).Return(products, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()

	productTestRouter(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []model.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Len(t, got, 2)
}

func TestProductHandler_List_Search(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, logger)

	mockService.On("Search", mock.Anything, "camera").Return([]model.Product{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products?search=camera", nil)
	w := httptest.NewRecorder()

	productTestRouter(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
	mockService.AssertNotCalled(t, "GetAll")
}

func TestProductHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()

	product := &model.Product{ID: uuid.New(), Name: "Camera", SKU: "CAM-001", Price: 1299.00, IsActive: true}

	tests := []struct {
		name           string
		id             string
		mockReturn     *model.Product
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Success",
			id:             product.ID.String(),
			mockReturn:     product,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Not found",
			id:             uuid.New().String(),
			mockError:      model.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Invalid ID",
			id:             "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)

			if id, err := uuid.Parse(tt.id); err == nil {
				mockService.On("GetByID", mock.Anything, id).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/products/"+tt.id, nil)
			w := httptest.NewRecorder()

			productTestRouter(handler).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestProductHandler_Create(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)

		mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(nil)

		body, _ := json.Marshal(model.Product{Name: "Camera", SKU: "CAM-001", Price: 1299.00})
		req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
		w := httptest.NewRecorder()

		productTestRouter(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Duplicate SKU", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)

		mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.Product")).Return(model.ErrDuplicateSKU)

		body, _ := json.Marshal(model.Product{Name: "Camera", SKU: "CAM-001", Price: 1299.00})
		req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
		w := httptest.NewRecorder()

		productTestRouter(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, model.ErrCodeDuplicateSKU, resp.Code)
	})

	t.Run("Invalid body", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader([]byte("{broken")))
		w := httptest.NewRecorder()

		productTestRouter(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestProductHandler_Availability(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, logger)

	id := uuid.New()
	mockService.On("IsAvailable", mock.Anything, id, 3).Return(true, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+id.String()+"/availability?quantity=3", nil)
	w := httptest.NewRecorder()

	productTestRouter(handler).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, true, resp["available"])
}
