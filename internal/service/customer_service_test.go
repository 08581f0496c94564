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

func TestCustomerService_Create_Success(t *testing.T) {
	ctx := context.Background()

	customer := &model.Customer{
		Email:     "  Ana.Reyes@Example.COM ",
		FirstName: "Ana",
		LastName:  "Reyes",
	}

	mockCustomerRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockCustomerRepo, zerolog.Nop())

	mockCustomerRepo.On("EmailExists", ctx, "ana.reyes@example.com").Return(false, nil)
	mockCustomerRepo.On("Create", ctx, customer).Return(nil)

	err := service.Create(ctx, customer)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, customer.ID)
	assert.Equal(t, "ana.reyes@example.com", customer.Email)
	assert.True(t, customer.IsActive)

	mockCustomerRepo.AssertExpectations(t)
}

func TestCustomerService_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()

	customer := &model.Customer{
		Email:     "ana.reyes@example.com",
		FirstName: "Ana",
		LastName:  "Reyes",
	}

	mockCustomerRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockCustomerRepo, zerolog.Nop())

	mockCustomerRepo.On("EmailExists", ctx, "ana.reyes@example.com").Return(true, nil)

	err := service.Create(ctx, customer)

	require.Error(t, err)
	assert.Equal(t, model.ErrDuplicateEmail, err)
	mockCustomerRepo.AssertNotCalled(t, "Create")
}

func TestCustomerService_Create_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		customer *model.Customer
	}{
		{name: "missing email", customer: &model.Customer{FirstName: "Ana", LastName: "Reyes"}},
		{name: "invalid email", customer: &model.Customer{Email: "not-an-email", FirstName: "Ana", LastName: "Reyes"}},
		{name: "missing first name", customer: &model.Customer{Email: "a@example.com", LastName: "Reyes"}},
		{name: "missing last name", customer: &model.Customer{Email: "a@example.com", FirstName: "Ana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCustomerRepo := new(MockCustomerRepository)
			service := NewCustomerService(mockCustomerRepo, zerolog.Nop())

			err := service.Create(ctx, tt.customer)

			require.Error(t, err)

			var domainErr *model.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, model.ErrCodeValidation, domainErr.Code)
			mockCustomerRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCustomerService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()

	mockCustomerRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockCustomerRepo, zerolog.Nop())

	id := uuid.New()
	mockCustomerRepo.On("GetByID", ctx, id).Return(nil, nil)

	customer, err := service.GetByID(ctx, id)

	require.Error(t, err)
	assert.Equal(t, model.ErrCustomerNotFound, err)
	assert.Nil(t, customer)
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()

	mockCustomerRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockCustomerRepo, zerolog.Nop())

	id := uuid.New()
	mockCustomerRepo.On("SoftDelete", ctx, id).Return(true, nil)

	deleted, err := service.Delete(ctx, id)

	require.NoError(t, err)
	assert.True(t, deleted)
}
