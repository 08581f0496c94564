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

// customerService implements CustomerService.
type customerService struct {
	customerRepo repository.CustomerRepository
	logger       zerolog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(customerRepo repository.CustomerRepository, logger zerolog.Logger) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		logger:       logger.With().Str("service", "customer").Logger(),
	}
}

// GetByID retrieves a single customer by ID.
func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, model.ErrCustomerNotFound
	}

	return customer, nil
}

// GetByEmail retrieves a single customer by email.
func (s *customerService) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, normaliseEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, model.ErrCustomerNotFound
	}

	return customer, nil
}

// Create validates and inserts a new customer.
func (s *customerService) Create(ctx context.Context, customer *model.Customer) error {
	if err := s.validate(customer); err != nil {
		return err
	}

	exists, err := s.customerRepo.EmailExists(ctx, customer.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return model.ErrDuplicateEmail
	}

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	now := time.Now()
	customer.IsActive = true
	customer.CreatedAt = now
	customer.UpdatedAt = now

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.logger.Error().Err(err).Str("email", customer.Email).Msg("failed to create customer")
		return fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info().Str("customer_id", customer.ID.String()).Msg("customer created")

	return nil
}

// Update validates and persists customer changes.
func (s *customerService) Update(ctx context.Context, customer *model.Customer) error {
	if err := s.validate(customer); err != nil {
		return err
	}

	existing, err := s.customerRepo.GetByID(ctx, customer.ID)
	if err != nil {
		return fmt.Errorf("failed to get customer: %w", err)
	}
	if existing == nil {
		return model.ErrCustomerNotFound
	}

	if customer.Email != existing.Email {
		exists, err := s.customerRepo.EmailExists(ctx, customer.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return model.ErrDuplicateEmail
		}
	}

	customer.UpdatedAt = time.Now()

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	return nil
}

// Delete soft-deletes a customer.
func (s *customerService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.customerRepo.SoftDelete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete customer: %w", err)
	}

	if deleted {
		s.logger.Info().Str("customer_id", id.String()).Msg("customer deleted")
	}

	return deleted, nil
}

func (s *customerService) validate(customer *model.Customer) error {
	customer.Email = normaliseEmail(customer.Email)
	customer.FirstName = strings.TrimSpace(customer.FirstName)
	customer.LastName = strings.TrimSpace(customer.LastName)

	if customer.Email == "" {
		return model.ValidationError("customer email is required")
	}
	if !strings.Contains(customer.Email, "@") {
		return model.ValidationError("customer email is invalid")
	}
	if customer.FirstName == "" {
		return model.ValidationError("customer first name is required")
	}
	if customer.LastName == "" {
		return model.ValidationError("customer last name is required")
	}

	return nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
