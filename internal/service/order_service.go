package service

import (
	"context"
	"fmt"
	"time"

	"pva-store/internal/cartcache"
	"pva-store/internal/inventory"
	"pva-store/internal/model"
	"pva-store/internal/ordernum"
	"pva-store/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	ledger      inventory.Ledger
	numbers     *ordernum.Generator
	cache       *cartcache.Cache
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	ledger inventory.Ledger,
	numbers *ordernum.Generator,
	cache *cartcache.Cache,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		ledger:      ledger,
		numbers:     numbers,
		cache:       cache,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// CreateFromCart converts the customer's cart into a persisted order.
//
// Stock reservation, order rows and the cart clear all happen inside one
// transaction: if any line cannot be covered, the rollback discards every
// reservation already made in this pass, so failure leaves stock, cart and
// orders exactly as they were.
func (s *orderService) CreateFromCart(ctx context.Context, customerID uuid.UUID, shipping model.Address, billing *model.Address) (*model.Order, error) {
	lines, err := s.cartRepo.GetItems(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if len(lines) == 0 {
		s.logger.Warn().Str("customer_id", customerID.String()).Msg("attempted to order an empty cart")
		return nil, model.ErrEmptyCart
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback order transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		ShippingAddress: shipping,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if billing != nil {
		order.BillingAddress = *billing
	} else {
		order.BillingAddress = shipping
	}

	for _, line := range lines {
		var product *model.Product
		product, err = s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cart product: %w", err)
		}
		if product == nil {
			s.logger.Warn().
				Str("customer_id", customerID.String()).
				Str("product_id", line.ProductID.String()).
				Msg("cart references unknown product")
			err = model.ErrProductNotFound
			return nil, err
		}

		if err = s.ledger.Reserve(ctx, tx, product.ID, line.Quantity); err != nil {
			s.logger.Warn().Err(err).
				Str("customer_id", customerID.String()).
				Str("product_id", product.ID.String()).
				Int("quantity", line.Quantity).
				Msg("stock reservation failed")
			return nil, err
		}

		item := model.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			TotalPrice:  product.Price * float64(line.Quantity),
		}
		order.Items = append(order.Items, item)
		order.TotalAmount += item.TotalPrice
	}

	order.OrderNumber, err = s.numbers.Generate(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to generate order number")
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateItems(ctx, tx, order.Items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = s.cartRepo.ClearTx(ctx, tx, customerID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit order transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.cache.Invalidate(customerID)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("customer_id", customerID.String()).
		Int("item_count", len(order.Items)).
		Float64("total", order.TotalAmount).
		Msg("order created")

	return order, nil
}

// GetByID retrieves an order with its items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// GetByNumber retrieves an order with its items by order number.
func (s *orderService) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	order, err := s.orderRepo.GetByNumber(ctx, number)
	if err != nil {
		s.logger.Error().Err(err).Str("order_number", number).Msg("failed to get order by number")
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}
	return order, nil
}

// GetByCustomer retrieves the customer's orders.
func (s *orderService) GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to get customer orders")
		return nil, fmt.Errorf("failed to get customer orders: %w", err)
	}
	return orders, nil
}

// GetByStatus retrieves orders in the given status.
func (s *orderService) GetByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	orders, err := s.orderRepo.GetByStatus(ctx, status)
	if err != nil {
		s.logger.Error().Err(err).Str("status", string(status)).Msg("failed to get orders by status")
		return nil, fmt.Errorf("failed to get orders by status: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves the order through the fulfilment state machine. Moving
// to Shipped or Delivered stamps the respective date; moving to Cancelled
// restores stock for every item.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.IsValid() {
		return nil, model.ValidationError("unknown order status: %s", status)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !order.Status.CanTransitionTo(status) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(order.Status)).
			Str("to", string(status)).
			Msg("rejected order status transition")
		return nil, model.ErrInvalidTransition
	}

	now := time.Now()
	order.Status = status
	order.UpdatedAt = now

	switch status {
	case model.OrderStatusShipped:
		order.ShippedDate = &now
	case model.OrderStatusDelivered:
		order.DeliveredDate = &now
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback status transaction")
			}
		}
	}()

	// Stock restoration happens only here and in Cancel.
	if status == model.OrderStatusCancelled {
		if err = s.restoreStock(ctx, tx, order); err != nil {
			return nil, err
		}
	}

	if err = s.orderRepo.Update(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit status transaction")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("status", string(status)).
		Msg("order status updated")

	return order, nil
}

// UpdatePaymentStatus records a payment state change. A captured payment on a
// still-pending order advances it straight to Processing, skipping Confirmed.
func (s *orderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status model.PaymentStatus) (*model.Order, error) {
	if !status.IsValid() {
		return nil, model.ValidationError("unknown payment status: %s", status)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	order.PaymentStatus = status
	order.UpdatedAt = time.Now()

	if status == model.PaymentStatusCaptured && order.Status == model.OrderStatusPending {
		order.Status = model.OrderStatusProcessing
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback payment transaction")
			}
		}
	}()

	if err = s.orderRepo.Update(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit payment transaction")
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("payment_status", string(status)).
		Str("status", string(order.Status)).
		Msg("payment status updated")

	return order, nil
}

// Cancel cancels the order and restores stock for every item.
func (s *orderService) Cancel(ctx context.Context, orderID uuid.UUID) (bool, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		s.logger.Warn().Str("order_id", orderID.String()).Msg("order not found for cancellation")
		return false, nil
	}

	if order.Status == model.OrderStatusShipped || order.Status == model.OrderStatusDelivered {
		return false, model.ErrInvalidTransition
	}

	if order.Status == model.OrderStatusCancelled {
		return true, nil
	}

	order.Status = model.OrderStatusCancelled
	order.UpdatedAt = time.Now()

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to cancel order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback cancel transaction")
			}
		}
	}()

	if err = s.restoreStock(ctx, tx, order); err != nil {
		return false, err
	}

	if err = s.orderRepo.Update(ctx, tx, order); err != nil {
		return false, fmt.Errorf("failed to cancel order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit cancel transaction")
		return false, fmt.Errorf("failed to cancel order: %w", err)
	}

	s.logger.Info().Str("order_id", orderID.String()).Msg("order cancelled")

	return true, nil
}

// CalculateCartTotal returns what the customer's cart would currently cost
// as an order, priced at current product prices.
func (s *orderService) CalculateCartTotal(ctx context.Context, customerID uuid.UUID) (float64, error) {
	lines, err := s.cartRepo.GetItems(ctx, customerID)
	if err != nil {
		return 0, fmt.Errorf("failed to load cart: %w", err)
	}

	var total float64
	for _, line := range lines {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve cart product: %w", err)
		}
		if product == nil {
			continue
		}
		total += product.Price * float64(line.Quantity)
	}

	return total, nil
}

func (s *orderService) restoreStock(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	for _, item := range order.Items {
		if err := s.ledger.Release(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}
	}
	return nil
}
