package model

import "fmt"

// Standard error codes surfaced to API clients.
const (
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeCustomerNotFound   = "CUSTOMER_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeKitNotFound        = "KIT_NOT_FOUND"
	ErrCodeCartItemNotFound   = "CART_ITEM_NOT_FOUND"
	ErrCodeEmptyCart          = "EMPTY_CART"
	ErrCodeProductUnavailable = "PRODUCT_UNAVAILABLE"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeDuplicateSKU       = "DUPLICATE_SKU"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is a typed business-rule failure carrying a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors.
var (
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "product not found")
	ErrCustomerNotFound   = NewDomainError(ErrCodeCustomerNotFound, "customer not found")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "order not found")
	ErrKitNotFound        = NewDomainError(ErrCodeKitNotFound, "product kit not found")
	ErrCartItemNotFound   = NewDomainError(ErrCodeCartItemNotFound, "cart item not found")
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "customer cart is empty")
	ErrProductUnavailable = NewDomainError(ErrCodeProductUnavailable, "product is not available in the requested quantity")
	ErrDuplicateSKU       = NewDomainError(ErrCodeDuplicateSKU, "SKU already in use")
	ErrDuplicateEmail     = NewDomainError(ErrCodeDuplicateEmail, "email already registered")
	ErrInvalidTransition  = NewDomainError(ErrCodeInvalidTransition, "order status transition not allowed")
)

// InsufficientStockError is returned when a stock reservation cannot be
// covered. It carries the counts the storefront shows to the customer.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// Code returns the stable error code for API mapping.
func (e *InsufficientStockError) Code() string {
	return ErrCodeInsufficientStock
}

// ValidationError reports a rejected field value.
func ValidationError(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf(format, args...))
}
