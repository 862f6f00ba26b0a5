package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	ProductID int64  `json:"productId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeValidation           = "VALIDATION_FAILED"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeDuplicate            = "DUPLICATE"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeOutOfStock           = "OUT_OF_STOCK"
	ErrCodeProductUnavailable   = "PRODUCT_UNAVAILABLE"
	ErrCodeDiscountNotFound     = "DISCOUNT_NOT_FOUND"
	ErrCodeDiscountExpired      = "DISCOUNT_EXPIRED"
	ErrCodeAlreadyDiscounted    = "ALREADY_DISCOUNTED"
	ErrCodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	ErrCodeInvalidAddress       = "INVALID_ADDRESS"
	ErrCodeInvalidStatus        = "INVALID_STATUS"
	ErrCodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeTransientFailure     = "TRANSIENT_FAILURE"
)

// DomainError is a business rule failure that callers can match with errors.Is.
// Two domain errors match when their codes are equal, so an OutOfStock error
// carrying a product id still matches ErrOutOfStock.
type DomainError struct {
	Code      string
	Message   string
	ProductID int64
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewOutOfStockError reports that the given product cannot cover the requested quantity.
func NewOutOfStockError(productID int64) *DomainError {
	return &DomainError{
		Code:      ErrCodeOutOfStock,
		Message:   fmt.Sprintf("product %d does not have enough stock", productID),
		ProductID: productID,
	}
}

// NewProductUnavailableError reports that the given product is missing or deleted.
func NewProductUnavailableError(productID int64) *DomainError {
	return &DomainError{
		Code:      ErrCodeProductUnavailable,
		Message:   fmt.Sprintf("product %d is no longer available", productID),
		ProductID: productID,
	}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(ErrCodeNotFound, resource+" not found")
}

// NewValidationError reports a malformed request.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// Transient wraps a storage failure so that it matches ErrTransientFailure
// while keeping the underlying cause in the chain.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransientFailure, err)
}

// AsDomainError extracts the first DomainError in err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrNotFound             = NewNotFoundError("resource")
	ErrDuplicate            = NewDomainError(ErrCodeDuplicate, "A record with the same unique value already exists")
	ErrValidation           = NewValidationError("Request validation failed")
	ErrEmptyCart            = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrOutOfStock           = NewDomainError(ErrCodeOutOfStock, "Not enough stock")
	ErrProductUnavailable   = NewDomainError(ErrCodeProductUnavailable, "Product is no longer available")
	ErrDiscountNotFound     = NewDomainError(ErrCodeDiscountNotFound, "Discount code not found")
	ErrDiscountExpired      = NewDomainError(ErrCodeDiscountExpired, "Discount code is expired or disabled")
	ErrAlreadyDiscounted    = NewDomainError(ErrCodeAlreadyDiscounted, "A discount is already applied")
	ErrInsufficientFunds    = NewDomainError(ErrCodeInsufficientFunds, "Wallet balance is insufficient")
	ErrInvalidAddress       = NewDomainError(ErrCodeInvalidAddress, "Address does not belong to the user")
	ErrInvalidStatus        = NewDomainError(ErrCodeInvalidStatus, "Order status transition is not allowed")
	ErrInvalidPaymentMethod = NewDomainError(ErrCodeInvalidPaymentMethod, "Payment method must be wallet or cash")
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "Quantity exceeds available stock")
	ErrTransientFailure     = NewDomainError(ErrCodeTransientFailure, "Temporary storage failure, please retry")
)
