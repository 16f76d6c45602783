package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so that errors created with NewDomainError
// compare equal to the sentinels below.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewStorageError wraps a persistence failure. The driver message is kept as
// the cause for logging and never surfaced to callers.
func NewStorageError(cause error) *DomainError {
	return &DomainError{
		Code:    CodeStorageError,
		Message: "A storage error occurred",
		cause:   cause,
	}
}

// Error codes
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeProductNotFound    = "PRODUCT_NOT_FOUND"
	CodeCategoryNotFound   = "CATEGORY_NOT_FOUND"
	CodeSaleNotFound       = "SALE_NOT_FOUND"
	CodePriceMismatch      = "PRICE_MISMATCH"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeStorageError       = "STORAGE_ERROR"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
)

// Common domain errors
var (
	ErrNotFound           = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists      = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput       = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized       = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden          = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInsufficientStock  = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrProductNotFound    = NewDomainError(CodeProductNotFound, "Product not found")
	ErrCategoryNotFound   = NewDomainError(CodeCategoryNotFound, "Category not found")
	ErrSaleNotFound       = NewDomainError(CodeSaleNotFound, "Sale not found")
	ErrPriceMismatch      = NewDomainError(CodePriceMismatch, "Total price does not match the product price")
	ErrInvalidCredentials = NewDomainError(CodeInvalidCredentials, "Invalid email or password")
	ErrStorage            = NewDomainError(CodeStorageError, "A storage error occurred")
	ErrUnavailable        = NewDomainError(CodeUnavailable, "Service is not available")
)

// IsValidationError reports whether err was raised before touching storage
// because of malformed input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrPriceMismatch)
}
