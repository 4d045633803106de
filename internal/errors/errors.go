package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWeakPassword is returned when the password fails the complexity rules.
	ErrWeakPassword = errors.New("password must be at least 8 characters and contain a letter and a number")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryNameTaken is returned when a category name is already in use.
	ErrCategoryNameTaken = errors.New("category name already exists")
	// ErrCategoryInUse is returned when deleting a category that still has products.
	ErrCategoryInUse = errors.New("category still has products")
	// ErrInvalidCategory is returned when a product references a nonexistent category.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidPrice is returned when a product price is not positive.
	ErrInvalidPrice = errors.New("price must be greater than zero")
	// ErrInvalidStock is returned when a product stock is negative.
	ErrInvalidStock = errors.New("stock must not be negative")
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyOrder is returned when an order is placed with no items.
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// ErrInvalidQuantity is returned when an order item quantity is not positive.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrInsufficientStock is returned when requested quantity exceeds stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidStatus is returned when an order status value is not defined.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrOrderNotPending is returned on a status transition from a final state.
	ErrOrderNotPending = errors.New("order is not pending")
	// ErrForbidden is returned when the identity lacks the required role.
	ErrForbidden = errors.New("forbidden")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors are
// surfaced as opaque internal errors; no store detail reaches the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrWeakPassword):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "WEAK_PASSWORD")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrCategoryNameTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CATEGORY_NAME_TAKEN")
	case errors.Is(err, ErrCategoryInUse):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CATEGORY_IN_USE")
	case errors.Is(err, ErrInvalidCategory):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CATEGORY")
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrInvalidPrice):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PRICE")
	case errors.Is(err, ErrInvalidStock):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STOCK")
	case errors.Is(err, ErrOrderNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ORDER_NOT_FOUND")
	case errors.Is(err, ErrEmptyOrder):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_ORDER")
	case errors.Is(err, ErrInvalidQuantity):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_QUANTITY")
	case errors.Is(err, ErrInsufficientStock):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INSUFFICIENT_STOCK")
	case errors.Is(err, ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	case errors.Is(err, ErrOrderNotPending):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ORDER_NOT_PENDING")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
