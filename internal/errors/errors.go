// Package errors provides custom error types for the gagyebu API.
// All service-layer errors should use AppError so callers get a typed,
// recoverable failure and HTTP clients never see internal details.
package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError so callers can react to the category of
// failure without matching individual codes.
type Kind string

const (
	KindInput         Kind = "input"
	KindNotFound      Kind = "not_found"
	KindAuth          Kind = "auth"
	KindConfiguration Kind = "configuration"
	KindPrecondition  Kind = "precondition"
	KindIntegrity     Kind = "integrity"
	KindInternal      Kind = "internal"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, kind, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Kind       Kind   `json:"kind"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError carrying the same code, so a
// wrapped copy still matches its sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Kind:       sentinel.Kind,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Kind:       sentinel.Kind,
		Internal:   sentinel.Internal,
	}
}

// IsKind reports whether err is, or wraps, an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Kind == kind
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized, Kind: KindAuth}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid password", StatusCode: http.StatusUnauthorized, Kind: KindAuth}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest, Kind: KindInput}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound, Kind: KindNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError, Kind: KindInternal}
)

// Account errors.
var (
	ErrAccountNotFound = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound, Kind: KindNotFound}
)

// Category errors.
var (
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound, Kind: KindNotFound}
	ErrCategoryInUse     = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing transactions", StatusCode: http.StatusConflict, Kind: KindPrecondition}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this name already exists", StatusCode: http.StatusConflict, Kind: KindInput}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound, Kind: KindNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest, Kind: KindInput}
	ErrUnsupportedCurrency    = &AppError{Code: "UNSUPPORTED_CURRENCY", Message: "Currency must be KRW or AED", StatusCode: http.StatusBadRequest, Kind: KindInput}
	ErrNegativeAmount         = &AppError{Code: "NEGATIVE_AMOUNT", Message: "Amount must not be negative", StatusCode: http.StatusBadRequest, Kind: KindInput}
)

// Budget errors.
var (
	ErrBudgetItemNotFound = &AppError{Code: "BUDGET_ITEM_NOT_FOUND", Message: "Budget item not found", StatusCode: http.StatusNotFound, Kind: KindNotFound}
	ErrInvalidBudgetType  = &AppError{Code: "INVALID_BUDGET_TYPE", Message: "Unsupported budget type", StatusCode: http.StatusBadRequest, Kind: KindInput}
)

// Configuration errors. These are raised where a value is saved and again
// where it is used, never coerced.
var (
	ErrInvalidExchangeRate = &AppError{Code: "INVALID_EXCHANGE_RATE", Message: "Exchange rate must be a positive number", StatusCode: http.StatusUnprocessableEntity, Kind: KindConfiguration}
	ErrInvalidBudgetWindow = &AppError{Code: "INVALID_BUDGET_WINDOW", Message: "Distributed budget items need valid_from <= valid_to", StatusCode: http.StatusUnprocessableEntity, Kind: KindConfiguration}
)

// Monthly closing errors.
var (
	ErrInvalidMonth       = &AppError{Code: "INVALID_MONTH", Message: "Month must be between 1 and 12", StatusCode: http.StatusBadRequest, Kind: KindInput}
	ErrClosingNotFound    = &AppError{Code: "CLOSING_NOT_FOUND", Message: "Monthly closing not found", StatusCode: http.StatusNotFound, Kind: KindNotFound}
	ErrMonthAlreadyClosed = &AppError{Code: "MONTH_ALREADY_CLOSED", Message: "Month is already closed; reopen it first", StatusCode: http.StatusConflict, Kind: KindPrecondition}
	ErrMonthEmpty         = &AppError{Code: "MONTH_EMPTY", Message: "Cannot close a month without income or expense", StatusCode: http.StatusConflict, Kind: KindPrecondition}
	ErrMonthNotClosed     = &AppError{Code: "MONTH_NOT_CLOSED", Message: "Month is not closed", StatusCode: http.StatusConflict, Kind: KindPrecondition}
	ErrClosingWriteFailed = &AppError{Code: "CLOSING_WRITE_FAILED", Message: "Monthly closing could not be saved; nothing was changed", StatusCode: http.StatusInternalServerError, Kind: KindIntegrity}
)
