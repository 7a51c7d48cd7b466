package errs

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for the core. The HTTP layer maps these to status codes;
// the core itself never logs-and-swallows anything that changes its contract.
var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("name conflict")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrStorage             = errors.New("storage failure")
	ErrAuth                = errors.New("unauthorized")
)

// ValidationError names the missing or malformed field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError names the entity that could not be resolved.
type NotFoundError struct {
	Kind string // "item", "report", ...
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Kind, e.ID) }
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports a duplicate normalized item name.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string { return fmt.Sprintf("item name %q already exists", e.Name) }
func (e *ConflictError) Unwrap() error { return ErrConflict }

// InsufficientStockError names the offending item and amounts.
type InsufficientStockError struct {
	ItemName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: have %d, requested %d",
		e.ItemName, e.Available, e.Requested)
}
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InsufficientPaymentError names required vs received amounts.
type InsufficientPaymentError struct {
	Total    decimal.Decimal
	Received decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: total %s, received %s", e.Total, e.Received)
}
func (e *InsufficientPaymentError) Unwrap() error { return ErrInsufficientPayment }

// StorageError wraps a document-store failure. When it surfaces from a
// commit, no partial effects are visible.
type StorageError struct {
	Key string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage failure on %q: %v", e.Key, e.Err) }
func (e *StorageError) Unwrap() error { return ErrStorage }

// IsClientError reports whether the caller, not the system, is at fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInsufficientPayment)
}

// IsNotFound reports whether the error is a missing-entity rejection.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
