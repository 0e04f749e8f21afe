package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("resource conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Ledger posting errors. All are local validation failures: the caller must fix
// the request, not retry it.
var (
	// ErrUnbalanced indicates a transaction whose debit lines do not sum to its credit lines.
	ErrUnbalanced = errors.New("transaction debits and credits do not balance")
	// ErrUnknownAccount indicates an entry line referencing an account code not in the registry.
	ErrUnknownAccount = errors.New("unknown account")
	// ErrInvalidLine indicates an entry line with both sides zero, both sides non-zero,
	// or a negative amount.
	ErrInvalidLine = errors.New("invalid entry line")
)

// Business-rule rejections raised by the orchestrator layer.
var (
	// ErrInsufficientBalance indicates a transfer or payment exceeding the source
	// account's balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrCapabilityMismatch indicates a payment method that the chosen account
	// cannot service (cash method against a non-cash account, etc.).
	ErrCapabilityMismatch = errors.New("account capability does not match payment method")
)

// AppError carries an HTTP-ish status code alongside the wrapped cause so
// repositories can classify failures without importing the transport layer.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping an underlying cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
