package store

import (
	"errors"
	"fmt"
)

// Errors shared by every CardStateStore and ReferenceSource implementation.
var (
	// ErrNotFound is the root of all not found errors; test for it with
	// IsNotFoundError.
	ErrNotFound = errors.New("entity not found")

	// ErrCardStateNotFound indicates that the requested card has never been reviewed.
	ErrCardStateNotFound = fmt.Errorf("%w: card state", ErrNotFound)

	// ErrInvalidEntity is returned when a card state fails validation before
	// being written, or when the database rejects it.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidSnapshot is returned when an import blob cannot be parsed or
	// contains a state that fails validation.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrTransactionFailed is returned when a transaction cannot be started or
	// committed, or when concurrent reviews of one card conflict.
	ErrTransactionFailed = errors.New("transaction failed")
)

// IsNotFoundError reports whether err is any kind of not found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError adds the entity and operation to a failure inside a store.
type StoreError struct {
	Entity    string // e.g. "card_state"
	Operation string // e.g. "get", "import"
	Message   string
	Err       error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	msg := e.Entity + " " + e.Operation + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError returns a StoreError for operation on entity.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
