package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrNetwork     = errors.New("catalog service unreachable")
	ErrHTTP        = errors.New("catalog service error")
	ErrPersistence = errors.New("persistence failure")

	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrCartLineNotFound = fmt.Errorf("cart line %w", ErrNotFound)
	ErrSnapshotNotFound = fmt.Errorf("snapshot %w", ErrNotFound)
)

// Checkout rejections. The messages are shown to the user as-is.
var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrDeliveryIncomplete = errors.New("please fill in all delivery fields")
	ErrPaymentIncomplete  = errors.New("please fill in all payment fields")
	ErrCheckoutNotStarted = errors.New("delivery details must be submitted before payment")
)

// ValidationError is returned when a product draft fails client-side checks.
// Field names the first offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// RemoteError is a failed call to the catalog service.
// StatusCode is zero when the request never got a response.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: catalog returned status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrHTTP:
		return e.StatusCode != 0
	case ErrNetwork:
		return e.StatusCode == 0
	}
	return false
}

// Kind returns "http" for non-2xx responses and "network" otherwise
func (e *RemoteError) Kind() string {
	if e.StatusCode != 0 {
		return "http"
	}
	return "network"
}

// PersistenceError wraps a snapshot save or load failure
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("snapshot %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
