package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for storage operations.
var (
	// ErrUnavailable means the client never obtained a usable session
	// (missing or invalid credentials). Operations fail fast with it.
	ErrUnavailable = errors.New("storage: unavailable")

	// ErrOperationFailed wraps any rejected backend call: network, quota,
	// permission or not-found.
	ErrOperationFailed = errors.New("storage: operation failed")

	// ErrNotFound is joined with ErrOperationFailed when the backend reports a missing object.
	ErrNotFound = errors.New("storage: not found")
)

// opError wraps a backend error so callers can match ErrOperationFailed while
// the backend's own message stays visible.
func opError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrOperationFailed, op, err)
}

// notFoundError marks a backend not-found rejection.
func notFoundError(op string, err error) error {
	return fmt.Errorf("%w: %w: %s: %v", ErrOperationFailed, ErrNotFound, op, err)
}
