package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks caller-supplied input that was rejected before any storage call.
	ErrValidation = errors.New("validation failed")

	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("submission not found")
	ErrReaderNil  = errors.New("reader is nil")
)

// ValidationError describes one rejected input field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
