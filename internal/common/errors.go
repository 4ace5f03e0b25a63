// Package common defines shared sentinel errors used across the taskkeeper
// client layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	// ErrContentOwned means a write named a content id that belongs to
	// another task.
	ErrContentOwned = errors.New("content id belongs to another task")

	// Storage selection errors.
	ErrNoBackend = errors.New("no storage backend available")

	// Caller-facing rejections.
	ErrValidation    = errors.New("validation failed")
	ErrInvalidFormat = errors.New("invalid backup format")
)

// ValidationError reports which input field was rejected and why.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid is a shorthand for building a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
