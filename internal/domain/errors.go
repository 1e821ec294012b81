// Package domain defines the core account entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is usually wrapped with a more specific message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or non-positive.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when a caller cannot be authenticated.
	// It deliberately covers both bad tokens and vanished accounts so the
	// two cases are indistinguishable to the caller.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries the field that failed validation alongside the
// underlying sentinel error.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap returns the wrapped sentinel to support errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
