package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or request fails validation.
	// It is usually wrapped by a ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when no authenticated identity is available.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrStatusRequired is returned when a status transition has no target.
	ErrStatusRequired = errors.New("status is required")

	// ErrInvalidStatus is returned for a status outside the known enumeration.
	ErrInvalidStatus = errors.New("invalid account status")

	// ErrStatusUnchanged is returned when an account is moved to the status it
	// already has. Same-status transitions are conflicts, not no-ops.
	ErrStatusUnchanged = errors.New("account already has the requested status")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError. err may be nil or a more
// specific sentinel such as ErrInvalidStatus.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("Invalid %s: %s", e.Field, e.Message)
}

// Unwrap exposes the wrapped sentinel. Every ValidationError also matches
// ErrValidation.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrValidation {
		return []error{ErrValidation}
	}
	return []error{e.Err, ErrValidation}
}

// ValidationErrors collects every violation found while checking a payload.
type ValidationErrors []*ValidationError

// Error joins the individual messages.
func (v ValidationErrors) Error() string {
	return strings.Join(v.Messages(), "; ")
}

// Unwrap exposes every collected error, so errors.Is matches ErrValidation
// as well as any field-specific sentinel.
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(v)+1)
	for _, e := range v {
		out = append(out, e)
	}
	return append(out, ErrValidation)
}

// Messages returns one human-readable line per violation, in order.
func (v ValidationErrors) Messages() []string {
	out := make([]string, 0, len(v))
	for _, e := range v {
		out = append(out, e.Error())
	}
	return out
}
