package model

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the service layer wraps exactly
// one of these so the transport layer can map it with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authorization required")
	ErrTransient       = errors.New("temporarily unavailable")
)

var (
	ErrConferenceNotFound = fmt.Errorf("%w: no conference found with that key", ErrNotFound)
	ErrProfileNotFound    = fmt.Errorf("%w: no profile for user", ErrNotFound)
	ErrAlreadyRegistered  = fmt.Errorf("%w: you have already registered for this conference", ErrConflict)
	ErrNoSeats            = fmt.Errorf("%w: there are no seats available", ErrConflict)
	ErrNotOrganizer       = fmt.Errorf("%w: only the owner can update the conference", ErrForbidden)
)

// ValidationError describes a rejected input. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
