package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP status codes; raw storage errors are never surfaced to callers.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means an ownership, role or blacklist rule was violated.
	ErrForbidden = errors.New("forbidden")
	// ErrSlotConflict means a non-cancelled appointment already holds the
	// (doctor, start) pair. Recoverable: the caller picks another slot.
	ErrSlotConflict = errors.New("slot already booked")
	// ErrInvalidTransition means the appointment state machine rejected
	// the requested status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports bad or missing input on a named field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
