package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing vehicle plate or driver name).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a departure is requested for a vehicle that
// already has a trip in progress.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ValidationError names the offending field. It matches ErrValidation with
// errors.Is, so store-side code can keep checking the sentinel.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// LookupError reports that the in-progress trips could not be read.
// It means "could not check", never "no conflicts".
type LookupError struct {
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("in-progress lookup failed: %v", e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// SubmissionError reports that a departure write was rejected or never
// reached the store. Message holds the store's own error text when it sent
// one, and is empty otherwise.
type SubmissionError struct {
	Status  int
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("submission failed (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// ConflictError carries the user-facing reason a write was refused because
// of an open trip. It matches ErrConflict with errors.Is.
type ConflictError struct {
	Message string
	Trip    InProgressTrip
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Message)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
