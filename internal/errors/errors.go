// Package errors provides custom error types for the Citizen Hub application.
//
// This package defines domain-specific errors that let callers decide how a
// failure is surfaced. Validation and not-found errors are user-facing
// warnings; storage and notification errors are operational failures.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ValidationError indicates that a submission is missing required input.
//
// This error is returned when:
//   - The submitter name is empty or whitespace
//   - The complaint description is empty or whitespace
//
// Surfacing: shown to the citizen as a warning, no record is created.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error for a field
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// NotFoundError indicates that no complaint matches the requested identifier.
//
// This error is returned when:
//   - The identifier is not present in the store
//   - The identifier text is not a valid integer
//
// Both cases are reported identically to the caller.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("complaint not found: %s", e.ID)
}

// NewNotFoundError creates a new not found error for the raw identifier
func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{ID: id}
}

// StorageError wraps failures of the complaint store or the upload side-channel.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage error: %s", e.Op)
}

// Unwrap returns the wrapped error for error chain inspection
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new storage error with context
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// NotificationError wraps Telegram delivery failures.
//
// Recovery strategy: log and continue. A failed notification never fails
// the complaint operation that triggered it.
type NotificationError struct {
	Message string
	Err     error
}

func (e *NotificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notification error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("notification error: %s", e.Message)
}

// Unwrap returns the wrapped error for error chain inspection
func (e *NotificationError) Unwrap() error {
	return e.Err
}

// NewNotificationError creates a new notification error with context
func NewNotificationError(msg string, err error) *NotificationError {
	return &NotificationError{Message: msg, Err: err}
}

// IsValidation checks if the error chain contains a ValidationError
func IsValidation(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

// IsNotFound checks if the error chain contains a NotFoundError
func IsNotFound(err error) bool {
	var target *NotFoundError
	return stderrors.As(err, &target)
}

// IsStorage checks if the error chain contains a StorageError
func IsStorage(err error) bool {
	var target *StorageError
	return stderrors.As(err, &target)
}

// AsValidation returns the ValidationError in the chain, if any
func AsValidation(err error) (*ValidationError, bool) {
	var target *ValidationError
	ok := stderrors.As(err, &target)
	return target, ok
}
