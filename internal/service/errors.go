package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to
// HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrFolderNotRestartable indicates a restart was requested for a folder
	// that has no finished cycle to restart. Restart is idempotent for
	// callers that race; this sentinel is informational, not a failure of
	// state.
	ErrFolderNotRestartable = errors.New("folder has no completed cycle to restart")

	// ErrFolderHasCards indicates a child folder was requested under a
	// folder that already holds cards. A folder holds cards or child
	// folders, never both.
	ErrFolderHasCards = errors.New("folder already contains cards")

	// ErrFolderHasChildren indicates cards were added to a folder that
	// already has child folders.
	ErrFolderHasChildren = errors.New("folder already contains child folders")

	// ErrFolderDepthExceeded indicates a folder would sit deeper than the
	// three-level hierarchy allows.
	ErrFolderDepthExceeded = errors.New("folder hierarchy is limited to three levels")
)

// ServiceError is the error type wrapping unexpected failures in any
// scheduler service. Operation names the use case that failed.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
