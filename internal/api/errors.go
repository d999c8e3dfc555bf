package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hanbit-app/srs-api/internal/domain"
	"github.com/hanbit-app/srs-api/internal/service"
	"github.com/hanbit-app/srs-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Concurrent modification: the caller should re-read and retry
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrReviewOutcomeMissing),
		errors.Is(err, domain.ErrReviewQualityRange),
		errors.Is(err, domain.ErrReviewNegativeTime),
		errors.Is(err, service.ErrFolderHasCards),
		errors.Is(err, service.ErrFolderHasChildren),
		errors.Is(err, service.ErrFolderDepthExceeded):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrFolderNotFound):
		return "Folder not found"

	case errors.Is(err, store.ErrVocabNotFound):
		return "Vocabulary item not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrConflict):
		return "The card was reviewed concurrently; reload and try again"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, domain.ErrReviewOutcomeMissing):
		return "A quality grade or correct flag is required"

	case errors.Is(err, domain.ErrReviewQualityRange):
		return "Quality grade must be between 0 and 5"

	case errors.Is(err, service.ErrFolderHasCards):
		return "A folder that contains cards cannot have child folders"

	case errors.Is(err, service.ErrFolderHasChildren):
		return "A folder that has child folders cannot hold cards"

	case errors.Is(err, service.ErrFolderDepthExceeded):
		return "Folders can be nested at most three levels deep"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'CreateFolderRequest.Name' Error:Field validation for 'Name' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
