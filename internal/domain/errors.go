package domain

import "errors"

// Shared validation errors used across entities.
var (
	// ErrValidation is the base error for all entity validation failures.
	// Entity-specific errors wrap it so callers can match broadly with
	// errors.Is(err, ErrValidation).
	ErrValidation = errors.New("validation failed")
)
