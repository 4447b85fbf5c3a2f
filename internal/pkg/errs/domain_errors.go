package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")

	// Code generation errors
	ErrCodeGenerationExhausted = errors.New("unable to generate a unique reservation code")

	// Persistence errors
	ErrPersistenceFailed = errors.New("unable to persist reservation and outbox events")

	// Validation errors
	ErrValidation = errors.New("validation error")
)
