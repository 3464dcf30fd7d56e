package errs

import "errors"

// Domain-specific sentinel errors for CQRS usecase layers
var (
	// Validation errors
	ErrValidation = errors.New("validation error")

	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomInUse    = errors.New("room has upcoming reservations")

	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSchedulingConflict  = errors.New("scheduling conflict")
	ErrAlreadyCancelled    = errors.New("reservation already cancelled")

	// Idempotency errors
	ErrIdempotencyKeyInFlight = errors.New("a request with this idempotency key is in progress")
	ErrIdempotencyKeyReused   = errors.New("idempotency key was used for a different request")

	// Access errors
	ErrForbidden = errors.New("forbidden")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
