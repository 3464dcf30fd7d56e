package api

import (
	"net/http"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/handler/httperr"
	"room-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ConflictDetail is the 409 body detail for a scheduling conflict.
type ConflictDetail struct {
	RoomID   uuid.UUID   `json:"room_id"`
	Start    string      `json:"start"`
	End      string      `json:"end"`
	Blocking []uuid.UUID `json:"blocking"`
}

// abortWithUsecaseError maps a marked usecase error to its HTTP status.
func abortWithUsecaseError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, errs.ErrValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Validation failed", validationDetail(err))
	case errs.Is(err, errs.ErrRoomNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Room not found", nil)
	case errs.Is(err, errs.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errs.Is(err, errs.ErrSchedulingConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Room is already booked for that window", conflictDetail(err))
	case errs.Is(err, errs.ErrAlreadyCancelled):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation is already cancelled", nil)
	case errs.Is(err, errs.ErrRoomInUse):
		httperr.AbortWithError(c, http.StatusConflict, err, "Room has upcoming reservations", nil)
	case errs.Is(err, errs.ErrIdempotencyKeyInFlight):
		httperr.AbortWithError(c, http.StatusConflict, err, "A request with this Idempotency-Key is still in progress", nil)
	case errs.Is(err, errs.ErrIdempotencyKeyReused):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Idempotency-Key was already used for a different request", nil)
	case errs.Is(err, errs.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Forbidden", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func conflictDetail(err error) any {
	var conflict *reservation.ConflictError
	if !errs.As(err, &conflict) {
		return nil
	}
	blocking := conflict.Blocking
	if blocking == nil {
		blocking = []uuid.UUID{}
	}
	return ConflictDetail{
		RoomID:   conflict.RoomID,
		Start:    conflict.Window.Start().Format(timeLayout),
		End:      conflict.Window.End().Format(timeLayout),
		Blocking: blocking,
	}
}

// validationDetail exposes the innermost cause, which is always a domain
// sentinel with a user-facing message.
func validationDetail(err error) any {
	for _, sentinel := range validationCauses {
		if errs.Is(err, sentinel) {
			return gin.H{"reason": sentinel.Error()}
		}
	}
	return nil
}

var validationCauses = []error{
	reservation.ErrInvalidWindow,
	reservation.ErrUnalignedWindow,
	reservation.ErrTitleTooLong,
	reservation.ErrStartInPast,
}
