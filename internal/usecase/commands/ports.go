package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"room-booking/internal/domain/actor"
	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/room"
	"room-booking/internal/infra"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Policy carries the tunable rules of the write side.
type Policy struct {
	AllowAdminBackfill bool
	// IdempotencyTTL is how long a create request's Idempotency-Key is remembered.
	IdempotencyTTL time.Duration
}

var validationErrors = []error{
	reservation.ErrInvalidWindow,
	reservation.ErrUnalignedWindow,
	reservation.ErrTitleTooLong,
	reservation.ErrStartInPast,
	reservation.ErrEmptyRequester,
	reservation.ErrRequesterTooLong,
	room.ErrEmptyRoomName,
	room.ErrRoomNameTooLong,
	room.ErrInvalidCapacity,
	room.ErrCapacityTooHigh,
	room.ErrFeatureTooLong,
	room.ErrTooManyFeatures,
	actor.ErrEmptyActorID,
	actor.ErrActorIDTooLong,
	actor.ErrInvalidRole,
}

// markDomainErr tags domain errors with the matching usecase sentinel.
func markDomainErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, reservation.ErrAlreadyCancelled) {
		return errs.Mark(err, errs.ErrAlreadyCancelled)
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return errs.Mark(err, errs.ErrValidation)
		}
	}
	return err
}

// markStoreErr tags store errors. notFound is the sentinel for a missing row.
func markStoreErr(err error, notFound error) error {
	if err == nil {
		return nil
	}
	var conflict *reservation.ConflictError
	switch {
	case errors.As(err, &conflict):
		return errs.Mark(err, errs.ErrSchedulingConflict)
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, notFound)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}

// sideEffects runs the best-effort work that follows a committed write.
// Neither step can fail the request.
type sideEffects struct {
	cache     shared.CalendarCache
	publisher shared.EventPublisher
	logger    *slog.Logger
}

func (s sideEffects) invalidate(ctx context.Context, roomID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, roomID); err != nil {
		s.logger.WarnContext(ctx, "calendar cache invalidation failed",
			"room_id", roomID.String(),
			"error", err.Error())
	}
}

func (s sideEffects) reservationChanged(ctx context.Context, kind shared.EventKind, res *reservation.Reservation, actorID string, at time.Time) {
	s.invalidate(ctx, res.RoomID())

	event := shared.NewReservationEvent(kind, res, actorID, at)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "reservation event publish failed",
			"kind", string(kind),
			"reservation_id", res.ID().String(),
			"error", err.Error())
	}
}
