package queries

import (
	"context"

	"room-booking/internal/domain/actor"
	"room-booking/internal/domain/reservation"
	"room-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type ReservationReader interface {
	Get(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindByRoomAndRange(ctx context.Context, roomID uuid.UUID, window reservation.TimeWindow) ([]*reservation.Reservation, error)
	FindInRange(ctx context.Context, window reservation.TimeWindow) ([]*reservation.Reservation, error)
	FindByRequester(ctx context.Context, requester string, window reservation.TimeWindow) ([]*reservation.Reservation, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, by actor.Actor) (*ReservationView, error)
	ListMine(ctx context.Context, by actor.Actor, window reservation.TimeWindow) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	reservations ReservationReader
}

func NewReservationQueries(reservations ReservationReader) ReservationQueries {
	return &reservationQueriesImpl{reservations: reservations}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, by actor.Actor) (*ReservationView, error) {
	res, err := q.reservations.Get(ctx, id)
	if err != nil {
		return nil, markNotFound(err, errs.ErrReservationNotFound)
	}
	if !by.CanManage(res.Requester()) {
		return nil, errs.Mark(errs.New("reservation belongs to another requester"), errs.ErrForbidden)
	}
	return toReservationView(res), nil
}

func (q *reservationQueriesImpl) ListMine(ctx context.Context, by actor.Actor, window reservation.TimeWindow) ([]*ReservationView, error) {
	rs, err := q.reservations.FindByRequester(ctx, by.ID(), window)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return toReservationViews(rs), nil
}
