package queries

import (
	"context"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/availability"

	"github.com/google/uuid"
)

type AvailabilityQueries interface {
	Check(ctx context.Context, roomID uuid.UUID, window reservation.TimeWindow, exclude *uuid.UUID) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	engine *availability.Engine
	rooms  RoomReader
}

func NewAvailabilityQueries(engine *availability.Engine, rooms RoomReader) AvailabilityQueries {
	return &availabilityQueriesImpl{engine: engine, rooms: rooms}
}

func (q *availabilityQueriesImpl) Check(ctx context.Context, roomID uuid.UUID, window reservation.TimeWindow, exclude *uuid.UUID) (*AvailabilityView, error) {
	if window.IsZero() {
		return nil, errs.Mark(reservation.ErrInvalidWindow, errs.ErrValidation)
	}
	if window.Duration() > MaxCalendarRange {
		return nil, errs.Mark(errs.New("availability range exceeds 366 days"), errs.ErrValidation)
	}
	if _, err := q.rooms.Get(ctx, roomID); err != nil {
		return nil, markNotFound(err, errs.ErrRoomNotFound)
	}

	view := &AvailabilityView{
		RoomID:    roomID,
		Start:     window.Start(),
		End:       window.End(),
		Available: q.engine.IsAvailable(ctx, roomID, window, exclude),
		FreeSlots: []SlotView{},
	}
	slots, err := q.engine.FreeSlots(ctx, roomID, window)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	for _, s := range slots {
		view.FreeSlots = append(view.FreeSlots, SlotView{Start: s.Start(), End: s.End()})
	}
	return view, nil
}
