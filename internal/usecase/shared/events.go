package shared

import (
	"time"

	"room-booking/internal/domain/reservation"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventReservationCreated     EventKind = "reservation.created"
	EventReservationCancelled   EventKind = "reservation.cancelled"
	EventReservationRescheduled EventKind = "reservation.rescheduled"
)

type ReservationEvent struct {
	Kind          EventKind `json:"kind"`
	ReservationID uuid.UUID `json:"reservation_id"`
	RoomID        uuid.UUID `json:"room_id"`
	Requester     string    `json:"requester"`
	Actor         string    `json:"actor"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewReservationEvent(kind EventKind, res *reservation.Reservation, actorID string, at time.Time) ReservationEvent {
	return ReservationEvent{
		Kind:          kind,
		ReservationID: res.ID(),
		RoomID:        res.RoomID(),
		Requester:     res.Requester(),
		Actor:         actorID,
		Start:         res.Window().Start(),
		End:           res.Window().End(),
		Status:        res.Status().String(),
		OccurredAt:    at,
	}
}
