package shared

import (
	"context"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/room"

	"github.com/google/uuid"
)

// ConflictCheck runs inside the store's atomic scope. It receives the
// confirmed reservations of the candidate's room that overlap its window and
// returns the ids that block it; an empty result admits the write.
type ConflictCheck func(candidate *reservation.Reservation, overlapping []*reservation.Reservation) []uuid.UUID

// BookingStore persists reservations. InsertIfAvailable and UpdateIfAvailable
// must be atomic with respect to the per-room non-overlap invariant, across
// every process sharing the store.
type BookingStore interface {
	InsertIfAvailable(ctx context.Context, res *reservation.Reservation, check ConflictCheck) (*reservation.Reservation, error)
	UpdateIfAvailable(ctx context.Context, res *reservation.Reservation, check ConflictCheck) (*reservation.Reservation, error)
	// Update writes a change that cannot affect the invariant (cancellation).
	Update(ctx context.Context, res *reservation.Reservation) error
	Get(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	FindByRoomAndRange(ctx context.Context, roomID uuid.UUID, window reservation.TimeWindow) ([]*reservation.Reservation, error)
	FindInRange(ctx context.Context, window reservation.TimeWindow) ([]*reservation.Reservation, error)
	FindByRequester(ctx context.Context, requester string, window reservation.TimeWindow) ([]*reservation.Reservation, error)
}

type RoomStore interface {
	Create(ctx context.Context, r *room.Room) error
	Get(ctx context.Context, id uuid.UUID) (*room.Room, error)
	List(ctx context.Context) ([]*room.Room, error)
	// DeleteIfUnreserved removes the room unless a confirmed reservation starts at or after now.
	DeleteIfUnreserved(ctx context.Context, id uuid.UUID, now time.Time) error
}

// CalendarCache stores serialized calendar projections per room.
type CalendarCache interface {
	Get(ctx context.Context, roomID uuid.UUID, key string) ([]byte, bool, error)
	Set(ctx context.Context, roomID uuid.UUID, key string, payload []byte) error
	Invalidate(ctx context.Context, roomID uuid.UUID) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event ReservationEvent) error
}

type IdempotencyStatus string

const (
	IdempotencyProcessing IdempotencyStatus = "processing"
	IdempotencyCompleted  IdempotencyStatus = "completed"
)

// IdempotencyRecord remembers one create request per (Key, Requester).
type IdempotencyRecord struct {
	Key           uuid.UUID
	Requester     string
	RequestHash   string
	Status        IdempotencyStatus
	ReservationID *uuid.UUID
	ExpiresAt     time.Time
}

type IdempotencyStore interface {
	// Claim inserts rec as processing. When an unexpired record already holds
	// the key it is returned with claimed == false; an expired one is replaced.
	Claim(ctx context.Context, rec IdempotencyRecord, now time.Time) (existing *IdempotencyRecord, claimed bool, err error)
	Complete(ctx context.Context, key uuid.UUID, requester string, reservationID uuid.UUID) error
	// Release drops a processing claim so the key can be retried.
	Release(ctx context.Context, key uuid.UUID, requester string) error
}
