package queries

import (
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=../../../tests/mock/queries/queries.go -package=queriesmock room-booking/internal/usecase/queries AvailabilityQueries,CalendarQueries,ReservationQueries,RoomQueries

// Read models (DTO for read side)
type RoomView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Features  []string  `json:"features"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReservationView struct {
	ID          uuid.UUID  `json:"id"`
	RoomID      uuid.UUID  `json:"room_id"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Requester   string     `json:"requester"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// EventView is the calendar projection of a reservation.
type EventView struct {
	ID     uuid.UUID `json:"id"`
	RoomID uuid.UUID `json:"room_id"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
}

type SlotView struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailabilityView struct {
	RoomID    uuid.UUID  `json:"room_id"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
	Available bool       `json:"available"`
	FreeSlots []SlotView `json:"free_slots"`
}
