package request

import (
	"time"

	"room-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	RoomID   uuid.UUID `json:"room_id" binding:"required"`
	Start    time.Time `json:"start" binding:"required"`
	End      time.Time `json:"end" binding:"required"`
	Title    string    `json:"title" binding:"max=255"`
	Backfill bool      `json:"backfill"`
}

func (r CreateReservationRequest) ToInput() commands.CreateReservationInput {
	return commands.CreateReservationInput{
		RoomID:   r.RoomID,
		Start:    r.Start,
		End:      r.End,
		Title:    r.Title,
		Backfill: r.Backfill,
	}
}

type RescheduleReservationRequest struct {
	Start    time.Time `json:"start" binding:"required"`
	End      time.Time `json:"end" binding:"required"`
	Backfill bool      `json:"backfill"`
}

func (r RescheduleReservationRequest) ToInput() commands.RescheduleInput {
	return commands.RescheduleInput{
		Start:    r.Start,
		End:      r.End,
		Backfill: r.Backfill,
	}
}

// RangeQuery binds the start/end query parameters shared by read endpoints.
type RangeQuery struct {
	Start time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	End   time.Time `form:"end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

type AvailabilityQuery struct {
	RangeQuery
	Exclude string `form:"exclude"`
}

type CalendarQuery struct {
	RangeQuery
	RoomID           string `form:"room_id"`
	IncludeCancelled bool   `form:"include_cancelled"`
}
