package response

import (
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID          uuid.UUID  `json:"id"`
	RoomID      uuid.UUID  `json:"roomId"`
	Start       time.Time  `json:"start"`
	End         time.Time  `json:"end"`
	Requester   string     `json:"requester"`
	Title       string     `json:"title,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

func FromReservation(r *reservation.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:          r.ID(),
		RoomID:      r.RoomID(),
		Start:       r.Window().Start(),
		End:         r.Window().End(),
		Requester:   r.Requester(),
		Title:       r.Title().String(),
		Status:      r.Status().String(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
		CancelledAt: r.CancelledAt(),
	}
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:          v.ID,
		RoomID:      v.RoomID,
		Start:       v.Start,
		End:         v.End,
		Requester:   v.Requester,
		Title:       v.Title,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		CancelledAt: v.CancelledAt,
	}
}

func FromReservationViews(vs []*queries.ReservationView) []*ReservationResponse {
	out := make([]*ReservationResponse, len(vs))
	for i, v := range vs {
		out[i] = FromReservationView(v)
	}
	return out
}

type EventResponse struct {
	ID     uuid.UUID `json:"id"`
	RoomID uuid.UUID `json:"roomId"`
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
}

func FromEventViews(vs []*queries.EventView) []*EventResponse {
	out := make([]*EventResponse, len(vs))
	for i, v := range vs {
		out[i] = &EventResponse{
			ID:     v.ID,
			RoomID: v.RoomID,
			Title:  v.Title,
			Start:  v.Start,
			End:    v.End,
			Status: v.Status,
		}
	}
	return out
}
