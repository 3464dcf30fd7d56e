package response

import (
	"time"

	"room-booking/internal/domain/room"
	"room-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type RoomResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Features  []string  `json:"features"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromRoom(r *room.Room) *RoomResponse {
	return &RoomResponse{
		ID:        r.ID(),
		Name:      r.Name(),
		Capacity:  r.Capacity(),
		Features:  r.Features().Values(),
		CreatedAt: r.CreatedAt(),
		UpdatedAt: r.UpdatedAt(),
	}
}

func FromRoomView(v *queries.RoomView) *RoomResponse {
	features := v.Features
	if features == nil {
		features = []string{}
	}
	return &RoomResponse{
		ID:        v.ID,
		Name:      v.Name,
		Capacity:  v.Capacity,
		Features:  features,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func FromRoomViews(vs []*queries.RoomView) []*RoomResponse {
	out := make([]*RoomResponse, len(vs))
	for i, v := range vs {
		out[i] = FromRoomView(v)
	}
	return out
}

type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailabilityResponse struct {
	RoomID    uuid.UUID      `json:"roomId"`
	Start     time.Time      `json:"start"`
	End       time.Time      `json:"end"`
	Available bool           `json:"available"`
	FreeSlots []SlotResponse `json:"freeSlots"`
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	slots := make([]SlotResponse, len(v.FreeSlots))
	for i, s := range v.FreeSlots {
		slots[i] = SlotResponse{Start: s.Start, End: s.End}
	}
	return &AvailabilityResponse{
		RoomID:    v.RoomID,
		Start:     v.Start,
		End:       v.End,
		Available: v.Available,
		FreeSlots: slots,
	}
}
