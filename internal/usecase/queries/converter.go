package queries

import (
	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/room"
)

func toRoomView(r *room.Room) *RoomView {
	return &RoomView{
		ID:        r.ID(),
		Name:      r.Name(),
		Capacity:  r.Capacity(),
		Features:  r.Features().Values(),
		CreatedAt: r.CreatedAt(),
		UpdatedAt: r.UpdatedAt(),
	}
}

func toReservationView(r *reservation.Reservation) *ReservationView {
	return &ReservationView{
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

func toReservationViews(rs []*reservation.Reservation) []*ReservationView {
	views := make([]*ReservationView, len(rs))
	for i, r := range rs {
		views[i] = toReservationView(r)
	}
	return views
}
