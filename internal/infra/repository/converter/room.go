package converter

import (
	"room-booking/internal/domain/room"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/pkg/pgconv"
)

func RoomToCreateParams(r *room.Room) sqlc.CreateRoomParams {
	return sqlc.CreateRoomParams{
		ID:        r.ID(),
		Name:      r.Name(),
		// #nosec G115 -- capacity is bounded by room.MaxCapacity
		Capacity:  int32(r.Capacity()),
		Features:  r.Features().Values(),
		CreatedAt: pgconv.TimeToPgtype(r.CreatedAt()),
		UpdatedAt: pgconv.TimeToPgtype(r.UpdatedAt()),
	}
}

func ToRoom(row sqlc.Rooms) *room.Room {
	features := row.Features
	if features == nil {
		features = []string{}
	}
	return room.ReconstructRoom(
		row.ID,
		row.Name,
		int(row.Capacity),
		features,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	)
}

func ToRooms(rows []sqlc.Rooms) []*room.Room {
	out := make([]*room.Room, len(rows))
	for i, row := range rows {
		out[i] = ToRoom(row)
	}
	return out
}
