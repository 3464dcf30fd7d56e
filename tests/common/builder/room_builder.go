//go:build unit || e2e

package builder

import (
	"time"

	"room-booking/internal/domain/room"
	reqdto "room-booking/internal/handler/dto/request"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type RoomBuilder struct {
	ID        uuid.UUID
	Name      string
	Capacity  int
	Features  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewRoomBuilder() *RoomBuilder {
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	return &RoomBuilder{
		ID:        uuid.New(),
		Name:      "Aurora",
		Capacity:  8,
		Features:  []string{"projector", "whiteboard"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *RoomBuilder) With(mutate func(*RoomBuilder)) *RoomBuilder {
	mutate(r)
	return r
}

func (r *RoomBuilder) WithName(name string) *RoomBuilder {
	r.Name = name
	return r
}

func (r *RoomBuilder) WithCapacity(capacity int) *RoomBuilder {
	r.Capacity = capacity
	return r
}

func (r *RoomBuilder) WithFeatures(features ...string) *RoomBuilder {
	r.Features = features
	return r
}

// Build methods
func (r *RoomBuilder) BuildDomain() (*room.Room, error) {
	return room.NewRoom(r.Name, r.Capacity, r.Features, r.CreatedAt)
}

// BuildReconstructed keeps the builder's id, unlike BuildDomain.
func (r *RoomBuilder) BuildReconstructed() *room.Room {
	return room.ReconstructRoom(r.ID, r.Name, r.Capacity, r.Features, r.CreatedAt, r.UpdatedAt)
}

func (r *RoomBuilder) BuildInfra() sqlc.Rooms {
	return sqlc.Rooms{
		ID:        r.ID,
		Name:      r.Name,
		Capacity:  int32(r.Capacity),
		Features:  r.Features,
		CreatedAt: pgtype.Timestamptz{Time: r.CreatedAt, Valid: true},
		UpdatedAt: pgtype.Timestamptz{Time: r.UpdatedAt, Valid: true},
	}
}

func (r *RoomBuilder) BuildCreateRequestDTO() reqdto.CreateRoomRequest {
	return reqdto.CreateRoomRequest{
		Name:     r.Name,
		Capacity: r.Capacity,
		Features: r.Features,
	}
}

func (r *RoomBuilder) BuildView() *queries.RoomView {
	return &queries.RoomView{
		ID:        r.ID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Features:  r.Features,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
