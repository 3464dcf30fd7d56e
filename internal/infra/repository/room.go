package repository

import (
	"context"
	"time"

	"room-booking/internal/domain/room"
	"room-booking/internal/infra"
	"room-booking/internal/infra/repository/converter"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/pkg/pgconv"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type RoomQueries interface {
	CreateRoom(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateRoomParams) (sqlc.Rooms, error)
	GetRoomByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Rooms, error)
	ListRooms(ctx context.Context, db sqlc.DBTX) ([]sqlc.Rooms, error)
	LockRoomForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (uuid.UUID, error)
	CountUpcomingReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.CountUpcomingReservationsParams) (int64, error)
	SoftDeleteRoom(ctx context.Context, db sqlc.DBTX, arg sqlc.SoftDeleteRoomParams) (int64, error)
}

type RoomRepository struct {
	queries RoomQueries
	tx      TxRunner
}

func NewRoomRepository(queries RoomQueries, tx TxRunner) *RoomRepository {
	return &RoomRepository{
		queries: queries,
		tx:      tx,
	}
}

var _ shared.RoomStore = (*RoomRepository)(nil)

func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	return r.tx.WithDB(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		if _, err := r.queries.CreateRoom(ctx, db, converter.RoomToCreateParams(rm)); err != nil {
			return infra.WrapRepoErr("failed to create room", err)
		}
		return nil
	})
}

func (r *RoomRepository) Get(ctx context.Context, id uuid.UUID) (*room.Room, error) {
	var rm *room.Room
	err := r.tx.WithDB(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		row, err := r.queries.GetRoomByID(ctx, db, id)
		if err != nil {
			return infra.WrapRepoErr("failed to get room", err)
		}
		rm = converter.ToRoom(row)
		return nil
	})
	return rm, err
}

func (r *RoomRepository) List(ctx context.Context) ([]*room.Room, error) {
	var rooms []*room.Room
	err := r.tx.WithDB(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		rows, err := r.queries.ListRooms(ctx, db)
		if err != nil {
			return infra.WrapRepoErr("failed to list rooms", err)
		}
		rooms = converter.ToRooms(rows)
		return nil
	})
	return rooms, err
}

// DeleteIfUnreserved takes the same room lock as reservation writes, so a
// booking cannot slip in between the count and the delete.
func (r *RoomRepository) DeleteIfUnreserved(ctx context.Context, id uuid.UUID, now time.Time) error {
	return r.tx.Within(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		if _, err := r.queries.LockRoomForUpdate(ctx, db, id); err != nil {
			return infra.WrapRepoErr("failed to lock room", err)
		}

		upcoming, err := r.queries.CountUpcomingReservations(ctx, db, sqlc.CountUpcomingReservationsParams{
			RoomID:   id,
			FromTime: pgconv.TimeToPgtype(now),
		})
		if err != nil {
			return infra.WrapRepoErr("failed to count upcoming reservations", err)
		}
		if upcoming > 0 {
			return infra.NewRepoErr(infra.KindConflict, "room has upcoming confirmed reservations")
		}

		n, err := r.queries.SoftDeleteRoom(ctx, db, sqlc.SoftDeleteRoomParams{
			ID:        id,
			DeletedAt: pgconv.TimeToPgtype(now),
		})
		if err != nil {
			return infra.WrapRepoErr("failed to delete room", err)
		}
		if n == 0 {
			return infra.NewRepoErr(infra.KindNotFound, "room not found")
		}
		return nil
	})
}
