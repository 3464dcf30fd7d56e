package queries

import (
	"context"
	"slices"

	"room-booking/internal/domain/room"
	"room-booking/internal/infra"
	"room-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type RoomReader interface {
	Get(ctx context.Context, id uuid.UUID) (*room.Room, error)
	List(ctx context.Context) ([]*room.Room, error)
}

// RoomFilter narrows List. Zero values match everything.
type RoomFilter struct {
	Feature     string
	MinCapacity int
}

type RoomQueries interface {
	Get(ctx context.Context, id uuid.UUID) (*RoomView, error)
	List(ctx context.Context, filter RoomFilter) ([]*RoomView, error)
}

type roomQueriesImpl struct {
	rooms RoomReader
}

func NewRoomQueries(rooms RoomReader) RoomQueries {
	return &roomQueriesImpl{rooms: rooms}
}

func (q *roomQueriesImpl) Get(ctx context.Context, id uuid.UUID) (*RoomView, error) {
	r, err := q.rooms.Get(ctx, id)
	if err != nil {
		return nil, markNotFound(err, errs.ErrRoomNotFound)
	}
	return toRoomView(r), nil
}

func (q *roomQueriesImpl) List(ctx context.Context, filter RoomFilter) ([]*RoomView, error) {
	rooms, err := q.rooms.List(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	views := make([]*RoomView, 0, len(rooms))
	for _, r := range rooms {
		if filter.MinCapacity > 0 && !r.Fits(filter.MinCapacity) {
			continue
		}
		if filter.Feature != "" && !r.Features().Has(filter.Feature) {
			continue
		}
		views = append(views, toRoomView(r))
	}
	slices.SortFunc(views, func(a, b *RoomView) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareUUID(a.ID, b.ID)
	})
	return views, nil
}

func markNotFound(err error, sentinel error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, sentinel)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

func compareUUID(a, b uuid.UUID) int {
	return slices.Compare(a[:], b[:])
}
