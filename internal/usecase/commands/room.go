package commands

import (
	"context"
	"log/slog"

	"room-booking/internal/domain/room"
	"room-booking/internal/infra"
	"room-booking/internal/pkg/clock"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateRoomInput struct {
	Name     string
	Capacity int
	Features []string
}

type RoomCommands interface {
	Create(ctx context.Context, input CreateRoomInput) (*room.Room, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type roomCommandsImpl struct {
	rooms   shared.RoomStore
	clock   clock.Clock
	effects sideEffects
}

func NewRoomCommands(rooms shared.RoomStore, cache shared.CalendarCache, clk clock.Clock, logger *slog.Logger) RoomCommands {
	return &roomCommandsImpl{
		rooms: rooms,
		clock: clk,
		effects: sideEffects{
			cache:  cache,
			logger: logger,
		},
	}
}

func (c *roomCommandsImpl) Create(ctx context.Context, input CreateRoomInput) (*room.Room, error) {
	r, err := room.NewRoom(input.Name, input.Capacity, input.Features, c.clock.Now())
	if err != nil {
		return nil, markDomainErr(err)
	}
	if err := c.rooms.Create(ctx, r); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return r, nil
}

func (c *roomCommandsImpl) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.rooms.DeleteIfUnreserved(ctx, id, c.clock.Now())
	switch {
	case err == nil:
		c.effects.invalidate(ctx, id)
		return nil
	case infra.IsKind(err, infra.KindConflict):
		return errs.Mark(err, errs.ErrRoomInUse)
	default:
		return markStoreErr(err, errs.ErrRoomNotFound)
	}
}
