// Package availability answers whether a room is free over a window. It reads
// confirmed reservations only and never writes.
package availability

import (
	"context"
	"log/slog"
	"slices"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationReader interface {
	FindByRoomAndRange(ctx context.Context, roomID uuid.UUID, window reservation.TimeWindow) ([]*reservation.Reservation, error)
}

type Engine struct {
	reader ReservationReader
	logger *slog.Logger
}

func NewEngine(reader ReservationReader, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{reader: reader, logger: logger}
}

// IsAvailable never fails. A read error answers false so callers cannot
// book against a store they could not consult; the atomic insert stays the
// authority either way.
func (e *Engine) IsAvailable(ctx context.Context, roomID uuid.UUID, window reservation.TimeWindow, exclude *uuid.UUID) bool {
	blocking, err := e.Blocking(ctx, roomID, window, exclude)
	if err != nil {
		e.logger.WarnContext(ctx, "availability check failed, reporting unavailable",
			"room_id", roomID.String(),
			"window", window.String(),
			"error", err.Error())
		return false
	}
	return len(blocking) == 0
}

// Blocking lists the confirmed reservations overlapping window, minus exclude.
func (e *Engine) Blocking(ctx context.Context, roomID uuid.UUID, window reservation.TimeWindow, exclude *uuid.UUID) ([]uuid.UUID, error) {
	existing, err := e.reader.FindByRoomAndRange(ctx, roomID, window)
	if err != nil {
		return nil, err
	}
	return BlockingIDs(window, exclude, existing), nil
}

// FreeSlots returns the gaps inside window not covered by a confirmed reservation.
func (e *Engine) FreeSlots(ctx context.Context, roomID uuid.UUID, window reservation.TimeWindow) ([]reservation.TimeWindow, error) {
	existing, err := e.reader.FindByRoomAndRange(ctx, roomID, window)
	if err != nil {
		return nil, err
	}
	return Gaps(window, existing), nil
}

// BlockingIDs is the pure overlap predicate shared by the engine and the stores.
func BlockingIDs(window reservation.TimeWindow, exclude *uuid.UUID, existing []*reservation.Reservation) []uuid.UUID {
	var ids []uuid.UUID
	for _, r := range existing {
		if !r.IsConfirmed() {
			continue
		}
		if exclude != nil && r.ID() == *exclude {
			continue
		}
		if r.Window().Overlaps(window) {
			ids = append(ids, r.ID())
		}
	}
	return ids
}

// ConflictCheck adapts BlockingIDs for the store, excluding the candidate itself
// so a reschedule never conflicts with its own previous window.
func ConflictCheck() shared.ConflictCheck {
	return func(candidate *reservation.Reservation, overlapping []*reservation.Reservation) []uuid.UUID {
		id := candidate.ID()
		return BlockingIDs(candidate.Window(), &id, overlapping)
	}
}

func Gaps(window reservation.TimeWindow, existing []*reservation.Reservation) []reservation.TimeWindow {
	busy := make([]reservation.TimeWindow, 0, len(existing))
	for _, r := range existing {
		if r.IsConfirmed() && r.Window().Overlaps(window) {
			busy = append(busy, r.Window())
		}
	}
	slices.SortFunc(busy, func(a, b reservation.TimeWindow) int {
		return a.Start().Compare(b.Start())
	})

	var free []reservation.TimeWindow
	cursor := window.Start()
	for _, b := range busy {
		if cursor.Before(b.Start()) {
			if gap, err := reservation.NewQueryWindow(cursor, b.Start()); err == nil {
				free = append(free, gap)
			}
		}
		if b.End().After(cursor) {
			cursor = b.End()
		}
	}
	if cursor.Before(window.End()) {
		if gap, err := reservation.NewQueryWindow(cursor, window.End()); err == nil {
			free = append(free, gap)
		}
	}
	return free
}
