package queries

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/room"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// MaxCalendarRange bounds a single calendar request.
const MaxCalendarRange = 366 * 24 * time.Hour

const defaultEventTitle = "Reservation"

type EventsFilter struct {
	// RoomID nil means every room.
	RoomID           *uuid.UUID
	Window           reservation.TimeWindow
	IncludeCancelled bool
}

type CalendarQueries interface {
	EventsFor(ctx context.Context, filter EventsFilter) ([]*EventView, error)
}

type calendarQueriesImpl struct {
	reservations ReservationReader
	rooms        RoomReader
	cache        shared.CalendarCache
	logger       *slog.Logger
}

func NewCalendarQueries(reservations ReservationReader, rooms RoomReader, cache shared.CalendarCache, logger *slog.Logger) CalendarQueries {
	return &calendarQueriesImpl{
		reservations: reservations,
		rooms:        rooms,
		cache:        cache,
		logger:       logger,
	}
}

func (q *calendarQueriesImpl) EventsFor(ctx context.Context, filter EventsFilter) ([]*EventView, error) {
	if filter.Window.IsZero() {
		return nil, errs.Mark(reservation.ErrInvalidWindow, errs.ErrValidation)
	}
	if filter.Window.Duration() > MaxCalendarRange {
		return nil, errs.Mark(errs.New("calendar range exceeds 366 days"), errs.ErrValidation)
	}

	if filter.RoomID != nil {
		return q.eventsForRoom(ctx, *filter.RoomID, filter)
	}
	return q.eventsForAllRooms(ctx, filter)
}

func (q *calendarQueriesImpl) eventsForRoom(ctx context.Context, roomID uuid.UUID, filter EventsFilter) ([]*EventView, error) {
	rm, err := q.rooms.Get(ctx, roomID)
	if err != nil {
		return nil, markNotFound(err, errs.ErrRoomNotFound)
	}

	key := cacheKey(filter)
	if events, ok := q.fromCache(ctx, roomID, key); ok {
		return events, nil
	}

	rs, err := q.reservations.FindByRoomAndRange(ctx, roomID, filter.Window)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	events := project(rs, map[uuid.UUID]string{rm.ID(): rm.Name()}, filter.IncludeCancelled)
	q.toCache(ctx, roomID, key, events)
	return events, nil
}

func (q *calendarQueriesImpl) eventsForAllRooms(ctx context.Context, filter EventsFilter) ([]*EventView, error) {
	rs, err := q.reservations.FindInRange(ctx, filter.Window)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	rooms, err := q.rooms.List(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return project(rs, roomNames(rooms), filter.IncludeCancelled), nil
}

func (q *calendarQueriesImpl) fromCache(ctx context.Context, roomID uuid.UUID, key string) ([]*EventView, bool) {
	payload, ok, err := q.cache.Get(ctx, roomID, key)
	if err != nil {
		q.logger.WarnContext(ctx, "calendar cache read failed", "room_id", roomID.String(), "error", err.Error())
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var events []*EventView
	if err := json.Unmarshal(payload, &events); err != nil {
		q.logger.WarnContext(ctx, "calendar cache entry unreadable", "room_id", roomID.String(), "error", err.Error())
		return nil, false
	}
	return events, true
}

func (q *calendarQueriesImpl) toCache(ctx context.Context, roomID uuid.UUID, key string, events []*EventView) {
	payload, err := json.Marshal(events)
	if err != nil {
		return
	}
	if err := q.cache.Set(ctx, roomID, key, payload); err != nil {
		q.logger.WarnContext(ctx, "calendar cache write failed", "room_id", roomID.String(), "error", err.Error())
	}
}

// cacheKey keeps full precision so windows differing below a second never share an entry.
func cacheKey(filter EventsFilter) string {
	return strconv.FormatInt(filter.Window.Start().UnixNano(), 10) + ":" +
		strconv.FormatInt(filter.Window.End().UnixNano(), 10) + ":" +
		strconv.FormatBool(filter.IncludeCancelled)
}

func roomNames(rooms []*room.Room) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(rooms))
	for _, r := range rooms {
		names[r.ID()] = r.Name()
	}
	return names
}

// project keeps the reservation title when present and falls back to the room name.
func project(rs []*reservation.Reservation, names map[uuid.UUID]string, includeCancelled bool) []*EventView {
	events := make([]*EventView, 0, len(rs))
	for _, r := range rs {
		if r.IsCancelled() && !includeCancelled {
			continue
		}
		title := r.Title().String()
		if title == "" {
			title = names[r.RoomID()]
		}
		if title == "" {
			title = defaultEventTitle
		}
		events = append(events, &EventView{
			ID:     r.ID(),
			RoomID: r.RoomID(),
			Title:  title,
			Start:  r.Window().Start(),
			End:    r.Window().End(),
			Status: r.Status().String(),
		})
	}
	slices.SortFunc(events, func(a, b *EventView) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		if c := compareUUID(a.RoomID, b.RoomID); c != 0 {
			return c
		}
		return compareUUID(a.ID, b.ID)
	})
	return events
}
