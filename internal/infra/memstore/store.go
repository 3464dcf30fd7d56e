// Package memstore keeps rooms and reservations in process memory. It is
// atomic within one process only and must not back a multi-instance deployment.
package memstore

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/room"
	"room-booking/internal/infra"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Store holds rooms and reservations behind one lock so the room deletion
// guard and reservation writes serialize against each other. Rooms and
// Bookings expose the two port views.
type Store struct {
	mu           sync.RWMutex
	rooms        map[uuid.UUID]*room.Room
	reservations map[uuid.UUID]*reservation.Reservation
	// byRoom holds each room's reservations sorted by start, then id.
	byRoom      map[uuid.UUID][]*reservation.Reservation
	idempotency map[idempotencyKey]shared.IdempotencyRecord
	logger      *slog.Logger
}

type RoomStore struct{ s *Store }

type BookingStore struct{ s *Store }

type IdempotencyStore struct{ s *Store }

type idempotencyKey struct {
	key       uuid.UUID
	requester string
}

var (
	_ shared.BookingStore     = (*BookingStore)(nil)
	_ shared.RoomStore        = (*RoomStore)(nil)
	_ shared.IdempotencyStore = (*IdempotencyStore)(nil)
)

func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		rooms:        make(map[uuid.UUID]*room.Room),
		reservations: make(map[uuid.UUID]*reservation.Reservation),
		byRoom:       make(map[uuid.UUID][]*reservation.Reservation),
		idempotency:  make(map[idempotencyKey]shared.IdempotencyRecord),
		logger:       logger,
	}
}

func (s *Store) Rooms() *RoomStore {
	return &RoomStore{s: s}
}

func (s *Store) Bookings() *BookingStore {
	return &BookingStore{s: s}
}

func (s *Store) Idempotency() *IdempotencyStore {
	return &IdempotencyStore{s: s}
}

// ---- RoomStore ----

func (v *RoomStore) Create(_ context.Context, r *room.Room) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[r.ID()]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "room already exists")
	}
	s.rooms[r.ID()] = r
	s.logger.Debug("room stored", "room_id", r.ID().String())
	return nil
}

func (v *RoomStore) Get(_ context.Context, id uuid.UUID) (*room.Room, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "room not found")
	}
	return r, nil
}

func (v *RoomStore) List(_ context.Context) ([]*room.Room, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]*room.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	slices.SortFunc(rooms, func(a, b *room.Room) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return compareIDs(a.ID(), b.ID())
	})
	return rooms, nil
}

// DeleteIfUnreserved forgets the room but keeps its reservation history.
func (v *RoomStore) DeleteIfUnreserved(_ context.Context, id uuid.UUID, now time.Time) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "room not found")
	}
	for _, res := range s.byRoom[id] {
		if res.IsUpcoming(now) {
			return infra.NewRepoErr(infra.KindConflict, "room has upcoming confirmed reservations")
		}
	}
	delete(s.rooms, id)
	return nil
}

// ---- BookingStore ----

func (v *BookingStore) InsertIfAvailable(_ context.Context, res *reservation.Reservation, check shared.ConflictCheck) (*reservation.Reservation, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[res.RoomID()]; !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "room not found")
	}
	if _, ok := s.reservations[res.ID()]; ok {
		return nil, infra.NewRepoErr(infra.KindDuplicateKey, "reservation already exists")
	}
	if blocking := check(res, s.overlappingLocked(res.RoomID(), res.Window())); len(blocking) > 0 {
		return nil, reservation.NewConflictError(res.RoomID(), res.Window(), blocking)
	}

	stored := res.Clone()
	s.reservations[stored.ID()] = stored
	s.indexLocked(stored)
	return stored.Clone(), nil
}

func (v *BookingStore) UpdateIfAvailable(_ context.Context, res *reservation.Reservation, check shared.ConflictCheck) (*reservation.Reservation, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.confirmedLocked(res.ID())
	if err != nil {
		return nil, err
	}
	if _, ok := s.rooms[res.RoomID()]; !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "room not found")
	}
	if blocking := check(res, s.overlappingLocked(res.RoomID(), res.Window())); len(blocking) > 0 {
		return nil, reservation.NewConflictError(res.RoomID(), res.Window(), blocking)
	}

	s.replaceLocked(current, res.Clone())
	return res.Clone(), nil
}

func (v *BookingStore) Update(_ context.Context, res *reservation.Reservation) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.confirmedLocked(res.ID())
	if err != nil {
		return err
	}
	if res.IsConfirmed() && !current.Window().Equal(res.Window()) {
		return infra.NewRepoErr(infra.KindDBFailure, "window changes must go through UpdateIfAvailable")
	}
	s.replaceLocked(current, res.Clone())
	return nil
}

func (v *BookingStore) Get(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.reservations[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return res.Clone(), nil
}

func (v *BookingStore) FindByRoomAndRange(_ context.Context, roomID uuid.UUID, window reservation.TimeWindow) ([]*reservation.Reservation, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.overlappingLocked(roomID, window)), nil
}

func (v *BookingStore) FindInRange(_ context.Context, window reservation.TimeWindow) ([]*reservation.Reservation, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*reservation.Reservation
	for roomID := range s.byRoom {
		out = append(out, s.overlappingLocked(roomID, window)...)
	}
	sortReservations(out)
	return cloneAll(out), nil
}

func (v *BookingStore) FindByRequester(_ context.Context, requester string, window reservation.TimeWindow) ([]*reservation.Reservation, error) {
	s := v.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*reservation.Reservation
	for _, res := range s.reservations {
		if res.Requester() == requester && res.Window().Overlaps(window) {
			out = append(out, res)
		}
	}
	sortReservations(out)
	return cloneAll(out), nil
}

// ---- IdempotencyStore ----

func (v *IdempotencyStore) Claim(_ context.Context, rec shared.IdempotencyRecord, now time.Time) (*shared.IdempotencyRecord, bool, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idempotencyKey{key: rec.Key, requester: rec.Requester}
	if held, ok := s.idempotency[k]; ok && held.ExpiresAt.After(now) {
		return &held, false, nil
	}
	rec.Status = shared.IdempotencyProcessing
	rec.ReservationID = nil
	s.idempotency[k] = rec
	return nil, true, nil
}

func (v *IdempotencyStore) Complete(_ context.Context, key uuid.UUID, requester string, reservationID uuid.UUID) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idempotencyKey{key: key, requester: requester}
	rec, ok := s.idempotency[k]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "idempotency key not found")
	}
	rec.Status = shared.IdempotencyCompleted
	rec.ReservationID = &reservationID
	s.idempotency[k] = rec
	return nil
}

func (v *IdempotencyStore) Release(_ context.Context, key uuid.UUID, requester string) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()

	k := idempotencyKey{key: key, requester: requester}
	if rec, ok := s.idempotency[k]; ok && rec.Status == shared.IdempotencyProcessing {
		delete(s.idempotency, k)
	}
	return nil
}

func (s *Store) confirmedLocked(id uuid.UUID) (*reservation.Reservation, error) {
	current, ok := s.reservations[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	if current.IsCancelled() {
		return nil, infra.NewRepoErr(infra.KindConflict, "reservation already cancelled")
	}
	return current, nil
}

// overlappingLocked returns every reservation of the room, in any status,
// whose window overlaps window. Callers hold s.mu.
func (s *Store) overlappingLocked(roomID uuid.UUID, window reservation.TimeWindow) []*reservation.Reservation {
	list := s.byRoom[roomID]
	// Entries at or after idx start no earlier than window.End and cannot overlap.
	idx, _ := slices.BinarySearchFunc(list, window.End(), func(r *reservation.Reservation, t time.Time) int {
		return r.Window().Start().Compare(t)
	})
	var out []*reservation.Reservation
	for _, r := range list[:idx] {
		if r.Window().End().After(window.Start()) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) indexLocked(res *reservation.Reservation) {
	list := append(s.byRoom[res.RoomID()], res)
	sortReservations(list)
	s.byRoom[res.RoomID()] = list
}

func (s *Store) replaceLocked(old, updated *reservation.Reservation) {
	list := s.byRoom[old.RoomID()]
	list = slices.DeleteFunc(list, func(r *reservation.Reservation) bool { return r.ID() == old.ID() })
	s.byRoom[old.RoomID()] = list
	s.reservations[updated.ID()] = updated
	s.indexLocked(updated)
}

func sortReservations(list []*reservation.Reservation) {
	slices.SortFunc(list, func(a, b *reservation.Reservation) int {
		if c := a.Window().Start().Compare(b.Window().Start()); c != 0 {
			return c
		}
		return compareIDs(a.ID(), b.ID())
	})
}

func cloneAll(list []*reservation.Reservation) []*reservation.Reservation {
	out := make([]*reservation.Reservation, len(list))
	for i, r := range list {
		out[i] = r.Clone()
	}
	return out
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
