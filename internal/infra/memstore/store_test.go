//go:build unit

package memstore_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/infra"
	"room-booking/internal/infra/memstore"
	"room-booking/internal/usecase/availability"
	"room-booking/internal/usecase/shared"
	"room-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memstore.Store
	roomID uuid.UUID
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.NewStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := builder.NewRoomBuilder().BuildReconstructed()
	s.Require().NoError(s.store.Rooms().Create(s.ctx, r))
	s.roomID = r.ID()
}

func (s *StoreTestSuite) at(minutes int) time.Time {
	return builder.DefaultNow.Add(time.Duration(minutes) * time.Minute)
}

func (s *StoreTestSuite) window(startMin, endMin int) reservation.TimeWindow {
	w, err := reservation.NewTimeWindow(s.at(startMin), s.at(endMin))
	s.Require().NoError(err)
	return w
}

func (s *StoreTestSuite) insert(startMin, endMin int) (*reservation.Reservation, error) {
	res := builder.NewReservationBuilder().WithRoom(s.roomID).WithWindow(s.at(startMin), s.at(endMin)).BuildReconstructed()
	return s.store.Bookings().InsertIfAvailable(s.ctx, res, availability.ConflictCheck())
}

func (s *StoreTestSuite) TestInsertIfAvailable() {
	first, err := s.insert(60, 120)
	s.Require().NoError(err)

	s.Run("adjacent windows are accepted", func() {
		_, err := s.insert(120, 180)
		s.NoError(err)
		_, err = s.insert(0, 60)
		s.NoError(err)
	})

	s.Run("overlap is rejected with the blocking ids", func() {
		_, err := s.insert(90, 150)
		var conflict *reservation.ConflictError
		s.Require().True(errors.As(err, &conflict))
		s.Contains(conflict.Blocking, first.ID())
		s.True(errors.Is(err, reservation.ErrSchedulingConflict))
	})

	s.Run("unknown room", func() {
		res := builder.NewReservationBuilder().BuildReconstructed()
		_, err := s.store.Bookings().InsertIfAvailable(s.ctx, res, availability.ConflictCheck())
		s.True(infra.IsKind(err, infra.KindNotFound))
	})

	s.Run("duplicate id", func() {
		dup := builder.NewReservationBuilder().WithRoom(s.roomID).With(func(b *builder.ReservationBuilder) {
			b.ID = first.ID()
			b.Start, b.End = s.at(600), s.at(660)
		}).BuildReconstructed()
		_, err := s.store.Bookings().InsertIfAvailable(s.ctx, dup, availability.ConflictCheck())
		s.True(infra.IsKind(err, infra.KindDuplicateKey))
	})
}

func (s *StoreTestSuite) TestCancelledReservationsFreeTheWindow() {
	res, err := s.insert(60, 120)
	s.Require().NoError(err)

	s.Require().NoError(res.Cancel(s.at(0)))
	s.Require().NoError(s.store.Bookings().Update(s.ctx, res))

	_, err = s.insert(60, 120)
	s.NoError(err)

	s.Run("second cancel is a conflict", func() {
		err := s.store.Bookings().Update(s.ctx, res)
		s.True(infra.IsKind(err, infra.KindConflict))
	})

	s.Run("history keeps the cancelled row", func() {
		w, err := reservation.NewQueryWindow(s.at(0), s.at(600))
		s.Require().NoError(err)
		all, err := s.store.Bookings().FindByRoomAndRange(s.ctx, s.roomID, w)
		s.Require().NoError(err)
		s.Len(all, 2)
	})
}

func (s *StoreTestSuite) TestUpdateIfAvailable() {
	a, err := s.insert(60, 120)
	s.Require().NoError(err)
	b, err := s.insert(120, 180)
	s.Require().NoError(err)

	s.Run("moving onto a neighbour conflicts", func() {
		moved := a.Clone()
		s.Require().NoError(moved.Reschedule(s.window(90, 150), s.at(0), false))
		_, err := s.store.Bookings().UpdateIfAvailable(s.ctx, moved, availability.ConflictCheck())
		var conflict *reservation.ConflictError
		s.Require().True(errors.As(err, &conflict))
		s.Equal([]uuid.UUID{b.ID()}, conflict.Blocking)
	})

	s.Run("overlapping its own old window is fine", func() {
		moved := a.Clone()
		s.Require().NoError(moved.Reschedule(s.window(30, 90), s.at(0), false))
		saved, err := s.store.Bookings().UpdateIfAvailable(s.ctx, moved, availability.ConflictCheck())
		s.Require().NoError(err)
		s.Equal(s.at(30), saved.Window().Start())

		got, err := s.store.Bookings().Get(s.ctx, a.ID())
		s.Require().NoError(err)
		s.Equal(s.at(90), got.Window().End())
	})

	s.Run("plain update refuses window changes", func() {
		moved := b.Clone()
		s.Require().NoError(moved.Reschedule(s.window(300, 360), s.at(0), false))
		err := s.store.Bookings().Update(s.ctx, moved)
		s.True(infra.IsKind(err, infra.KindDBFailure))
	})
}

func (s *StoreTestSuite) TestDeleteIfUnreserved() {
	_, err := s.insert(60, 120)
	s.Require().NoError(err)

	err = s.store.Rooms().DeleteIfUnreserved(s.ctx, s.roomID, s.at(0))
	s.True(infra.IsKind(err, infra.KindConflict))

	s.NoError(s.store.Rooms().DeleteIfUnreserved(s.ctx, s.roomID, s.at(120)))

	_, err = s.store.Rooms().Get(s.ctx, s.roomID)
	s.True(infra.IsKind(err, infra.KindNotFound))
}

func (s *StoreTestSuite) TestFindByRequester() {
	_, err := s.insert(60, 120)
	s.Require().NoError(err)
	other := builder.NewReservationBuilder().WithRoom(s.roomID).WithRequester("bob").WithWindow(s.at(120), s.at(180)).BuildReconstructed()
	_, err = s.store.Bookings().InsertIfAvailable(s.ctx, other, availability.ConflictCheck())
	s.Require().NoError(err)

	w, err := reservation.NewQueryWindow(s.at(0), s.at(600))
	s.Require().NoError(err)
	got, err := s.store.Bookings().FindByRequester(s.ctx, "bob", w)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(other.ID(), got[0].ID())
}

// Every worker races for one of a handful of overlapping slots. Whatever the
// interleaving, the confirmed set must stay pairwise disjoint.
func (s *StoreTestSuite) TestIdempotencyClaims() {
	idem := s.store.Idempotency()
	rec := shared.IdempotencyRecord{
		Key:         uuid.New(),
		Requester:   "alice",
		RequestHash: "h1",
		ExpiresAt:   s.at(60),
	}

	_, claimed, err := idem.Claim(s.ctx, rec, s.at(0))
	s.Require().NoError(err)
	s.True(claimed)

	s.Run("held key is reported back", func() {
		existing, claimed, err := idem.Claim(s.ctx, rec, s.at(1))
		s.Require().NoError(err)
		s.False(claimed)
		s.Equal(shared.IdempotencyProcessing, existing.Status)
	})

	s.Run("other requester gets its own claim", func() {
		other := rec
		other.Requester = "bob"
		_, claimed, err := idem.Claim(s.ctx, other, s.at(1))
		s.Require().NoError(err)
		s.True(claimed)
	})

	s.Run("completion records the reservation", func() {
		id := uuid.New()
		s.Require().NoError(idem.Complete(s.ctx, rec.Key, rec.Requester, id))
		existing, _, err := idem.Claim(s.ctx, rec, s.at(2))
		s.Require().NoError(err)
		s.Equal(shared.IdempotencyCompleted, existing.Status)
		s.Equal(id, *existing.ReservationID)

		// Completed claims survive Release.
		s.Require().NoError(idem.Release(s.ctx, rec.Key, rec.Requester))
		_, claimed, err := idem.Claim(s.ctx, rec, s.at(3))
		s.Require().NoError(err)
		s.False(claimed)
	})

	s.Run("expired claim is replaced", func() {
		_, claimed, err := idem.Claim(s.ctx, rec, s.at(60))
		s.Require().NoError(err)
		s.True(claimed)
	})

	s.Run("complete on an unknown key", func() {
		err := idem.Complete(s.ctx, uuid.New(), "alice", uuid.New())
		s.True(infra.IsKind(err, infra.KindNotFound))
	})
}

func TestConcurrentInsertsStayDisjoint(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := builder.NewRoomBuilder().BuildReconstructed()
	require.NoError(t, store.Rooms().Create(ctx, r))

	const workers = 64
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := builder.DefaultNow.Add(time.Duration(60+(i%8)*15) * time.Minute)
			res := builder.NewReservationBuilder().WithRoom(r.ID()).WithWindow(start, start.Add(time.Hour)).BuildReconstructed()
			_, _ = store.Bookings().InsertIfAvailable(ctx, res, availability.ConflictCheck())
		}(i)
	}
	wg.Wait()

	w, err := reservation.NewQueryWindow(builder.DefaultNow, builder.DefaultNow.Add(24*time.Hour))
	require.NoError(t, err)
	all, err := store.Bookings().FindByRoomAndRange(ctx, r.ID(), w)
	require.NoError(t, err)
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i-1].Window().Overlaps(all[i].Window()),
			"%s overlaps %s", all[i-1].Window(), all[i].Window())
	}
}
