//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"room-booking/internal/domain/actor"
	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/room"
	"room-booking/internal/infra/memstore"
	"room-booking/internal/pkg/clock"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/availability"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/shared"
	"room-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event shared.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) kinds() []shared.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.EventKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

type recordingCache struct {
	mu          sync.Mutex
	invalidated []uuid.UUID
}

func (c *recordingCache) Get(context.Context, uuid.UUID, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *recordingCache) Set(context.Context, uuid.UUID, string, []byte) error {
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, roomID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, roomID)
	return nil
}

// cancelAwareIdempotency refuses to release with a finished context, as a
// database-backed store would.
type cancelAwareIdempotency struct {
	shared.IdempotencyStore
}

func (c cancelAwareIdempotency) Release(ctx context.Context, key uuid.UUID, requester string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.IdempotencyStore.Release(ctx, key, requester)
}

type ReservationCommandsTestSuite struct {
	suite.Suite
	ctx       context.Context
	clock     *clock.MockClock
	store     *memstore.Store
	cache     *recordingCache
	publisher *recordingPublisher
	cmds      commands.ReservationCommands
	room      *room.Room
	alice     actor.Actor
	bob       actor.Actor
	admin     actor.Actor
}

func TestReservationCommandsSuite(t *testing.T) {
	suite.Run(t, new(ReservationCommandsTestSuite))
}

func (s *ReservationCommandsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewMockClock(builder.DefaultNow)
	s.store = memstore.NewStore(nil)
	s.cache = &recordingCache{}
	s.publisher = &recordingPublisher{}
	s.newCommands(commands.Policy{AllowAdminBackfill: true, IdempotencyTTL: time.Hour})

	r, err := builder.NewRoomBuilder().BuildDomain()
	s.Require().NoError(err)
	s.Require().NoError(s.store.Rooms().Create(s.ctx, r))
	s.room = r

	s.alice = s.mustActor("alice", actor.RoleMember)
	s.bob = s.mustActor("bob", actor.RoleMember)
	s.admin = s.mustActor("root", actor.RoleAdmin)
}

func (s *ReservationCommandsTestSuite) newCommands(policy commands.Policy) {
	bookings := s.store.Bookings()
	s.cmds = commands.NewReservationCommands(
		bookings,
		s.store.Rooms(),
		cancelAwareIdempotency{s.store.Idempotency()},
		availability.NewEngine(bookings, nil),
		s.cache,
		s.publisher,
		s.clock,
		policy,
		nopLogger(),
	)
}

func (s *ReservationCommandsTestSuite) mustActor(id string, role actor.Role) actor.Actor {
	a, err := actor.New(id, role)
	s.Require().NoError(err)
	return a
}

// input books s.room for [start, end) minutes after DefaultNow.
func (s *ReservationCommandsTestSuite) input(startMin, endMin int) commands.CreateReservationInput {
	return commands.CreateReservationInput{
		RoomID: s.room.ID(),
		Start:  builder.DefaultNow.Add(time.Duration(startMin) * time.Minute),
		End:    builder.DefaultNow.Add(time.Duration(endMin) * time.Minute),
		Title:  "Sync",
	}
}

func (s *ReservationCommandsTestSuite) book(startMin, endMin int, by actor.Actor) *reservation.Reservation {
	res, err := s.cmds.Create(s.ctx, s.input(startMin, endMin), by)
	s.Require().NoError(err)
	return res
}

// ================================================================================
// Create
// ================================================================================

func (s *ReservationCommandsTestSuite) TestCreate() {
	s.Run("success: confirmed, cached calendar invalidated, event published", func() {
		res := s.book(60, 120, s.alice)

		s.Equal(reservation.StatusConfirmed, res.Status())
		s.Equal("alice", res.Requester())
		s.Equal("Sync", res.Title().String())
		s.Contains(s.cache.invalidated, s.room.ID())
		s.Equal([]shared.EventKind{shared.EventReservationCreated}, s.publisher.kinds())

		stored, err := s.store.Bookings().Get(s.ctx, res.ID())
		s.Require().NoError(err)
		s.True(stored.Window().Equal(res.Window()))
	})

	s.Run("adjacent windows are both accepted", func() {
		s.book(180, 240, s.alice)
		s.book(240, 300, s.bob)
		s.book(120, 180, s.bob)
	})

	s.Run("overlap is rejected with the blocking id", func() {
		first := s.book(400, 460, s.alice)

		_, err := s.cmds.Create(s.ctx, s.input(430, 490), s.bob)
		s.Require().Error(err)
		s.True(errs.Is(err, errs.ErrSchedulingConflict))

		var conflict *reservation.ConflictError
		s.Require().True(errs.As(err, &conflict))
		s.Equal([]uuid.UUID{first.ID()}, conflict.Blocking)
	})

	s.Run("validation errors", func() {
		cases := []struct {
			name  string
			input commands.CreateReservationInput
		}{
			{name: "inverted window", input: s.input(120, 60)},
			{name: "empty window", input: s.input(60, 60)},
			{name: "in the past", input: s.input(-60, 30)},
			{name: "unaligned start", input: func() commands.CreateReservationInput {
				in := s.input(600, 660)
				in.Start = in.Start.Add(15 * time.Second)
				return in
			}()},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				_, err := s.cmds.Create(s.ctx, tc.input, s.alice)
				s.True(errs.Is(err, errs.ErrValidation), "got %v", err)
			})
		}
	})

	s.Run("unknown room", func() {
		in := s.input(700, 760)
		in.RoomID = uuid.New()
		_, err := s.cmds.Create(s.ctx, in, s.alice)
		s.True(errs.Is(err, errs.ErrRoomNotFound), "got %v", err)
	})

	s.Run("publisher failure does not fail the booking", func() {
		s.publisher.err = assert.AnError
		defer func() { s.publisher.err = nil }()

		_, err := s.cmds.Create(s.ctx, s.input(800, 860), s.alice)
		s.NoError(err)
	})
}

func (s *ReservationCommandsTestSuite) TestCreateBackfill() {
	in := s.input(-120, -60)
	in.Backfill = true

	s.Run("member cannot backfill", func() {
		_, err := s.cmds.Create(s.ctx, in, s.alice)
		s.True(errs.Is(err, errs.ErrForbidden), "got %v", err)
	})

	s.Run("admin can backfill", func() {
		res, err := s.cmds.Create(s.ctx, in, s.admin)
		s.Require().NoError(err)
		s.Equal("root", res.Requester())
	})

	s.Run("disabled by policy", func() {
		s.newCommands(commands.Policy{AllowAdminBackfill: false})
		other := s.input(-240, -180)
		other.Backfill = true
		_, err := s.cmds.Create(s.ctx, other, s.admin)
		s.True(errs.Is(err, errs.ErrForbidden), "got %v", err)
	})
}

func (s *ReservationCommandsTestSuite) TestCreateIdempotencyKey() {
	keyed := func(startMin, endMin int, key uuid.UUID) commands.CreateReservationInput {
		in := s.input(startMin, endMin)
		in.IdempotencyKey = &key
		return in
	}

	s.Run("retry returns the first reservation without a second event", func() {
		key := uuid.New()
		first, err := s.cmds.Create(s.ctx, keyed(60, 120, key), s.alice)
		s.Require().NoError(err)
		events := len(s.publisher.kinds())

		again, err := s.cmds.Create(s.ctx, keyed(60, 120, key), s.alice)
		s.Require().NoError(err)
		s.Equal(first.ID(), again.ID())
		s.Len(s.publisher.kinds(), events)
	})

	s.Run("same key with a different body is rejected", func() {
		key := uuid.New()
		_, err := s.cmds.Create(s.ctx, keyed(200, 260, key), s.alice)
		s.Require().NoError(err)

		_, err = s.cmds.Create(s.ctx, keyed(300, 360, key), s.alice)
		s.True(errs.Is(err, errs.ErrIdempotencyKeyReused), "got %v", err)
	})

	s.Run("keys are scoped per requester", func() {
		key := uuid.New()
		_, err := s.cmds.Create(s.ctx, keyed(400, 460, key), s.alice)
		s.Require().NoError(err)

		_, err = s.cmds.Create(s.ctx, keyed(400, 460, key), s.bob)
		s.True(errs.Is(err, errs.ErrSchedulingConflict), "got %v", err)
	})

	s.Run("in-flight key is rejected", func() {
		key := uuid.New()
		in := keyed(500, 560, key)
		_, claimed, err := s.store.Idempotency().Claim(s.ctx, shared.IdempotencyRecord{
			Key:         key,
			Requester:   s.alice.ID(),
			RequestHash: "other-request",
			ExpiresAt:   builder.DefaultNow.Add(time.Hour),
		}, builder.DefaultNow)
		s.Require().NoError(err)
		s.Require().True(claimed)

		_, err = s.cmds.Create(s.ctx, in, s.alice)
		s.True(errs.Is(err, errs.ErrIdempotencyKeyInFlight), "got %v", err)
	})

	s.Run("failed create releases the key", func() {
		key := uuid.New()
		s.book(600, 660, s.bob)

		_, err := s.cmds.Create(s.ctx, keyed(600, 660, key), s.alice)
		s.Require().True(errs.Is(err, errs.ErrSchedulingConflict), "got %v", err)

		_, err = s.cmds.Create(s.ctx, keyed(600, 660, key), s.alice)
		s.True(errs.Is(err, errs.ErrSchedulingConflict), "retry must run again, got %v", err)
	})

	s.Run("key is released after the client goes away", func() {
		key := uuid.New()
		s.book(800, 860, s.bob)

		gone, cancel := context.WithCancel(s.ctx)
		cancel()
		_, err := s.cmds.Create(gone, keyed(800, 860, key), s.alice)
		s.Require().True(errs.Is(err, errs.ErrSchedulingConflict), "got %v", err)

		_, err = s.cmds.Create(s.ctx, keyed(800, 860, key), s.alice)
		s.True(errs.Is(err, errs.ErrSchedulingConflict), "retry must not see the key in flight, got %v", err)
	})

	s.Run("expired key is reclaimed", func() {
		key := uuid.New()
		first, err := s.cmds.Create(s.ctx, keyed(700, 760, key), s.alice)
		s.Require().NoError(err)

		s.clock.Add(2 * time.Hour)
		defer s.clock.Set(builder.DefaultNow)

		_, err = s.cmds.Create(s.ctx, keyed(700, 760, key), s.alice)
		s.True(errs.Is(err, errs.ErrSchedulingConflict), "got %v", err)

		var conflict *reservation.ConflictError
		s.Require().True(errs.As(err, &conflict))
		s.Equal([]uuid.UUID{first.ID()}, conflict.Blocking)
	})
}

// Two identical requests racing for the same window: exactly one wins.
func (s *ReservationCommandsTestSuite) TestCreateConcurrentIdenticalRequests() {
	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		confirmed int
		conflicts int
	)
	start := make(chan struct{})
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			by := s.alice
			if i%2 == 1 {
				by = s.bob
			}
			_, err := s.cmds.Create(s.ctx, s.input(60, 120), by)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				confirmed++
			case errs.Is(err, errs.ErrSchedulingConflict):
				conflicts++
			}
		}(i)
	}
	close(start)
	wg.Wait()

	s.Equal(1, confirmed)
	s.Equal(workers-1, conflicts)
}

// ================================================================================
// Cancel
// ================================================================================

func (s *ReservationCommandsTestSuite) TestCancel() {
	s.Run("owner cancels, window becomes free", func() {
		res := s.book(60, 120, s.alice)

		cancelled, err := s.cmds.Cancel(s.ctx, res.ID(), s.alice)
		s.Require().NoError(err)
		s.True(cancelled.IsCancelled())
		s.NotNil(cancelled.CancelledAt())

		s.book(60, 120, s.bob)
	})

	s.Run("second cancel is AlreadyCancelled", func() {
		res := s.book(200, 260, s.alice)
		_, err := s.cmds.Cancel(s.ctx, res.ID(), s.alice)
		s.Require().NoError(err)

		_, err = s.cmds.Cancel(s.ctx, res.ID(), s.alice)
		s.True(errs.Is(err, errs.ErrAlreadyCancelled), "got %v", err)
	})

	s.Run("other member is forbidden and state is unchanged", func() {
		res := s.book(300, 360, s.alice)

		_, err := s.cmds.Cancel(s.ctx, res.ID(), s.bob)
		s.True(errs.Is(err, errs.ErrForbidden), "got %v", err)

		stored, err := s.store.Bookings().Get(s.ctx, res.ID())
		s.Require().NoError(err)
		s.True(stored.IsConfirmed())
	})

	s.Run("admin may cancel any reservation", func() {
		res := s.book(400, 460, s.alice)
		_, err := s.cmds.Cancel(s.ctx, res.ID(), s.admin)
		s.NoError(err)
	})

	s.Run("unknown reservation", func() {
		_, err := s.cmds.Cancel(s.ctx, uuid.New(), s.alice)
		s.True(errs.Is(err, errs.ErrReservationNotFound), "got %v", err)
	})
}

// ================================================================================
// Reschedule
// ================================================================================

func (s *ReservationCommandsTestSuite) reschedule(id uuid.UUID, startMin, endMin int, by actor.Actor) (*reservation.Reservation, error) {
	in := s.input(startMin, endMin)
	return s.cmds.Reschedule(s.ctx, id, commands.RescheduleInput{Start: in.Start, End: in.End}, by)
}

func (s *ReservationCommandsTestSuite) TestReschedule() {
	s.Run("overlapping its own old window is allowed", func() {
		res := s.book(60, 120, s.alice)

		moved, err := s.reschedule(res.ID(), 90, 150, s.alice)
		s.Require().NoError(err)
		s.Equal(res.ID(), moved.ID())
		s.Equal(builder.DefaultNow.Add(90*time.Minute), moved.Window().Start())
		s.Contains(s.publisher.kinds(), shared.EventReservationRescheduled)

		// The old slot is released.
		s.book(60, 90, s.bob)
	})

	s.Run("conflict with another reservation leaves it unchanged", func() {
		mine := s.book(300, 360, s.alice)
		theirs := s.book(360, 420, s.bob)

		_, err := s.reschedule(mine.ID(), 330, 390, s.alice)
		s.True(errs.Is(err, errs.ErrSchedulingConflict), "got %v", err)

		var conflict *reservation.ConflictError
		s.Require().True(errs.As(err, &conflict))
		s.Equal([]uuid.UUID{theirs.ID()}, conflict.Blocking)

		stored, err := s.store.Bookings().Get(s.ctx, mine.ID())
		s.Require().NoError(err)
		s.True(stored.Window().Equal(mine.Window()))
	})

	s.Run("cancelled reservation cannot be rescheduled", func() {
		res := s.book(500, 560, s.alice)
		_, err := s.cmds.Cancel(s.ctx, res.ID(), s.alice)
		s.Require().NoError(err)

		_, err = s.reschedule(res.ID(), 600, 660, s.alice)
		s.True(errs.Is(err, errs.ErrAlreadyCancelled), "got %v", err)
	})

	s.Run("other member is forbidden", func() {
		res := s.book(700, 760, s.alice)
		_, err := s.reschedule(res.ID(), 800, 860, s.bob)
		s.True(errs.Is(err, errs.ErrForbidden), "got %v", err)
	})

	s.Run("invalid window", func() {
		res := s.book(900, 960, s.alice)
		_, err := s.reschedule(res.ID(), 960, 900, s.alice)
		s.True(errs.Is(err, errs.ErrValidation), "got %v", err)
	})
}
