//go:build unit

package availability_test

import (
	"context"
	"testing"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/usecase/availability"
	"room-booking/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReader struct {
	mock.Mock
}

func (m *MockReader) FindByRoomAndRange(ctx context.Context, roomID uuid.UUID, window reservation.TimeWindow) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, roomID, window)
	if v := args.Get(0); v != nil {
		return v.([]*reservation.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

var roomID = uuid.New()

// booked returns a confirmed reservation covering [start, end) minutes after DefaultNow.
func booked(startMin, endMin int) *reservation.Reservation {
	return builder.NewReservationBuilder().
		WithRoom(roomID).
		WithWindow(minutes(startMin), minutes(endMin)).
		BuildReconstructed()
}

func minutes(n int) time.Time {
	return builder.DefaultNow.Add(time.Duration(n) * time.Minute)
}

func win(t *testing.T, startMin, endMin int) reservation.TimeWindow {
	t.Helper()
	w, err := reservation.NewTimeWindow(minutes(startMin), minutes(endMin))
	require.NoError(t, err)
	return w
}

func TestBlockingIDs(t *testing.T) {
	existing := booked(60, 120)
	cancelled := builder.NewReservationBuilder().
		WithRoom(roomID).
		WithWindow(minutes(60), minutes(120)).
		AsCancelled().
		BuildReconstructed()

	tests := []struct {
		name     string
		window   [2]int
		exclude  *uuid.UUID
		existing []*reservation.Reservation
		want     []uuid.UUID
	}{
		{name: "no reservations", window: [2]int{60, 120}, want: nil},
		{name: "exact overlap", window: [2]int{60, 120}, existing: []*reservation.Reservation{existing}, want: []uuid.UUID{existing.ID()}},
		{name: "partial overlap", window: [2]int{90, 150}, existing: []*reservation.Reservation{existing}, want: []uuid.UUID{existing.ID()}},
		{name: "adjacent before", window: [2]int{0, 60}, existing: []*reservation.Reservation{existing}, want: nil},
		{name: "adjacent after", window: [2]int{120, 180}, existing: []*reservation.Reservation{existing}, want: nil},
		{name: "cancelled ignored", window: [2]int{60, 120}, existing: []*reservation.Reservation{cancelled}, want: nil},
		{name: "self excluded", window: [2]int{90, 150}, exclude: ptrID(existing.ID()), existing: []*reservation.Reservation{existing}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := availability.BlockingIDs(win(t, tt.window[0], tt.window[1]), tt.exclude, tt.existing)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BlockingIDs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngineIsAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("free window", func(t *testing.T) {
		reader := new(MockReader)
		w := win(t, 0, 60)
		reader.On("FindByRoomAndRange", mock.Anything, roomID, w).Return([]*reservation.Reservation{booked(60, 120)}, nil)

		engine := availability.NewEngine(reader, nil)
		assert.True(t, engine.IsAvailable(ctx, roomID, w, nil))
		reader.AssertExpectations(t)
	})

	t.Run("busy window", func(t *testing.T) {
		reader := new(MockReader)
		w := win(t, 30, 90)
		reader.On("FindByRoomAndRange", mock.Anything, roomID, w).Return([]*reservation.Reservation{booked(60, 120)}, nil)

		engine := availability.NewEngine(reader, nil)
		assert.False(t, engine.IsAvailable(ctx, roomID, w, nil))
	})

	t.Run("read failure fails closed", func(t *testing.T) {
		reader := new(MockReader)
		w := win(t, 0, 60)
		reader.On("FindByRoomAndRange", mock.Anything, roomID, w).Return(nil, assert.AnError)

		engine := availability.NewEngine(reader, nil)
		assert.False(t, engine.IsAvailable(ctx, roomID, w, nil))

		_, err := engine.Blocking(ctx, roomID, w, nil)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestConflictCheck(t *testing.T) {
	check := availability.ConflictCheck()
	other := booked(60, 120)

	candidate := booked(90, 150)
	assert.Equal(t, []uuid.UUID{other.ID()}, check(candidate, []*reservation.Reservation{other, candidate}))

	// A reschedule sees its own stored row among the overlapping ones.
	moved := candidate.Clone()
	require.NoError(t, moved.Reschedule(win(t, 100, 160), builder.DefaultNow, false))
	assert.Empty(t, check(moved, []*reservation.Reservation{candidate}))
}

func TestGaps(t *testing.T) {
	tests := []struct {
		name     string
		window   [2]int
		existing []*reservation.Reservation
		want     [][2]int
	}{
		{name: "empty room", window: [2]int{0, 240}, want: [][2]int{{0, 240}}},
		{name: "one booking in the middle", window: [2]int{0, 240}, existing: []*reservation.Reservation{booked(60, 120)}, want: [][2]int{{0, 60}, {120, 240}}},
		{name: "back to back bookings", window: [2]int{0, 240}, existing: []*reservation.Reservation{booked(120, 180), booked(60, 120)}, want: [][2]int{{0, 60}, {180, 240}}},
		{name: "booking spills over both edges", window: [2]int{60, 120}, existing: []*reservation.Reservation{booked(0, 240)}, want: nil},
		{name: "nested bookings", window: [2]int{0, 240}, existing: []*reservation.Reservation{booked(30, 200), booked(60, 90)}, want: [][2]int{{0, 30}, {200, 240}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := availability.Gaps(win(t, tt.window[0], tt.window[1]), tt.existing)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.True(t, got[i].Equal(win(t, w[0], w[1])), "gap %d: got %s", i, got[i])
			}
		})
	}
}

func ptrID(id uuid.UUID) *uuid.UUID {
	return &id
}
