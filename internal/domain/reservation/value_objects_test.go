//go:build unit

package reservation_test

import (
	"strings"
	"testing"
	"time"

	"room-booking/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2030, 3, 4, 10, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func window(t *testing.T, startMin, endMin int) reservation.TimeWindow {
	t.Helper()
	w, err := reservation.NewTimeWindow(at(startMin), at(endMin))
	require.NoError(t, err)
	return w
}

func TestNewTimeWindow(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		errIs error
	}{
		{name: "one minute", start: at(0), end: at(1)},
		{name: "multi day", start: at(0), end: at(3 * 24 * 60)},
		{name: "empty window", start: at(0), end: at(0), errIs: reservation.ErrInvalidWindow},
		{name: "inverted window", start: at(30), end: at(0), errIs: reservation.ErrInvalidWindow},
		{name: "start has seconds", start: at(0).Add(30 * time.Second), end: at(60), errIs: reservation.ErrUnalignedWindow},
		{name: "end has nanoseconds", start: at(0), end: at(60).Add(time.Nanosecond), errIs: reservation.ErrUnalignedWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := reservation.NewTimeWindow(tt.start, tt.end)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				assert.True(t, w.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.end.Sub(tt.start), w.Duration())
		})
	}

	t.Run("normalizes to UTC", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*60*60)
		w, err := reservation.NewTimeWindow(at(0).In(tokyo), at(60).In(tokyo))
		require.NoError(t, err)
		assert.Equal(t, time.UTC, w.Start().Location())
		assert.True(t, w.Start().Equal(at(0)))
	})
}

func TestNewQueryWindow(t *testing.T) {
	w, err := reservation.NewQueryWindow(at(0).Add(17*time.Second), at(10))
	require.NoError(t, err)
	assert.Equal(t, at(0).Add(17*time.Second), w.Start())

	_, err = reservation.NewQueryWindow(at(10), at(10))
	assert.ErrorIs(t, err, reservation.ErrInvalidWindow)
}

func TestTimeWindowOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     [2]int
		overlaps bool
	}{
		{name: "identical", a: [2]int{0, 60}, b: [2]int{0, 60}, overlaps: true},
		{name: "partial head", a: [2]int{0, 60}, b: [2]int{-30, 30}, overlaps: true},
		{name: "partial tail", a: [2]int{0, 60}, b: [2]int{30, 90}, overlaps: true},
		{name: "contained", a: [2]int{0, 60}, b: [2]int{10, 20}, overlaps: true},
		{name: "containing", a: [2]int{10, 20}, b: [2]int{0, 60}, overlaps: true},
		{name: "adjacent after", a: [2]int{0, 60}, b: [2]int{60, 120}, overlaps: false},
		{name: "adjacent before", a: [2]int{60, 120}, b: [2]int{0, 60}, overlaps: false},
		{name: "disjoint", a: [2]int{0, 60}, b: [2]int{90, 120}, overlaps: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := window(t, tt.a[0], tt.a[1])
			b := window(t, tt.b[0], tt.b[1])
			assert.Equal(t, tt.overlaps, a.Overlaps(b))
			assert.Equal(t, tt.overlaps, b.Overlaps(a), "overlap must be symmetric")
		})
	}
}

func TestNewTitle(t *testing.T) {
	title, err := reservation.NewTitle("  Standup  ")
	require.NoError(t, err)
	assert.Equal(t, "Standup", title.String())

	empty, err := reservation.NewTitle("")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = reservation.NewTitle(strings.Repeat("a", reservation.MaxTitleLength+1))
	assert.ErrorIs(t, err, reservation.ErrTitleTooLong)
}
