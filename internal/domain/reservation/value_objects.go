package reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidWindow   = errors.New("window start must be before end")
	ErrUnalignedWindow = errors.New("window bounds must be aligned to whole minutes")
	ErrTitleTooLong    = errors.New("title is too long (max 255 characters)")
)

// Granularity is the resolution every window bound must be aligned to.
const Granularity = time.Minute

const MaxTitleLength = 255

// TimeWindow is a half-open interval [start, end) in UTC.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	start, end = start.UTC(), end.UTC()
	if !start.Equal(start.Truncate(Granularity)) || !end.Equal(end.Truncate(Granularity)) {
		return TimeWindow{}, ErrUnalignedWindow
	}
	if !start.Before(end) {
		return TimeWindow{}, ErrInvalidWindow
	}
	return TimeWindow{start: start, end: end}, nil
}

// NewQueryWindow builds a read-side range; bounds need not be aligned.
func NewQueryWindow(start, end time.Time) (TimeWindow, error) {
	start, end = start.UTC(), end.UTC()
	if !start.Before(end) {
		return TimeWindow{}, ErrInvalidWindow
	}
	return TimeWindow{start: start, end: end}, nil
}

func (w TimeWindow) Start() time.Time {
	return w.start
}

func (w TimeWindow) End() time.Time {
	return w.end
}

func (w TimeWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

func (w TimeWindow) IsZero() bool {
	return w.start.IsZero() && w.end.IsZero()
}

// Overlaps uses half-open semantics: windows that only touch do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

func (w TimeWindow) Equal(other TimeWindow) bool {
	return w.start.Equal(other.start) && w.end.Equal(other.end)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s,%s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}

type Title struct {
	value string
}

func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)
	if len(s) > MaxTitleLength {
		return Title{}, ErrTitleTooLong
	}
	return Title{value: s}, nil
}

func (t Title) String() string {
	return t.value
}

func (t Title) IsEmpty() bool {
	return t.value == ""
}
