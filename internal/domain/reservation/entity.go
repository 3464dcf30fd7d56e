package reservation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStartInPast        = errors.New("reservation cannot start in the past")
	ErrEmptyRequester     = errors.New("requester cannot be empty")
	ErrRequesterTooLong   = errors.New("requester is too long (max 255 characters)")
	ErrAlreadyCancelled   = errors.New("reservation is already cancelled")
	ErrInvalidStatus      = errors.New("invalid reservation status")
	ErrSchedulingConflict = errors.New("window overlaps a confirmed reservation")
)

const MaxRequesterLength = 255

// Reservation never leaves the store once written; cancellation is a status change.
type Reservation struct {
	id          uuid.UUID
	roomID      uuid.UUID
	window      TimeWindow
	requester   string
	title       Title
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
	cancelledAt *time.Time
}

type NewParams struct {
	RoomID    uuid.UUID
	Window    TimeWindow
	Requester string
	Title     Title
	// AllowPastStart admits a window that has already begun (administrative backfill).
	AllowPastStart bool
}

func NewReservation(p NewParams, now time.Time) (*Reservation, error) {
	requester, err := validateRequester(p.Requester)
	if err != nil {
		return nil, err
	}
	if p.Window.IsZero() {
		return nil, ErrInvalidWindow
	}
	if !p.AllowPastStart && p.Window.Start().Before(now) {
		return nil, ErrStartInPast
	}

	return &Reservation{
		id:        uuid.New(),
		roomID:    p.RoomID,
		window:    p.Window,
		requester: requester,
		title:     p.Title,
		status:    StatusConfirmed,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructReservation(
	id, roomID uuid.UUID,
	window TimeWindow,
	requester string,
	title Title,
	status Status,
	createdAt, updatedAt time.Time,
	cancelledAt *time.Time,
) *Reservation {
	return &Reservation{
		id:          id,
		roomID:      roomID,
		window:      window,
		requester:   requester,
		title:       title,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		cancelledAt: cancelledAt,
	}
}

// Cancel is terminal. A second call fails and leaves the reservation untouched.
func (r *Reservation) Cancel(now time.Time) error {
	if r.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	r.status = StatusCancelled
	r.updatedAt = now
	r.cancelledAt = &now
	return nil
}

// Reschedule moves a confirmed reservation. The caller still has to prove the
// new window is free through the store.
func (r *Reservation) Reschedule(window TimeWindow, now time.Time, allowPastStart bool) error {
	if r.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if window.IsZero() {
		return ErrInvalidWindow
	}
	if !allowPastStart && window.Start().Before(now) {
		return ErrStartInPast
	}
	r.window = window
	r.updatedAt = now
	return nil
}

func (r *Reservation) IsConfirmed() bool {
	return r.status == StatusConfirmed
}

func (r *Reservation) IsCancelled() bool {
	return r.status == StatusCancelled
}

// IsUpcoming reports a confirmed reservation whose start is at or after now.
func (r *Reservation) IsUpcoming(now time.Time) bool {
	return r.IsConfirmed() && !r.window.Start().Before(now)
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (r *Reservation) Clone() *Reservation {
	c := *r
	if r.cancelledAt != nil {
		t := *r.cancelledAt
		c.cancelledAt = &t
	}
	return &c
}

func validateRequester(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyRequester
	}
	if len(s) > MaxRequesterLength {
		return "", ErrRequesterTooLong
	}
	return s, nil
}

func (r *Reservation) ID() uuid.UUID           { return r.id }
func (r *Reservation) RoomID() uuid.UUID       { return r.roomID }
func (r *Reservation) Window() TimeWindow      { return r.window }
func (r *Reservation) Requester() string       { return r.requester }
func (r *Reservation) Title() Title            { return r.title }
func (r *Reservation) Status() Status          { return r.status }
func (r *Reservation) CreatedAt() time.Time    { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time    { return r.updatedAt }
func (r *Reservation) CancelledAt() *time.Time { return r.cancelledAt }
