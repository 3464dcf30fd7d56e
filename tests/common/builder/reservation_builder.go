//go:build unit || e2e

package builder

import (
	"time"

	"room-booking/internal/domain/reservation"
	reqdto "room-booking/internal/handler/dto/request"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReservationBuilder struct {
	ID          uuid.UUID
	RoomID      uuid.UUID
	Start       time.Time
	End         time.Time
	Requester   string
	Title       string
	Status      reservation.Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CancelledAt *time.Time
}

// DefaultNow is the clock value builders assume; the default window starts an hour later.
var DefaultNow = time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)

func NewReservationBuilder() *ReservationBuilder {
	start := DefaultNow.Add(time.Hour)
	return &ReservationBuilder{
		ID:        uuid.New(),
		RoomID:    uuid.New(),
		Start:     start,
		End:       start.Add(time.Hour),
		Requester: "alice",
		Title:     "Planning",
		Status:    reservation.StatusConfirmed,
		CreatedAt: DefaultNow,
		UpdatedAt: DefaultNow,
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

func (r *ReservationBuilder) WithRoom(roomID uuid.UUID) *ReservationBuilder {
	r.RoomID = roomID
	return r
}

func (r *ReservationBuilder) WithWindow(start, end time.Time) *ReservationBuilder {
	r.Start = start
	r.End = end
	return r
}

func (r *ReservationBuilder) WithRequester(requester string) *ReservationBuilder {
	r.Requester = requester
	return r
}

func (r *ReservationBuilder) AsCancelled() *ReservationBuilder {
	at := r.UpdatedAt
	r.Status = reservation.StatusCancelled
	r.CancelledAt = &at
	return r
}

// Build methods
func (r *ReservationBuilder) Window() reservation.TimeWindow {
	w, err := reservation.NewTimeWindow(r.Start, r.End)
	if err != nil {
		panic(err)
	}
	return w
}

// BuildDomain goes through NewReservation, so the window must not be in the past of DefaultNow.
func (r *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	window, err := reservation.NewTimeWindow(r.Start, r.End)
	if err != nil {
		return nil, err
	}
	title, err := reservation.NewTitle(r.Title)
	if err != nil {
		return nil, err
	}
	return reservation.NewReservation(reservation.NewParams{
		RoomID:    r.RoomID,
		Window:    window,
		Requester: r.Requester,
		Title:     title,
	}, DefaultNow)
}

// BuildReconstructed keeps id and status as set on the builder.
func (r *ReservationBuilder) BuildReconstructed() *reservation.Reservation {
	title, err := reservation.NewTitle(r.Title)
	if err != nil {
		panic(err)
	}
	return reservation.ReconstructReservation(
		r.ID, r.RoomID, r.Window(), r.Requester, title, r.Status,
		r.CreatedAt, r.UpdatedAt, r.CancelledAt,
	)
}

func (r *ReservationBuilder) BuildInfra() sqlc.Reservations {
	row := sqlc.Reservations{
		ID:        r.ID,
		RoomID:    r.RoomID,
		StartTime: pgtype.Timestamptz{Time: r.Start, Valid: true},
		EndTime:   pgtype.Timestamptz{Time: r.End, Valid: true},
		Requester: r.Requester,
		Title:     pgtype.Text{String: r.Title, Valid: r.Title != ""},
		Status:    r.Status.String(),
		CreatedAt: pgtype.Timestamptz{Time: r.CreatedAt, Valid: true},
		UpdatedAt: pgtype.Timestamptz{Time: r.UpdatedAt, Valid: true},
	}
	if r.CancelledAt != nil {
		row.CancelledAt = pgtype.Timestamptz{Time: *r.CancelledAt, Valid: true}
	}
	return row
}

func (r *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		RoomID: r.RoomID,
		Start:  r.Start,
		End:    r.End,
		Title:  r.Title,
	}
}

func (r *ReservationBuilder) BuildView() *queries.ReservationView {
	return &queries.ReservationView{
		ID:          r.ID,
		RoomID:      r.RoomID,
		Start:       r.Start,
		End:         r.End,
		Requester:   r.Requester,
		Title:       r.Title,
		Status:      r.Status.String(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		CancelledAt: r.CancelledAt,
	}
}
