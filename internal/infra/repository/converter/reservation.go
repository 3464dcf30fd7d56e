package converter

import (
	"room-booking/internal/domain/reservation"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/pkg/pgconv"
)

func ReservationToCreateParams(r *reservation.Reservation) sqlc.CreateReservationParams {
	return sqlc.CreateReservationParams{
		ID:        r.ID(),
		RoomID:    r.RoomID(),
		StartTime: pgconv.TimeToPgtype(r.Window().Start()),
		EndTime:   pgconv.TimeToPgtype(r.Window().End()),
		Requester: r.Requester(),
		Title:     pgconv.StringToPgtype(r.Title().String()),
		Status:    r.Status().String(),
		CreatedAt: pgconv.TimeToPgtype(r.CreatedAt()),
		UpdatedAt: pgconv.TimeToPgtype(r.UpdatedAt()),
	}
}

func ReservationToUpdateParams(r *reservation.Reservation) sqlc.UpdateReservationParams {
	return sqlc.UpdateReservationParams{
		ID:          r.ID(),
		StartTime:   pgconv.TimeToPgtype(r.Window().Start()),
		EndTime:     pgconv.TimeToPgtype(r.Window().End()),
		Status:      r.Status().String(),
		UpdatedAt:   pgconv.TimeToPgtype(r.UpdatedAt()),
		CancelledAt: pgconv.TimePtrToPgtype(r.CancelledAt()),
	}
}

func ToReservation(row sqlc.Reservations) (*reservation.Reservation, error) {
	window, err := reservation.NewQueryWindow(pgconv.TimeFromPgtype(row.StartTime), pgconv.TimeFromPgtype(row.EndTime))
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s has a corrupt window", row.ID)
	}
	status, err := reservation.NewStatus(row.Status)
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s has status %q", row.ID, row.Status)
	}
	title, err := reservation.NewTitle(pgconv.StringFromPgtype(row.Title))
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s has a corrupt title", row.ID)
	}

	return reservation.ReconstructReservation(
		row.ID,
		row.RoomID,
		window,
		row.Requester,
		title,
		status,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
		pgconv.TimePtrFromPgtype(row.CancelledAt),
	), nil
}

func ToReservations(rows []sqlc.Reservations) ([]*reservation.Reservation, error) {
	out := make([]*reservation.Reservation, 0, len(rows))
	for _, row := range rows {
		r, err := ToReservation(row)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
