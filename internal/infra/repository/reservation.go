package repository

import (
	"context"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/infra"
	"room-booking/internal/infra/repository/converter"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/pkg/pgconv"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationQueries interface {
	LockRoomForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (uuid.UUID, error)
	CreateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateReservationParams) (sqlc.Reservations, error)
	GetReservationByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	GetReservationByIDForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservations, error)
	ListOverlappingReservations(ctx context.Context, db sqlc.DBTX, arg sqlc.ListOverlappingReservationsParams) ([]sqlc.Reservations, error)
	ListReservationsInRange(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsInRangeParams) ([]sqlc.Reservations, error)
	ListReservationsByRequester(ctx context.Context, db sqlc.DBTX, arg sqlc.ListReservationsByRequesterParams) ([]sqlc.Reservations, error)
	UpdateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationParams) (int64, error)
}

// ReservationRepository is the Postgres BookingStore. Conditional writes
// lock the room row, so every writer touching one room's calendar queues
// behind the same lock, and run at SERIALIZABLE under the unit of work.
type ReservationRepository struct {
	queries ReservationQueries
	tx      TxRunner
}

func NewReservationRepository(queries ReservationQueries, tx TxRunner) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		tx:      tx,
	}
}

var _ shared.BookingStore = (*ReservationRepository)(nil)

func (r *ReservationRepository) InsertIfAvailable(ctx context.Context, res *reservation.Reservation, check shared.ConflictCheck) (*reservation.Reservation, error) {
	var saved *reservation.Reservation
	err := r.tx.Within(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		if err := r.lockRoom(ctx, db, res.RoomID()); err != nil {
			return err
		}
		if err := r.checkOverlaps(ctx, db, res, check); err != nil {
			return err
		}

		row, err := r.queries.CreateReservation(ctx, db, converter.ReservationToCreateParams(res))
		if err != nil {
			return infra.WrapRepoErr("failed to create reservation", err)
		}
		saved, err = converter.ToReservation(row)
		if err != nil {
			return infra.WrapRepoErr("failed to convert reservation", err, infra.KindDBFailure)
		}
		return nil
	})
	if err != nil {
		if asConflict(err) {
			return nil, conflictFor(res, err)
		}
		return nil, err
	}
	return saved, nil
}

func (r *ReservationRepository) UpdateIfAvailable(ctx context.Context, res *reservation.Reservation, check shared.ConflictCheck) (*reservation.Reservation, error) {
	var saved *reservation.Reservation
	err := r.tx.Within(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		if err := r.lockRoom(ctx, db, res.RoomID()); err != nil {
			return err
		}
		if _, err := r.lockConfirmed(ctx, db, res.ID()); err != nil {
			return err
		}
		if err := r.checkOverlaps(ctx, db, res, check); err != nil {
			return err
		}
		var err error
		saved, err = r.write(ctx, db, res)
		return err
	})
	if err != nil {
		if asConflict(err) {
			return nil, conflictFor(res, err)
		}
		return nil, err
	}
	return saved, nil
}

// Update rejects a write over a cancelled row, keeping cancellation terminal
// even when two cancels race.
func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	return r.tx.Within(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		current, err := r.lockConfirmed(ctx, db, res.ID())
		if err != nil {
			return err
		}
		if res.IsConfirmed() && !current.Window().Equal(res.Window()) {
			return infra.NewRepoErr(infra.KindDBFailure, "window changes must go through UpdateIfAvailable")
		}
		_, err = r.write(ctx, db, res)
		return err
	})
}

func (r *ReservationRepository) Get(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	var res *reservation.Reservation
	err := r.tx.WithDB(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		row, err := r.queries.GetReservationByID(ctx, db, id)
		if err != nil {
			return infra.WrapRepoErr("failed to get reservation", err)
		}
		res, err = converter.ToReservation(row)
		if err != nil {
			return infra.WrapRepoErr("failed to convert reservation", err, infra.KindDBFailure)
		}
		return nil
	})
	return res, err
}

func (r *ReservationRepository) FindByRoomAndRange(ctx context.Context, roomID uuid.UUID, window reservation.TimeWindow) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	err := r.tx.WithDB(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		var err error
		out, err = r.overlapping(ctx, db, roomID, window)
		return err
	})
	return out, err
}

func (r *ReservationRepository) FindInRange(ctx context.Context, window reservation.TimeWindow) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	err := r.tx.WithDB(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		rows, err := r.queries.ListReservationsInRange(ctx, db, sqlc.ListReservationsInRangeParams{
			WindowStart: pgconv.TimeToPgtype(window.Start()),
			WindowEnd:   pgconv.TimeToPgtype(window.End()),
		})
		if err != nil {
			return infra.WrapRepoErr("failed to list reservations in range", err)
		}
		out, err = converter.ToReservations(rows)
		if err != nil {
			return infra.WrapRepoErr("failed to convert reservations", err, infra.KindDBFailure)
		}
		return nil
	})
	return out, err
}

func (r *ReservationRepository) FindByRequester(ctx context.Context, requester string, window reservation.TimeWindow) ([]*reservation.Reservation, error) {
	var out []*reservation.Reservation
	err := r.tx.WithDB(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		rows, err := r.queries.ListReservationsByRequester(ctx, db, sqlc.ListReservationsByRequesterParams{
			Requester:   requester,
			WindowStart: pgconv.TimeToPgtype(window.Start()),
			WindowEnd:   pgconv.TimeToPgtype(window.End()),
		})
		if err != nil {
			return infra.WrapRepoErr("failed to list reservations by requester", err)
		}
		out, err = converter.ToReservations(rows)
		if err != nil {
			return infra.WrapRepoErr("failed to convert reservations", err, infra.KindDBFailure)
		}
		return nil
	})
	return out, err
}

func (r *ReservationRepository) lockRoom(ctx context.Context, db sqlc.DBTX, roomID uuid.UUID) error {
	if _, err := r.queries.LockRoomForUpdate(ctx, db, roomID); err != nil {
		return infra.WrapRepoErr("failed to lock room", err)
	}
	return nil
}

func (r *ReservationRepository) lockConfirmed(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByIDForUpdate(ctx, db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock reservation", err)
	}
	current, err := converter.ToReservation(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert reservation", err, infra.KindDBFailure)
	}
	if current.IsCancelled() {
		return nil, infra.NewRepoErr(infra.KindConflict, "reservation already cancelled")
	}
	return current, nil
}

func (r *ReservationRepository) checkOverlaps(ctx context.Context, db sqlc.DBTX, res *reservation.Reservation, check shared.ConflictCheck) error {
	existing, err := r.overlapping(ctx, db, res.RoomID(), res.Window())
	if err != nil {
		return err
	}
	if blocking := check(res, existing); len(blocking) > 0 {
		return reservation.NewConflictError(res.RoomID(), res.Window(), blocking)
	}
	return nil
}

func (r *ReservationRepository) overlapping(ctx context.Context, db sqlc.DBTX, roomID uuid.UUID, window reservation.TimeWindow) ([]*reservation.Reservation, error) {
	rows, err := r.queries.ListOverlappingReservations(ctx, db, sqlc.ListOverlappingReservationsParams{
		RoomID:      roomID,
		WindowStart: pgconv.TimeToPgtype(window.Start()),
		WindowEnd:   pgconv.TimeToPgtype(window.End()),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list overlapping reservations", err)
	}
	out, err := converter.ToReservations(rows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert reservations", err, infra.KindDBFailure)
	}
	return out, nil
}

func (r *ReservationRepository) write(ctx context.Context, db sqlc.DBTX, res *reservation.Reservation) (*reservation.Reservation, error) {
	n, err := r.queries.UpdateReservation(ctx, db, converter.ReservationToUpdateParams(res))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to update reservation", err)
	}
	if n == 0 {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return res.Clone(), nil
}
