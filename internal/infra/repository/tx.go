package repository

import (
	"context"
	"errors"
	"log/slog"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/infra"
	"room-booking/internal/infra/uow"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

// TxRunner is the slice of the unit of work the repositories need.
type TxRunner interface {
	Within(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
	WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
}

// asConflict reports whether err means another writer won the window:
// the exclusion constraint fired, or serialization retries ran out.
func asConflict(err error) bool {
	if errs.Is(err, uow.ErrMaxRetriesExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == infra.PgCodeExclusionViolation
}

func conflictFor(res *reservation.Reservation, cause error) error {
	slog.Warn("reservation write lost to a concurrent writer",
		"reservation_id", res.ID().String(),
		"room_id", res.RoomID().String(),
		"window", res.Window().String(),
		"error", cause.Error())
	return reservation.NewConflictError(res.RoomID(), res.Window(), nil)
}
