package repository

import (
	"context"
	"time"

	"room-booking/internal/infra"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/pkg/pgconv"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyQueries interface {
	ClaimIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.ClaimIdempotencyKeyParams) (sqlc.IdempotencyKeys, error)
	GetIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.GetIdempotencyKeyParams) (sqlc.IdempotencyKeys, error)
	CompleteIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.CompleteIdempotencyKeyParams) (int64, error)
	ReleaseIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.ReleaseIdempotencyKeyParams) error
}

type IdempotencyRepository struct {
	queries IdempotencyQueries
	tx      TxRunner
}

func NewIdempotencyRepository(queries IdempotencyQueries, tx TxRunner) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		tx:      tx,
	}
}

var _ shared.IdempotencyStore = (*IdempotencyRepository)(nil)

// claimAttempts bounds the loop where the holder releases its claim between
// our insert and our read.
const claimAttempts = 2

func (r *IdempotencyRepository) Claim(ctx context.Context, rec shared.IdempotencyRecord, now time.Time) (*shared.IdempotencyRecord, bool, error) {
	var (
		existing *shared.IdempotencyRecord
		claimed  bool
	)
	err := r.tx.WithDB(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		for range claimAttempts {
			_, err := r.queries.ClaimIdempotencyKey(ctx, db, sqlc.ClaimIdempotencyKeyParams{
				Key:         rec.Key,
				Requester:   rec.Requester,
				RequestHash: rec.RequestHash,
				ExpiresAt:   pgconv.TimeToPgtype(rec.ExpiresAt),
				Now:         pgconv.TimeToPgtype(now),
			})
			if err == nil {
				claimed = true
				return nil
			}
			if !pgconv.IsNoRows(err) {
				return infra.WrapRepoErr("failed to claim idempotency key", err)
			}

			row, err := r.queries.GetIdempotencyKey(ctx, db, sqlc.GetIdempotencyKeyParams{
				Key:       rec.Key,
				Requester: rec.Requester,
			})
			if pgconv.IsNoRows(err) {
				continue
			}
			if err != nil {
				return infra.WrapRepoErr("failed to get idempotency key", err)
			}
			existing = toIdempotencyRecord(row)
			return nil
		}
		return infra.NewRepoErr(infra.KindConflict, "idempotency key is contended")
	})
	if err != nil {
		return nil, false, err
	}
	return existing, claimed, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key uuid.UUID, requester string, reservationID uuid.UUID) error {
	return r.tx.WithDB(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		n, err := r.queries.CompleteIdempotencyKey(ctx, db, sqlc.CompleteIdempotencyKeyParams{
			ReservationID: pgconv.UUIDToPgtype(reservationID),
			Key:           key,
			Requester:     requester,
		})
		if err != nil {
			return infra.WrapRepoErr("failed to complete idempotency key", err)
		}
		if n == 0 {
			return infra.NewRepoErr(infra.KindNotFound, "idempotency key not found")
		}
		return nil
	})
}

func (r *IdempotencyRepository) Release(ctx context.Context, key uuid.UUID, requester string) error {
	return r.tx.WithDB(ctx, func(ctx context.Context, db sqlc.DBTX) error {
		err := r.queries.ReleaseIdempotencyKey(ctx, db, sqlc.ReleaseIdempotencyKeyParams{
			Key:       key,
			Requester: requester,
		})
		if err != nil {
			return infra.WrapRepoErr("failed to release idempotency key", err)
		}
		return nil
	})
}

func toIdempotencyRecord(row sqlc.IdempotencyKeys) *shared.IdempotencyRecord {
	return &shared.IdempotencyRecord{
		Key:           row.Key,
		Requester:     row.Requester,
		RequestHash:   row.RequestHash,
		Status:        shared.IdempotencyStatus(row.Status),
		ReservationID: pgconv.UUIDPtrFromPgtype(row.ReservationID),
		ExpiresAt:     pgconv.TimeFromPgtype(row.ExpiresAt),
	}
}
