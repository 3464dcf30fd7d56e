//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"room-booking/internal/infra"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/pkg/pgconv"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIdempotencyQueries struct {
	mock.Mock
}

func (m *MockIdempotencyQueries) ClaimIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.ClaimIdempotencyKeyParams) (sqlc.IdempotencyKeys, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(sqlc.IdempotencyKeys), args.Error(1)
}

func (m *MockIdempotencyQueries) GetIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.GetIdempotencyKeyParams) (sqlc.IdempotencyKeys, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(sqlc.IdempotencyKeys), args.Error(1)
}

func (m *MockIdempotencyQueries) CompleteIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.CompleteIdempotencyKeyParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIdempotencyQueries) ReleaseIdempotencyKey(ctx context.Context, db sqlc.DBTX, arg sqlc.ReleaseIdempotencyKeyParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func TestIdempotencyClaim(t *testing.T) {
	now := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	rec := shared.IdempotencyRecord{
		Key:         uuid.New(),
		Requester:   "alice",
		RequestHash: "abc",
		ExpiresAt:   now.Add(24 * time.Hour),
	}
	getParams := sqlc.GetIdempotencyKeyParams{Key: rec.Key, Requester: rec.Requester}
	reservationID := uuid.New()
	held := sqlc.IdempotencyKeys{
		Key:           rec.Key,
		Requester:     rec.Requester,
		RequestHash:   "abc",
		Status:        string(shared.IdempotencyCompleted),
		ReservationID: pgconv.UUIDToPgtype(reservationID),
		ExpiresAt:     pgconv.TimeToPgtype(rec.ExpiresAt),
	}

	t.Run("fresh key is claimed", func(t *testing.T) {
		q := new(MockIdempotencyQueries)
		q.On("ClaimIdempotencyKey", mock.Anything, mock.Anything, mock.MatchedBy(func(p sqlc.ClaimIdempotencyKeyParams) bool {
			return p.Key == rec.Key && p.Now.Time.Equal(now) && p.ExpiresAt.Time.Equal(rec.ExpiresAt)
		})).Return(sqlc.IdempotencyKeys{}, nil).Once()

		existing, claimed, err := NewIdempotencyRepository(q, directTx{}).Claim(context.Background(), rec, now)
		require.NoError(t, err)
		assert.True(t, claimed)
		assert.Nil(t, existing)
		q.AssertExpectations(t)
	})

	t.Run("held key returns the existing record", func(t *testing.T) {
		q := new(MockIdempotencyQueries)
		q.On("ClaimIdempotencyKey", mock.Anything, mock.Anything, mock.Anything).Return(sqlc.IdempotencyKeys{}, pgx.ErrNoRows).Once()
		q.On("GetIdempotencyKey", mock.Anything, mock.Anything, getParams).Return(held, nil).Once()

		existing, claimed, err := NewIdempotencyRepository(q, directTx{}).Claim(context.Background(), rec, now)
		require.NoError(t, err)
		assert.False(t, claimed)
		require.NotNil(t, existing)
		assert.Equal(t, shared.IdempotencyCompleted, existing.Status)
		require.NotNil(t, existing.ReservationID)
		assert.Equal(t, reservationID, *existing.ReservationID)
	})

	t.Run("holder released in between, second attempt claims", func(t *testing.T) {
		q := new(MockIdempotencyQueries)
		q.On("ClaimIdempotencyKey", mock.Anything, mock.Anything, mock.Anything).Return(sqlc.IdempotencyKeys{}, pgx.ErrNoRows).Once()
		q.On("GetIdempotencyKey", mock.Anything, mock.Anything, getParams).Return(sqlc.IdempotencyKeys{}, pgx.ErrNoRows).Once()
		q.On("ClaimIdempotencyKey", mock.Anything, mock.Anything, mock.Anything).Return(sqlc.IdempotencyKeys{}, nil).Once()

		_, claimed, err := NewIdempotencyRepository(q, directTx{}).Claim(context.Background(), rec, now)
		require.NoError(t, err)
		assert.True(t, claimed)
		q.AssertExpectations(t)
	})

	t.Run("contended key gives up", func(t *testing.T) {
		q := new(MockIdempotencyQueries)
		q.On("ClaimIdempotencyKey", mock.Anything, mock.Anything, mock.Anything).Return(sqlc.IdempotencyKeys{}, pgx.ErrNoRows)
		q.On("GetIdempotencyKey", mock.Anything, mock.Anything, getParams).Return(sqlc.IdempotencyKeys{}, pgx.ErrNoRows)

		_, _, err := NewIdempotencyRepository(q, directTx{}).Claim(context.Background(), rec, now)
		assert.True(t, infra.IsKind(err, infra.KindConflict), "got %v", err)
		q.AssertNumberOfCalls(t, "ClaimIdempotencyKey", claimAttempts)
	})
}

func TestIdempotencyComplete(t *testing.T) {
	key := uuid.New()
	reservationID := uuid.New()
	params := sqlc.CompleteIdempotencyKeyParams{
		ReservationID: pgconv.UUIDToPgtype(reservationID),
		Key:           key,
		Requester:     "alice",
	}

	t.Run("marks completed", func(t *testing.T) {
		q := new(MockIdempotencyQueries)
		q.On("CompleteIdempotencyKey", mock.Anything, mock.Anything, params).Return(int64(1), nil).Once()
		require.NoError(t, NewIdempotencyRepository(q, directTx{}).Complete(context.Background(), key, "alice", reservationID))
	})

	t.Run("missing key is NotFound", func(t *testing.T) {
		q := new(MockIdempotencyQueries)
		q.On("CompleteIdempotencyKey", mock.Anything, mock.Anything, params).Return(int64(0), nil).Once()
		err := NewIdempotencyRepository(q, directTx{}).Complete(context.Background(), key, "alice", reservationID)
		assert.True(t, infra.IsKind(err, infra.KindNotFound), "got %v", err)
	})
}
