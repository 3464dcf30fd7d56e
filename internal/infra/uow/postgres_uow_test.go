//go:build unit

package uow

import (
	"context"
	"testing"
	"time"

	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	commits   *int
	rollbacks *int
}

func (t fakeTx) Commit(context.Context) error {
	*t.commits++
	return nil
}

func (t fakeTx) Rollback(context.Context) error {
	*t.rollbacks++
	return nil
}

type fakePool struct {
	sqlc.DBTX
	begins    int
	commits   int
	rollbacks int
	lastOpts  pgx.TxOptions
}

func (p *fakePool) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	p.begins++
	p.lastOpts = opts
	return fakeTx{commits: &p.commits, rollbacks: &p.rollbacks}, nil
}

func serializationFailure() error {
	return &pgconn.PgError{Code: pgErrCodeSerializationFailure}
}

func TestWithinRetriesSerializationFailures(t *testing.T) {
	pool := &fakePool{}
	u := newPostgresUoW(pool, 3, time.Millisecond)

	calls := 0
	err := u.Within(context.Background(), func(context.Context, sqlc.DBTX) error {
		calls++
		if calls < 3 {
			return serializationFailure()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, pool.begins)
	assert.Equal(t, 1, pool.commits)
	assert.Equal(t, 2, pool.rollbacks)
	assert.Equal(t, pgx.Serializable, pool.lastOpts.IsoLevel)
}

func TestWithinGivesUpAfterMaxRetries(t *testing.T) {
	pool := &fakePool{}
	u := newPostgresUoW(pool, 2, time.Millisecond)

	err := u.Within(context.Background(), func(context.Context, sqlc.DBTX) error {
		return &pgconn.PgError{Code: pgErrCodeDeadlockDetected}
	})

	assert.True(t, errs.Is(err, ErrMaxRetriesExceeded))
	assert.Equal(t, 3, pool.begins)
	assert.Equal(t, 0, pool.commits)
}

func TestWithinDoesNotRetryOtherErrors(t *testing.T) {
	pool := &fakePool{}
	u := newPostgresUoW(pool, 3, time.Millisecond)
	boom := errs.New("boom")

	err := u.Within(context.Background(), func(context.Context, sqlc.DBTX) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, errs.Is(err, ErrMaxRetriesExceeded))
	assert.Equal(t, 1, pool.begins)
	assert.Equal(t, 1, pool.rollbacks)
}

func TestWithinStopsWhenContextIsDone(t *testing.T) {
	pool := &fakePool{}
	u := newPostgresUoW(pool, 5, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	err := u.Within(ctx, func(context.Context, sqlc.DBTX) error {
		cancel()
		return serializationFailure()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, pool.begins)
}

func TestCalculateBackoff(t *testing.T) {
	base := 10 * time.Millisecond
	for attempt := range 4 {
		got := calculateBackoff(attempt, base)
		floor := time.Duration(1<<attempt) * base
		assert.GreaterOrEqual(t, got, floor)
		assert.Less(t, got, floor+floor/5+time.Nanosecond)
	}
}
