//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestRoom(t *testing.T, db DBLike, name string, capacity int, features ...string) uuid.UUID {
	t.Helper()

	if features == nil {
		features = []string{}
	}
	roomID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO rooms (id, name, capacity, features) VALUES ($1, $2, $3, $4)",
		roomID, name, capacity, features)
	require.NoError(t, err)

	return roomID
}

// CreateTestReservation inserts a confirmed reservation directly, bypassing
// the overlap checks of the application. The exclusion constraint still applies.
func CreateTestReservation(t *testing.T, db DBLike, roomID uuid.UUID, requester string, start, end time.Time) uuid.UUID {
	t.Helper()

	resID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO reservations (id, room_id, start_time, end_time, requester, status) VALUES ($1, $2, $3, $4, $5, 'confirmed')",
		resID, roomID, start, end, requester)
	require.NoError(t, err)

	return resID
}

func CountConfirmed(t *testing.T, db DBLike, roomID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM reservations WHERE room_id = $1 AND status = 'confirmed'", roomID).Scan(&n)
	require.NoError(t, err)

	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
