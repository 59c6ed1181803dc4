//go:build e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"hotel-reservation/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// Conn is satisfied by both *pgxpool.Pool and pgx.Tx.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func CreateTestRoom(t *testing.T, db Conn, rb *builder.RoomBuilder) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, `
		INSERT INTO rooms (id, code, room_type, capacity, nightly_price_cents, published, occupied, cancellation_policy)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rb.ID, rb.Code, rb.Type, rb.Capacity, rb.NightlyPriceCents, rb.Published, rb.Occupied, rb.CancellationPolicy)
	require.NoError(t, err)

	return rb.ID
}

func RoomOccupied(t *testing.T, db Conn, roomID uuid.UUID) bool {
	t.Helper()

	var occupied bool
	err := db.QueryRow(context.Background(), "SELECT occupied FROM rooms WHERE id = $1", roomID).Scan(&occupied)
	require.NoError(t, err)
	return occupied
}

func CountReservations(t *testing.T, db Conn, roomID uuid.UUID, status string) int {
	t.Helper()
	return count(t, db, "SELECT count(*) FROM reservations WHERE room_id = $1 AND status = $2", roomID, status)
}

// forces a stay into the past so the completion sweep picks it up
func MoveStay(t *testing.T, db Conn, reservationID uuid.UUID, checkIn, checkOut time.Time) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		UPDATE reservations
		SET check_in = $2, check_out = $3,
		    occupied_days = ARRAY(SELECT d::date FROM generate_series($2::date, $3::date - 1, interval '1 day') AS d)
		WHERE id = $1`,
		reservationID, checkIn, checkOut)
	require.NoError(t, err)
}

func CountNotificationJobs(t *testing.T, db Conn, status string) int {
	t.Helper()
	return count(t, db, "SELECT count(*) FROM notification_jobs WHERE status = $1", status)
}

func count(t *testing.T, db Conn, sql string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(context.Background(), sql, args...).Scan(&n))
	return n
}

// reservation tables in dependency order; rooms last
var resettable = []string{"notification_jobs", "idempotency_keys", "reservations", "rooms"}

// ResetDB empties every reservation table between subtests.
func ResetDB(db Conn) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.Exec(ctx, "TRUNCATE "+strings.Join(resettable, ", ")+" CASCADE"); err != nil {
		return fmt.Errorf("reset test database: %w", err)
	}
	return nil
}
