package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const roomColumns = `id, code, room_type, capacity, nightly_price_cents, published, occupied, cancellation_policy`

func scanRoom(row pgx.Row) (Room, error) {
	var r Room
	err := row.Scan(
		&r.ID,
		&r.Code,
		&r.RoomType,
		&r.Capacity,
		&r.NightlyPriceCents,
		&r.Published,
		&r.Occupied,
		&r.CancellationPolicy,
	)
	return r, err
}

func collectRooms(rows pgx.Rows, err error) ([]Room, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const getRoomsByIDs = `SELECT ` + roomColumns + `
FROM rooms
WHERE id = ANY($1::uuid[])
ORDER BY code`

func (q *Queries) GetRoomsByIDs(ctx context.Context, db DBTX, ids []pgtype.UUID) ([]Room, error) {
	return collectRooms(db.Query(ctx, getRoomsByIDs, ids))
}

const listPublishedRooms = `SELECT ` + roomColumns + `
FROM rooms
WHERE published
ORDER BY code`

func (q *Queries) ListPublishedRooms(ctx context.Context, db DBTX) ([]Room, error) {
	return collectRooms(db.Query(ctx, listPublishedRooms))
}

const listPublishedRoomsByType = `SELECT ` + roomColumns + `
FROM rooms
WHERE published AND room_type = $1
ORDER BY code`

func (q *Queries) ListPublishedRoomsByType(ctx context.Context, db DBTX, roomType string) ([]Room, error) {
	return collectRooms(db.Query(ctx, listPublishedRoomsByType, roomType))
}

const setRoomOccupied = `UPDATE rooms
SET occupied = $2, updated_at = now()
WHERE id = $1`

type SetRoomOccupiedParams struct {
	ID       uuid.UUID
	Occupied bool
}

func (q *Queries) SetRoomOccupied(ctx context.Context, db DBTX, arg SetRoomOccupiedParams) (int64, error) {
	tag, err := db.Exec(ctx, setRoomOccupied, arg.ID, arg.Occupied)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Advisory locks are keyed by the room id text so every writer of a room
// serialises on the same key; they are released at commit or rollback.
const lockRoom = `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`

func (q *Queries) LockRoom(ctx context.Context, db DBTX, roomID uuid.UUID) error {
	_, err := db.Exec(ctx, lockRoom, roomID.String())
	return err
}
