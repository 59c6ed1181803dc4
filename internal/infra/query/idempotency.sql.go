package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// An expired key is taken over by the new request; a live one is left alone
// and the statement affects no row. A concurrent insert of the same key
// blocks here until the other transaction ends.
const claimIdempotencyKey = `INSERT INTO idempotency_keys (key, endpoint, request_hash, status, reservation_ids, expires_at)
VALUES ($1, $2, $3, 'processing', '{}', $4)
ON CONFLICT (key) DO UPDATE
SET endpoint        = EXCLUDED.endpoint,
    request_hash    = EXCLUDED.request_hash,
    status          = 'processing',
    reservation_ids = '{}',
    created_at      = now(),
    expires_at      = EXCLUDED.expires_at
WHERE idempotency_keys.expires_at <= $5`

type ClaimIdempotencyKeyParams struct {
	Key         uuid.UUID
	Endpoint    string
	RequestHash string
	ExpiresAt   pgtype.Timestamptz
	Now         pgtype.Timestamptz
}

func (q *Queries) ClaimIdempotencyKey(ctx context.Context, db DBTX, arg ClaimIdempotencyKeyParams) (int64, error) {
	tag, err := db.Exec(ctx, claimIdempotencyKey, arg.Key, arg.Endpoint, arg.RequestHash, arg.ExpiresAt, arg.Now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getIdempotencyKey = `SELECT key, endpoint, request_hash, status, reservation_ids, expires_at
FROM idempotency_keys
WHERE key = $1`

func (q *Queries) GetIdempotencyKey(ctx context.Context, db DBTX, key uuid.UUID) (IdempotencyKey, error) {
	var k IdempotencyKey
	err := db.QueryRow(ctx, getIdempotencyKey, key).Scan(
		&k.Key,
		&k.Endpoint,
		&k.RequestHash,
		&k.Status,
		&k.ReservationIDs,
		&k.ExpiresAt,
	)
	return k, err
}

const completeIdempotencyKey = `UPDATE idempotency_keys
SET status = 'completed', reservation_ids = $2
WHERE key = $1`

type CompleteIdempotencyKeyParams struct {
	Key            uuid.UUID
	ReservationIDs []pgtype.UUID
}

func (q *Queries) CompleteIdempotencyKey(ctx context.Context, db DBTX, arg CompleteIdempotencyKeyParams) (int64, error) {
	tag, err := db.Exec(ctx, completeIdempotencyKey, arg.Key, arg.ReservationIDs)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteExpiredIdempotencyKeys = `DELETE FROM idempotency_keys WHERE expires_at <= $1`

func (q *Queries) DeleteExpiredIdempotencyKeys(ctx context.Context, db DBTX, now pgtype.Timestamptz) (int64, error) {
	tag, err := db.Exec(ctx, deleteExpiredIdempotencyKeys, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
