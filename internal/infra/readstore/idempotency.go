package readstore

import (
	"context"

	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/pkg/pgconv"
	"hotel-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyReadQueries interface {
	GetIdempotencyKey(ctx context.Context, db query.DBTX, key uuid.UUID) (query.IdempotencyKey, error)
}

type IdempotencyReadStore struct {
	queries IdempotencyReadQueries
	db      query.DBTX
}

func NewIdempotencyReadStore(queries IdempotencyReadQueries, db query.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{
		queries: queries,
		db:      db,
	}
}

// Get returns the stored record regardless of expiry; expiry is decided by the claim.
func (r *IdempotencyReadStore) Get(ctx context.Context, key uuid.UUID) (*shared.IdempotencyRecord, error) {
	row, err := r.queries.GetIdempotencyKey(ctx, r.db, key)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	return &shared.IdempotencyRecord{
		Key:            row.Key,
		Endpoint:       row.Endpoint,
		RequestHash:    row.RequestHash,
		Status:         row.Status,
		ReservationIDs: pgconv.UUIDsFromPgtype(row.ReservationIDs),
		ExpiresAt:      pgconv.TimeFromPgtype(row.ExpiresAt),
	}, nil
}
