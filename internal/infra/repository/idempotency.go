package repository

import (
	"context"
	"time"

	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/pkg/pgconv"
	"hotel-reservation/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyWriteQueries interface {
	ClaimIdempotencyKey(ctx context.Context, db query.DBTX, arg query.ClaimIdempotencyKeyParams) (int64, error)
	CompleteIdempotencyKey(ctx context.Context, db query.DBTX, arg query.CompleteIdempotencyKeyParams) (int64, error)
	DeleteExpiredIdempotencyKeys(ctx context.Context, db query.DBTX, now pgtype.Timestamptz) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
	db      query.DBTX
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries, db query.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
	}
}

func (r *IdempotencyRepository) TryClaim(ctx context.Context, claim shared.IdempotencyClaim) (bool, error) {
	affected, err := r.queries.ClaimIdempotencyKey(ctx, r.db, query.ClaimIdempotencyKeyParams{
		Key:         claim.Key,
		Endpoint:    claim.Endpoint,
		RequestHash: claim.RequestHash,
		ExpiresAt:   pgconv.TimeToPgtype(claim.ExpiresAt),
		Now:         pgconv.TimeToPgtype(claim.Now),
	})
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}
	return affected == 1, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, key uuid.UUID, reservationIDs []uuid.UUID) error {
	affected, err := r.queries.CompleteIdempotencyKey(ctx, r.db, query.CompleteIdempotencyKeyParams{
		Key:            key,
		ReservationIDs: pgconv.UUIDsToPgtype(reservationIDs),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	count, err := r.queries.DeleteExpiredIdempotencyKeys(ctx, r.db, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}

	return count, nil
}
