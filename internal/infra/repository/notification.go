package repository

import (
	"context"
	"time"

	"hotel-reservation/internal/infra"
	"hotel-reservation/internal/infra/query"
	"hotel-reservation/internal/pkg/pgconv"
	"hotel-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationWriteQueries interface {
	CreateNotificationJob(ctx context.Context, db query.DBTX, arg query.CreateNotificationJobParams) error
	ClaimDueNotificationJobs(ctx context.Context, db query.DBTX, arg query.ClaimDueNotificationJobsParams) ([]query.NotificationJob, error)
	MarkNotificationJobSent(ctx context.Context, db query.DBTX, id uuid.UUID) error
	RescheduleNotificationJob(ctx context.Context, db query.DBTX, arg query.RescheduleNotificationJobParams) error
}

type NotificationRepository struct {
	queries NotificationWriteQueries
	db      query.DBTX
}

func NewNotificationRepository(queries NotificationWriteQueries, db query.DBTX) *NotificationRepository {
	return &NotificationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *NotificationRepository) Enqueue(ctx context.Context, job shared.NotificationJob) error {
	params := query.CreateNotificationJobParams{
		Kind:    job.Kind,
		Topic:   job.Topic,
		Payload: job.Payload,
		RunAt:   pgconv.TimeToPgtype(job.RunAt),
	}

	if err := r.queries.CreateNotificationJob(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]shared.NotificationJob, error) {
	rows, err := r.queries.ClaimDueNotificationJobs(ctx, r.db, query.ClaimDueNotificationJobsParams{
		Now:   pgconv.TimeToPgtype(now),
		Limit: clampLimit(limit),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}

	jobs := make([]shared.NotificationJob, len(rows))
	for i, row := range rows {
		jobs[i] = shared.NotificationJob{
			ID:       row.ID,
			Kind:     row.Kind,
			Topic:    row.Topic,
			Payload:  row.Payload,
			Attempts: int(row.Attempts),
			RunAt:    pgconv.TimeFromPgtype(row.RunAt),
		}
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	if err := r.queries.MarkNotificationJobSent(ctx, r.db, id); err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}
	return nil
}

func (r *NotificationRepository) Reschedule(ctx context.Context, id uuid.UUID, runAt time.Time, lastErr string, giveUp bool) error {
	params := query.RescheduleNotificationJobParams{
		ID:        id,
		RunAt:     pgconv.TimeToPgtype(runAt),
		LastError: lastErr,
		GiveUp:    giveUp,
	}

	if err := r.queries.RescheduleNotificationJob(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to reschedule notification job", err)
	}
	return nil
}

func clampLimit(limit int) int32 {
	const maxLimit = 1000
	switch {
	case limit <= 0:
		return 1
	case limit > maxLimit:
		return maxLimit
	default:
		return int32(limit) // #nosec G115 -- bounded above
	}
}
