package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createNotificationJob = `INSERT INTO notification_jobs (kind, topic, payload, status, run_at)
VALUES ($1, $2, $3::jsonb, 'pending', $4)`

type CreateNotificationJobParams struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   pgtype.Timestamptz
}

func (q *Queries) CreateNotificationJob(ctx context.Context, db DBTX, arg CreateNotificationJobParams) error {
	_, err := db.Exec(ctx, createNotificationJob, arg.Kind, arg.Topic, string(arg.Payload), arg.RunAt)
	return err
}

// Rows are locked with SKIP LOCKED so overlapping relay runs never pick the same job.
const claimDueNotificationJobs = `SELECT id, kind, topic, payload, status, attempts, run_at
FROM notification_jobs
WHERE status = 'pending' AND run_at <= $1
ORDER BY run_at, id
LIMIT $2
FOR UPDATE SKIP LOCKED`

type ClaimDueNotificationJobsParams struct {
	Now   pgtype.Timestamptz
	Limit int32
}

func (q *Queries) ClaimDueNotificationJobs(ctx context.Context, db DBTX, arg ClaimDueNotificationJobsParams) ([]NotificationJob, error) {
	rows, err := db.Query(ctx, claimDueNotificationJobs, arg.Now, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []NotificationJob
	for rows.Next() {
		var j NotificationJob
		if err := rows.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.Status, &j.Attempts, &j.RunAt); err != nil {
			return nil, err
		}
		items = append(items, j)
	}
	return items, rows.Err()
}

const markNotificationJobSent = `UPDATE notification_jobs
SET status = 'sent', attempts = attempts + 1, last_error = NULL, updated_at = now()
WHERE id = $1`

func (q *Queries) MarkNotificationJobSent(ctx context.Context, db DBTX, id uuid.UUID) error {
	_, err := db.Exec(ctx, markNotificationJobSent, id)
	return err
}

const rescheduleNotificationJob = `UPDATE notification_jobs
SET attempts   = attempts + 1,
    last_error = $3,
    run_at     = $2,
    status     = CASE WHEN $4::boolean THEN 'failed' ELSE 'pending' END,
    updated_at = now()
WHERE id = $1`

type RescheduleNotificationJobParams struct {
	ID        uuid.UUID
	RunAt     pgtype.Timestamptz
	LastError string
	GiveUp    bool
}

func (q *Queries) RescheduleNotificationJob(ctx context.Context, db DBTX, arg RescheduleNotificationJobParams) error {
	_, err := db.Exec(ctx, rescheduleNotificationJob, arg.ID, arg.RunAt, arg.LastError, arg.GiveUp)
	return err
}
