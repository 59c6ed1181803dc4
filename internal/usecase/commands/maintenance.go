package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"hotel-reservation/internal/pkg/clock"
	"hotel-reservation/internal/usecase/shared"
)

const (
	maxDeliveryAttempts = 5
	baseRetryDelay      = time.Minute
)

// MaintenanceCommands are the periodic jobs run by the scheduler.
type MaintenanceCommands interface {
	RelayNotifications(ctx context.Context) (int, error)
	PurgeExpiredIdempotencyKeys(ctx context.Context) (int64, error)
}

type maintenanceUseCaseImpl struct {
	uow       shared.UnitOfWork
	notifier  shared.Notifier
	clock     clock.Clock
	batchSize int
}

func NewMaintenanceUseCase(uow shared.UnitOfWork, notifier shared.Notifier, clk clock.Clock, batchSize int) MaintenanceCommands {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &maintenanceUseCaseImpl{uow: uow, notifier: notifier, clock: clk, batchSize: batchSize}
}

// RelayNotifications redelivers queued notifications. Failed jobs back off
// exponentially and are parked as failed after maxDeliveryAttempts.
func (uc *maintenanceUseCaseImpl) RelayNotifications(ctx context.Context) (int, error) {
	sent := 0
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := uc.clock.Now()

		jobs, err := tx.Notifications().ClaimDue(ctx, now, uc.batchSize)
		if err != nil {
			return persistenceErr(err, "claim notification jobs")
		}

		for _, job := range jobs {
			var n shared.Notification
			if err := json.Unmarshal(job.Payload, &n); err != nil {
				slog.Error("dropping undecodable notification job", "job_id", job.ID.String(), "error", err.Error())
				if err := tx.Notifications().Reschedule(ctx, job.ID, now, err.Error(), true); err != nil {
					return persistenceErr(err, "park notification job")
				}
				continue
			}

			if err := uc.notifier.Notify(ctx, n); err != nil {
				giveUp := job.Attempts+1 >= maxDeliveryAttempts
				next := now.Add(retryDelay(job.Attempts))
				slog.Warn("notification redelivery failed",
					"job_id", job.ID.String(),
					"attempt", job.Attempts+1,
					"give_up", giveUp,
					"error", err.Error())
				if err := tx.Notifications().Reschedule(ctx, job.ID, next, err.Error(), giveUp); err != nil {
					return persistenceErr(err, "reschedule notification job")
				}
				continue
			}

			if err := tx.Notifications().MarkSent(ctx, job.ID); err != nil {
				return persistenceErr(err, "mark notification job sent")
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sent, nil
}

func retryDelay(attempts int) time.Duration {
	if attempts > 6 {
		attempts = 6
	}
	return baseRetryDelay << attempts
}

func (uc *maintenanceUseCaseImpl) PurgeExpiredIdempotencyKeys(ctx context.Context) (int64, error) {
	var deleted int64
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Idempotency().DeleteExpired(ctx, uc.clock.Now())
		if err != nil {
			return persistenceErr(err, "delete expired idempotency keys")
		}
		deleted = n
		return nil
	})
	return deleted, err
}
