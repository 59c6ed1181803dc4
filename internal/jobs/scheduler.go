package jobs

import (
	"context"
	"log/slog"
	"time"

	"hotel-reservation/internal/pkg/config"
	"hotel-reservation/internal/usecase/commands"

	"github.com/robfig/cron/v3"
)

// upper bound for a single run
const jobTimeout = 5 * time.Minute

type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

func ReservationJobs(
	cfg config.SchedulerConfig,
	reservations commands.ReservationCommands,
	maintenance commands.MaintenanceCommands,
) []Job {
	return []Job{
		{
			Name: "completion-sweep",
			Spec: cfg.CompletionSweepSpec,
			Run: func(ctx context.Context) error {
				n, err := reservations.CompleteEndedStays(ctx)
				slog.Info("completion sweep ran", "completed", n)
				return err
			},
		},
		{
			Name: "outbox-relay",
			Spec: cfg.OutboxRelaySpec,
			Run: func(ctx context.Context) error {
				n, err := maintenance.RelayNotifications(ctx)
				if n > 0 {
					slog.Info("notification outbox relayed", "delivered", n)
				}
				return err
			},
		},
		{
			Name: "idempotency-purge",
			Spec: cfg.IdempotencyPurgeSpec,
			Run: func(ctx context.Context) error {
				n, err := maintenance.PurgeExpiredIdempotencyKeys(ctx)
				if n > 0 {
					slog.Info("expired idempotency keys purged", "deleted", n)
				}
				return err
			},
		},
	}
}

// Register adds every job to c. A job never runs concurrently with itself.
func Register(c *cron.Cron, jobs []Job) error {
	for _, job := range jobs {
		wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(runner(job)))
		if _, err := c.AddJob(job.Spec, wrapped); err != nil {
			return err
		}
		slog.Info("scheduled job registered", "job", job.Name, "spec", job.Spec)
	}
	return nil
}

func runner(job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job.Run(ctx); err != nil {
			slog.Error("scheduled job failed", "job", job.Name, "error", err.Error(), "duration", time.Since(start))
			return
		}
		slog.Debug("scheduled job finished", "job", job.Name, "duration", time.Since(start))
	}
}
