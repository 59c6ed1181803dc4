package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"hotel-reservation/internal/jobs"
	"hotel-reservation/internal/pkg/config"
	"hotel-reservation/internal/usecase/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Invoke(
		StartScheduler,
	),
)

func StartScheduler(
	lc fx.Lifecycle,
	cfg config.Config,
	logger *slog.Logger,
	reservations commands.ReservationCommands,
	maintenance commands.MaintenanceCommands,
) error {
	if !cfg.Scheduler.Enabled {
		logger.Info("スケジューラは無効です")
		return nil
	}

	// 日付の境界はUTCで判定する
	c := cron.New(cron.WithLocation(time.UTC))
	if err := jobs.Register(c, jobs.ReservationJobs(cfg.Scheduler, reservations, maintenance)); err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			c.Start()
			logger.Info("⏰ スケジューラを起動しました")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
				logger.Warn("実行中のジョブを待たずにスケジューラを停止します")
			}
			return nil
		},
	})
	return nil
}
