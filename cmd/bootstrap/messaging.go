package bootstrap

import (
	"context"
	"log/slog"

	"hotel-reservation/internal/infra/messaging"
	"hotel-reservation/internal/pkg/config"
	"hotel-reservation/internal/usecase/shared"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewNotifier,
	),
)

// AMQP_URL が空ならログ出力のみ
func NewNotifier(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) shared.Notifier {
	if !cfg.AMQP.Enabled() {
		logger.Info("AMQP未設定のため通知はログ出力のみになります")
		return messaging.NewLogNotifier(logger)
	}

	notifier := messaging.NewAMQPNotifier(cfg.AMQP.URL, cfg.AMQP.Queue)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return notifier.Close()
		},
	})
	return notifier
}
