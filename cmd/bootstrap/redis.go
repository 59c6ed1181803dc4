package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"hotel-reservation/internal/infra/cache"
	"hotel-reservation/internal/pkg/config"
	"hotel-reservation/internal/usecase/shared"

	"go.uber.org/fx"
)

const connectTimeout = 10 * time.Second

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewCalendarCache,
	),
)

// REDIS_ADDR が空ならキャッシュ無しで動かす
func NewCalendarCache(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.CalendarCache, error) {
	if !cfg.Redis.Enabled() {
		logger.Info("Redis未設定のためカレンダーキャッシュを無効化します")
		return cache.NopCalendarCache{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, cleanup, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	logger.Info("Redisに接続しました", "addr", cfg.Redis.Addr)
	return cache.NewRedisCalendarCache(client, cfg.Redis.CalendarCacheTTL), nil
}
