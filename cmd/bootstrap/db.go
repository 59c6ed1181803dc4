package bootstrap

import (
	"context"
	"log/slog"

	"hotel-reservation/internal/infra/db"
	"hotel-reservation/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	logger.Info("データベースに接続しました", "host", cfg.DB.Host, "db", cfg.DB.DBName, "max_conns", pool.Config().MaxConns)

	lc.Append(fx.StopHook(pool.Close))
	return pool, nil
}
