package db

import (
	"context"
	"fmt"
	"time"

	"hotel-reservation/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxConnLifetime = time.Hour
	maxConnIdleTime = 30 * time.Minute
)

// Connect opens the pool and fails fast when the database is unreachable.
// Closing the pool is the caller's job.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.BuildDSN())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MaxConnLifetime = maxConnLifetime
	poolCfg.MaxConnIdleTime = maxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open database %s@%s: %w", cfg.DBName, cfg.Host, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database %s@%s: %w", cfg.DBName, cfg.Host, err)
	}
	return pool, nil
}
