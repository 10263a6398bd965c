package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"subspace_duel/internal/logger"
)

// Connect opens and pings a pool. History is optional, so failures are
// returned rather than fatal.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 8
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("database connected", "max_conns", cfg.MaxConns)
	return pool, nil
}
