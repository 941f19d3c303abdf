// Package db содержит инициализацию подключения к базе данных.
package db

import (
	"context"
	"fmt"

	"github.com/RoGogDBD/timberyard/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NewPool создает пул подключений к PostgreSQL с повторами и миграциями.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	if err := config.RetryDB(ctx, log, func() error {
		var err error
		pool, err = pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return err
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	log.Info("connected to PostgreSQL")

	if err := config.RetryDB(ctx, log, func() error {
		return RunMigrations(cfg.MigrationsPath, cfg.DSN, log)
	}); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations after retries: %w", err)
	}

	return pool, nil
}
