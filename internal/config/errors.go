package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoGogDBD/timberyard/internal/retry"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// dbRetryPolicy: до трех повторов с паузой 1s, 2s, 4s (не больше 5s).
var dbRetryPolicy = retry.Policy{
	MaxRetries:  3,
	Backoff:     retry.NewBackoff(time.Second, 5*time.Second, false),
	ShouldRetry: isRetriableError,
}

// RetryDB выполняет op, повторяя ее при ошибках соединения Postgres.
// Остальные ошибки возвращаются сразу.
func RetryDB(ctx context.Context, log *zap.Logger, op func() error) error {
	err := retry.Do(ctx, dbRetryPolicy, op, func(err error, attempt int, wait time.Duration) {
		log.Warn("retriable database error",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", dbRetryPolicy.MaxRetries+1),
			zap.Duration("wait", wait),
		)
	})
	if err != nil && isRetriableError(err) {
		return fmt.Errorf("operation failed after retries: %w", err)
	}
	return err
}

// isRetriableError: класс 08 (connection exception) и ошибки установки соединения.
func isRetriableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08"
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
