//go:build integration

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RoGogDBD/timberyard/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const kvSchema = `CREATE TABLE IF NOT EXISTS kv_store (
    key        TEXT PRIMARY KEY,
    value      BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("timberyard"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, kvSchema)
	require.NoError(t, err)
	return pool
}

func TestPostgresStorage(t *testing.T) {
	ctx := context.Background()
	store := repository.NewPostgresStorage(startPostgres(t))

	_, err := store.Get(ctx, "cart:missing")
	require.True(t, errors.Is(err, repository.ErrNotFound))

	require.NoError(t, store.Set(ctx, "cart:1", []byte(`[{"id":"a"}]`)))
	require.NoError(t, store.Set(ctx, "cart:1", []byte(`[]`)))

	got, err := store.Get(ctx, "cart:1")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(got))

	require.NoError(t, store.Delete(ctx, "cart:1"))
	_, err = store.Get(ctx, "cart:1")
	require.True(t, errors.Is(err, repository.ErrNotFound))
}
