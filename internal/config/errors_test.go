package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RoGogDBD/timberyard/internal/retry"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRetryDB(t *testing.T) {
	saved := dbRetryPolicy
	dbRetryPolicy.Backoff = retry.NewBackoff(time.Millisecond, time.Millisecond, false)
	t.Cleanup(func() { dbRetryPolicy = saved })

	connLost := &pgconn.PgError{Code: "08006", Message: "connection failure"}
	uniqueViolation := &pgconn.PgError{Code: "23505", Message: "duplicate key"}

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{name: "success", errs: []error{nil}, wantCalls: 1},
		{name: "recovers after connection error", errs: []error{connLost, connLost, nil}, wantCalls: 3},
		{name: "non retriable returns at once", errs: []error{uniqueViolation}, wantCalls: 1, wantErr: uniqueViolation},
		{name: "gives up", errs: []error{connLost, connLost, connLost, connLost, nil}, wantCalls: 4, wantErr: connLost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryDB(context.Background(), zap.NewNop(), func() error {
				err := tt.errs[calls]
				calls++
				return err
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestRetryDBStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryDB(ctx, zap.NewNop(), func() error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}
