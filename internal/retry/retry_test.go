package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoffWaitDuration(t *testing.T) {
	b := NewBackoff(100*time.Millisecond, time.Second, false)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: -1, want: 0},
		{attempt: 0, want: 100 * time.Millisecond},
		{attempt: 1, want: 200 * time.Millisecond},
		{attempt: 3, want: 800 * time.Millisecond},
		{attempt: 4, want: time.Second},
		{attempt: 60, want: time.Second},
	}
	for _, tt := range tests {
		if got := b.WaitDuration(tt.attempt); got != tt.want {
			t.Fatalf("attempt %d: got %v, want %v", tt.attempt, got, tt.want)
		}
	}

	jittered := NewBackoff(100*time.Millisecond, time.Second, true)
	for i := 0; i < 100; i++ {
		if got := jittered.WaitDuration(2); got < 0 || got > 400*time.Millisecond {
			t.Fatalf("jitter out of range: %v", got)
		}
	}

	var nilBackoff *Backoff
	if nilBackoff.WaitDuration(3) != 0 {
		t.Fatalf("nil backoff must not wait")
	}
}

func TestDo(t *testing.T) {
	errTemp := errors.New("temporary")
	errFatal := errors.New("fatal")

	tests := []struct {
		name        string
		policy      Policy
		failures    int
		failWith    error
		wantErr     error
		wantCalls   int
		wantRetries int
	}{
		{name: "first try", policy: Policy{MaxRetries: 3}, failures: 0, wantCalls: 1},
		{name: "succeeds after retries", policy: Policy{MaxRetries: 3}, failures: 2, failWith: errTemp, wantCalls: 3, wantRetries: 2},
		{name: "exhausted", policy: Policy{MaxRetries: 2}, failures: 10, failWith: errTemp, wantErr: errTemp, wantCalls: 3, wantRetries: 2},
		{
			name:      "not retriable",
			policy:    Policy{MaxRetries: 5, ShouldRetry: func(err error) bool { return !errors.Is(err, errFatal) }},
			failures:  10,
			failWith:  errFatal,
			wantErr:   errFatal,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, retries := 0, 0
			err := Do(context.Background(), tt.policy, func() error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			}, func(error, int, time.Duration) { retries++ })

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("unexpected error: %v", err)
			}
			if calls != tt.wantCalls {
				t.Fatalf("calls: got %d, want %d", calls, tt.wantCalls)
			}
			if retries != tt.wantRetries {
				t.Fatalf("retries: got %d, want %d", retries, tt.wantRetries)
			}
		})
	}
}

func TestDoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := NewPolicy(5, time.Hour, time.Hour, false)

	calls := 0
	err := Do(ctx, policy, func() error {
		calls++
		return errors.New("down")
	}, func(error, int, time.Duration) { cancel() })

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls: got %d", calls)
	}
}
