// Package retry содержит повторы с экспоненциальной задержкой.
package retry

import (
	"context"
	"math/rand/v2"
	"time"
)

// Backoff рассчитывает задержку base*2^attempt, ограниченную cap.
// С Jitter задержка выбирается равномерно из [0, wait].
type Backoff struct {
	Base   time.Duration
	Cap    time.Duration
	Jitter bool
}

// NewBackoff создает Backoff; base не может превышать cap.
func NewBackoff(base, capDur time.Duration, jitter bool) *Backoff {
	if capDur > 0 && base > capDur {
		base = capDur
	}
	return &Backoff{Base: base, Cap: capDur, Jitter: jitter}
}

// WaitDuration возвращает задержку перед повтором (attempt с нуля).
func (b *Backoff) WaitDuration(attempt int) time.Duration {
	if b == nil || b.Base <= 0 || attempt < 0 {
		return 0
	}

	wait := b.Base
	for i := 0; i < attempt; i++ {
		if b.Cap > 0 && wait >= b.Cap {
			break
		}
		if wait > time.Duration(1<<62) {
			break
		}
		wait *= 2
	}
	if b.Cap > 0 && wait > b.Cap {
		wait = b.Cap
	}
	if !b.Jitter {
		return wait
	}
	return time.Duration(rand.Int64N(int64(wait) + 1))
}

// Policy задает правила повторов.
type Policy struct {
	MaxRetries  int
	Backoff     *Backoff
	ShouldRetry func(err error) bool
}

// NewPolicy собирает политику из настроек.
func NewPolicy(maxRetries int, base, capDur time.Duration, jitter bool) Policy {
	return Policy{
		MaxRetries: maxRetries,
		Backoff:    NewBackoff(base, capDur, jitter),
	}
}

// Do выполняет op не более MaxRetries+1 раз. onRetry вызывается перед
// каждым повтором с номером неудачной попытки (с единицы).
func Do(ctx context.Context, policy Policy, op func() error, onRetry func(err error, attempt int, wait time.Duration)) error {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = op(); lastErr == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if policy.ShouldRetry != nil && !policy.ShouldRetry(lastErr) {
			return lastErr
		}
		if attempt == policy.MaxRetries {
			break
		}

		wait := policy.Backoff.WaitDuration(attempt)
		if onRetry != nil {
			onRetry(lastErr, attempt+1, wait)
		}
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
