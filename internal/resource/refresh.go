package resource

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Loader - все, что умеет загружаться.
type Loader interface {
	Load(ctx context.Context) error
}

// LoadAll запускает независимые загрузки параллельно. Порядок завершения не
// гарантирован, ошибки не агрегируются: каждая остается в своем ресурсе.
func LoadAll(ctx context.Context, log *zap.Logger, loaders map[string]Loader) {
	var wg sync.WaitGroup
	for name, l := range loaders {
		wg.Add(1)
		go func(name string, l Loader) {
			defer wg.Done()
			if err := l.Load(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
				log.Warn("initial load failed", zap.String("resource", name), zap.Error(err))
			}
		}(name, l)
	}
	wg.Wait()
}

// Refresh перезагружает ресурсы с интервалом до отмены ctx.
func Refresh(ctx context.Context, interval time.Duration, log *zap.Logger, loaders map[string]Loader) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			LoadAll(ctx, log, loaders)
		}
	}
}
