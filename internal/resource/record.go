package resource

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Getter загружает одиночную запись.
type Getter[T any] interface {
	Get(ctx context.Context) (T, error)
}

// Saver сохраняет одиночную запись и возвращает серверное представление.
type Saver[T any] interface {
	Save(ctx context.Context, value T) (T, error)
}

// RecordState - снимок состояния одиночной записи.
type RecordState[T any] struct {
	Data     T         `json:"data"`
	Loaded   bool      `json:"loaded"`
	Loading  bool      `json:"loading"`
	Err      string    `json:"error,omitempty"`
	LoadedAt time.Time `json:"loadedAt,omitempty"`
}

// Record - одиночная запись (например, настройки сайта) с теми же правилами,
// что у Resource.
type Record[T any] struct {
	name   string
	getter Getter[T]
	saver  Saver[T]

	mu     sync.Mutex
	state  RecordState[T]
	gen    uint64
	cancel context.CancelFunc
	closed bool
}

func NewRecord[T any](name string, getter Getter[T], saver Saver[T]) *Record[T] {
	return &Record[T]{name: name, getter: getter, saver: saver}
}

func (r *Record[T]) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	gen := r.gen
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.state.Loading = true
	r.mu.Unlock()

	value, err := r.getter.Get(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	cancel()
	if r.closed || gen != r.gen {
		return ErrSuperseded
	}
	r.cancel = nil
	r.state.Loading = false
	if err != nil {
		r.state.Err = errorMessage(r.name, err)
		return fmt.Errorf("load %s: %w", r.name, err)
	}
	r.state.Data = value
	r.state.Loaded = true
	r.state.Err = ""
	r.state.LoadedAt = time.Now()
	return nil
}

// Save сохраняет значение через API; локальное состояние меняется только
// после подтверждения.
func (r *Record[T]) Save(ctx context.Context, value T) (T, error) {
	if r.saver == nil {
		var zero T
		return zero, ErrReadOnly
	}
	saved, err := r.saver.Save(ctx, value)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("save %s: %w", r.name, err)
	}
	r.mu.Lock()
	r.state.Data = saved
	r.state.Loaded = true
	r.mu.Unlock()
	return saved, nil
}

func (r *Record[T]) State() RecordState[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Close отменяет незавершенную загрузку; последующие Load возвращают ErrClosed.
func (r *Record[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.gen++
	r.state.Loading = false
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
