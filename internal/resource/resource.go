// Package resource хранит локальное состояние удаленных коллекций.
//
// Resource загружает список целиком, хранит последнюю успешную версию,
// сообщение последней ошибки и флаг загрузки. Изменяющие операции сначала
// вызывают API и только после подтверждения меняют локальный список.
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrSuperseded возвращается Load, если его результат вытеснила более новая загрузка.
	ErrSuperseded = errors.New("resource: load superseded")
	// ErrClosed возвращается после Close.
	ErrClosed = errors.New("resource: closed")
	// ErrReadOnly возвращается изменяющими операциями ресурса без Mutator.
	ErrReadOnly = errors.New("resource: read only")
)

// Identifiable - запись с идентификатором.
type Identifiable interface {
	GetID() string
}

// Fetcher загружает коллекцию.
type Fetcher[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// Mutator изменяет записи коллекции и возвращает их серверное представление.
type Mutator[T any] interface {
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

// State - снимок состояния ресурса.
type State[T any] struct {
	Data     []T       `json:"data"`
	Loading  bool      `json:"loading"`
	Err      string    `json:"error,omitempty"`
	LoadedAt time.Time `json:"loadedAt,omitempty"`
}

// Resource - коллекция записей T.
type Resource[T Identifiable] struct {
	name    string
	fetcher Fetcher[T]
	mutator Mutator[T]
	log     *zap.Logger

	mu        sync.Mutex
	state     State[T]
	gen       uint64
	cancel    context.CancelFunc
	closed    bool
	listeners map[int]func(State[T])
	nextID    int
}

// New создает ресурс. mutator может быть nil.
func New[T Identifiable](name string, fetcher Fetcher[T], mutator Mutator[T], log *zap.Logger) *Resource[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resource[T]{
		name:      name,
		fetcher:   fetcher,
		mutator:   mutator,
		log:       log.With(zap.String("resource", name)),
		state:     State[T]{Data: []T{}},
		listeners: make(map[int]func(State[T])),
	}
}

// Load загружает коллекцию. Успех заменяет данные целиком и сбрасывает
// ошибку; неудача сохраняет прежние данные и записывает сообщение.
// Новый вызов Load отменяет предыдущий, и тот уже не меняет состояние.
func (r *Resource[T]) Load(ctx context.Context) error {
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
	r.notifyLocked()
	r.mu.Unlock()

	data, err := r.fetcher.List(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	cancel()

	if r.closed || gen != r.gen {
		r.log.Debug("discarding stale load", zap.Uint64("generation", gen))
		return ErrSuperseded
	}
	r.cancel = nil
	r.state.Loading = false

	if err != nil {
		r.state.Err = errorMessage(r.name, err)
		r.log.Warn("load failed", zap.Error(err))
		r.notifyLocked()
		return fmt.Errorf("load %s: %w", r.name, err)
	}

	if data == nil {
		data = []T{}
	}
	r.state.Data = data
	r.state.Err = ""
	r.state.LoadedAt = time.Now()
	r.notifyLocked()
	return nil
}

// State возвращает копию текущего состояния.
func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Find ищет запись по идентификатору.
func (r *Resource[T]) Find(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.state.Data {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Add создает запись через API и добавляет ответ сервера в конец списка.
func (r *Resource[T]) Add(ctx context.Context, item T) (T, error) {
	if r.mutator == nil {
		var zero T
		return zero, ErrReadOnly
	}
	created, err := r.mutator.Create(ctx, item)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("create %s: %w", r.name, err)
	}
	r.Upsert(created)
	return created, nil
}

// Update изменяет запись через API и заменяет ее локальную копию ответом сервера.
func (r *Resource[T]) Update(ctx context.Context, id string, item T) (T, error) {
	if r.mutator == nil {
		var zero T
		return zero, ErrReadOnly
	}
	updated, err := r.mutator.Update(ctx, id, item)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("update %s %q: %w", r.name, id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.state.Data {
		if r.state.Data[i].GetID() == id {
			data := r.copyDataLocked()
			data[i] = updated
			r.state.Data = data
			r.notifyLocked()
			break
		}
	}
	return updated, nil
}

// Delete удаляет запись через API, затем из локального списка.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if r.mutator == nil {
		return ErrReadOnly
	}
	if err := r.mutator.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %q: %w", r.name, id, err)
	}
	r.Remove(id)
	return nil
}

// Upsert применяет запись локально без вызова API: заменяет по ID или добавляет.
func (r *Resource[T]) Upsert(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.copyDataLocked()
	replaced := false
	for i := range data {
		if data[i].GetID() == item.GetID() {
			data[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		data = append(data, item)
	}
	r.state.Data = data
	r.notifyLocked()
}

// Remove удаляет запись локально без вызова API.
func (r *Resource[T]) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]T, 0, len(r.state.Data))
	for _, item := range r.state.Data {
		if item.GetID() != id {
			data = append(data, item)
		}
	}
	if len(data) == len(r.state.Data) {
		return
	}
	r.state.Data = data
	r.notifyLocked()
}

// Subscribe регистрирует слушателя изменений состояния. Слушатель
// вызывается под блокировкой ресурса и не должен обращаться к нему.
func (r *Resource[T]) Subscribe(fn func(State[T])) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// Close отменяет незавершенную загрузку и запрещает новые.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Resource[T]) copyDataLocked() []T {
	out := make([]T, len(r.state.Data))
	copy(out, r.state.Data)
	return out
}

func (r *Resource[T]) snapshotLocked() State[T] {
	s := r.state
	s.Data = r.copyDataLocked()
	return s
}

func (r *Resource[T]) notifyLocked() {
	if len(r.listeners) == 0 {
		return
	}
	snap := r.snapshotLocked()
	for _, fn := range r.listeners {
		fn(snap)
	}
}

func errorMessage(name string, err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "failed to load " + name
}
