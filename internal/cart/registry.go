package cart

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/RoGogDBD/timberyard/internal/repository"
)

const keyPrefix = "cart:"

// Registry выдает корзину по идентификатору сессии и держит в памяти
// не более maxLive корзин (LRU). Корзина, которую держит хотя бы один
// запрос, не вытесняется: у одной сессии в процессе всегда один Store.
// Вытесненная корзина перечитывается из kv.
type Registry struct {
	kv      repository.KVStore
	maxLive int

	mu     sync.Mutex
	stores map[string]*list.Element
	lru    *list.List
}

type liveCart struct {
	sessionID string
	store     *Store
	refs      int
}

func NewRegistry(kv repository.KVStore, maxLive int) *Registry {
	if maxLive <= 0 {
		maxLive = 1024
	}
	return &Registry{
		kv:      kv,
		maxLive: maxLive,
		stores:  make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Key возвращает ключ хранилища для корзины сессии.
func Key(sessionID string) string { return keyPrefix + sessionID }

// Acquire возвращает корзину сессии, загружая ее при первом обращении.
// release нужно вызвать, когда запрос закончил работу с корзиной.
func (r *Registry) Acquire(ctx context.Context, sessionID string) (*Store, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lc *liveCart
	if elem, ok := r.stores[sessionID]; ok {
		r.lru.MoveToBack(elem)
		lc = elem.Value.(*liveCart)
		lc.refs++
	} else {
		s, err := NewStore(ctx, r.kv, Key(sessionID))
		if err != nil {
			return nil, nil, err
		}
		lc = &liveCart{sessionID: sessionID, store: s, refs: 1}
		r.stores[sessionID] = r.lru.PushBack(lc)
		r.evictLocked()
	}

	var once sync.Once
	return lc.store, func() { once.Do(func() { r.release(lc) }) }, nil
}

// Move переносит сохраненную корзину на новый идентификатор сессии
// (после смены идентификатора при входе). Корзина под newID перезаписывается.
func (r *Registry) Move(ctx context.Context, oldID, newID string) error {
	if oldID == "" || oldID == newID {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if elem, ok := r.stores[oldID]; ok {
		lc := elem.Value.(*liveCart)
		// Записи старой корзины идут под writeMu: ждем последнюю.
		lc.store.writeMu.Lock()
		defer lc.store.writeMu.Unlock()
		r.forgetLocked(oldID)
	}
	r.forgetLocked(newID)

	data, err := r.kv.Get(ctx, Key(oldID))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("move cart: %w", err)
	}
	if err := r.kv.Set(ctx, Key(newID), data); err != nil {
		return fmt.Errorf("move cart: %w", err)
	}
	if err := r.kv.Delete(ctx, Key(oldID)); err != nil {
		return fmt.Errorf("move cart: %w", err)
	}
	return nil
}

func (r *Registry) forgetLocked(sessionID string) {
	if elem, ok := r.stores[sessionID]; ok {
		r.lru.Remove(elem)
		delete(r.stores, sessionID)
	}
}

func (r *Registry) release(lc *liveCart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lc.refs--
	r.evictLocked()
}

// evictLocked вытесняет самые давние корзины без активных запросов, пока
// их больше maxLive. Если заняты все, лимит временно превышается.
func (r *Registry) evictLocked() {
	for elem := r.lru.Front(); elem != nil && r.lru.Len() > r.maxLive; {
		next := elem.Next()
		lc := elem.Value.(*liveCart)
		if lc.refs == 0 {
			r.lru.Remove(elem)
			delete(r.stores, lc.sessionID)
		}
		elem = next
	}
}
