package repository

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type (
	// MemStorage хранит значения в памяти с вытеснением LRU и TTL.
	MemStorage struct {
		entries  map[string]*list.Element
		lruList  *list.List
		mu       sync.Mutex
		maxItems int
		ttl      time.Duration
		now      func() time.Time
	}

	cacheEntry struct {
		key       string
		value     []byte
		expiresAt time.Time
	}
)

func NewMemStorage() *MemStorage {
	return NewMemStorageWithConfig(10000, 0)
}

// NewMemStorageWithConfig создает хранилище с лимитом записей и TTL (0 - без TTL).
func NewMemStorageWithConfig(maxItems int, ttl time.Duration) *MemStorage {
	if maxItems <= 0 {
		maxItems = 10000
	}
	return &MemStorage{
		entries:  make(map[string]*list.Element),
		lruList:  list.New(),
		maxItems: maxItems,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemStorage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	if elem, exists := s.entries[key]; exists {
		s.lruList.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.value = stored
		entry.expiresAt = s.expiry()
		return nil
	}

	if s.lruList.Len() >= s.maxItems {
		s.evictOldest()
	}

	elem := s.lruList.PushFront(&cacheEntry{
		key:       key,
		value:     stored,
		expiresAt: s.expiry(),
	})
	s.entries[key] = elem

	return nil
}

func (s *MemStorage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, exists := s.entries[key]
	if !exists {
		return nil, ErrNotFound
	}
	entry := elem.Value.(*cacheEntry)
	if s.expired(entry) {
		s.remove(elem)
		return nil, ErrNotFound
	}

	// Перемещаем в начало (использован недавно)
	s.lruList.MoveToFront(elem)
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (s *MemStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, exists := s.entries[key]; exists {
		s.remove(elem)
	}
	return nil
}

// StartJanitor периодически удаляет устаревшие записи до отмены ctx.
func (s *MemStorage) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.purgeExpired()
			}
		}
	}()
}

func (s *MemStorage) purgeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for elem := s.lruList.Back(); elem != nil; {
		prev := elem.Prev()
		if s.expired(elem.Value.(*cacheEntry)) {
			s.remove(elem)
		}
		elem = prev
	}
}

func (s *MemStorage) expiry() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(s.ttl)
}

func (s *MemStorage) expired(e *cacheEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

func (s *MemStorage) evictOldest() {
	if elem := s.lruList.Back(); elem != nil {
		s.remove(elem)
	}
}

func (s *MemStorage) remove(elem *list.Element) {
	s.lruList.Remove(elem)
	delete(s.entries, elem.Value.(*cacheEntry).key)
}

func (s *MemStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lruList.Len()
}
