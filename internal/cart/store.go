// Package cart содержит состояние корзины покупателя.
//
// Store хранит упорядоченный список позиций (порядок добавления), сохраняет
// его целиком в хранилище ключ-значение после каждой мутации и уведомляет
// подписчиков об изменениях. Итоги пересчитываются при каждом чтении.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/RoGogDBD/timberyard/internal/repository"
	"github.com/shopspring/decimal"
)

// Snapshot - неизменяемый срез состояния корзины.
type Snapshot struct {
	Items []models.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
	Open  bool              `json:"open"`
}

// Listener вызывается после каждой мутации корзины.
type Listener func(Snapshot)

// Store - корзина одного покупателя.
type Store struct {
	kv  repository.KVStore
	key string

	// writeMu сериализует мутации вместе с записью в kv, чтобы более старый
	// снимок не перезаписал более новый.
	writeMu sync.Mutex

	mu        sync.Mutex
	items     []models.CartItem
	open      bool
	listeners map[int]Listener
	nextID    int
}

// NewStore создает корзину и один раз загружает ее из kv по ключу key.
// Поврежденные данные возвращаются ошибкой декодирования.
func NewStore(ctx context.Context, kv repository.KVStore, key string) (*Store, error) {
	s := &Store{
		kv:        kv,
		key:       key,
		listeners: make(map[int]Listener),
	}

	data, err := kv.Get(ctx, key)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load cart %q: %w", key, err)
	}

	if err := json.Unmarshal(data, &s.items); err != nil {
		return nil, fmt.Errorf("decode cart %q: %w", key, err)
	}
	return s, nil
}

// Key возвращает ключ хранилища корзины.
func (s *Store) Key() string { return s.key }

// AddToCart увеличивает количество существующей позиции или добавляет новую
// в конец списка. Всегда открывает панель корзины. Остаток на складе не
// проверяется. quantity < 1 трактуется как 1.
func (s *Store) AddToCart(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if i := s.indexOf(product.ID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, models.CartItem{Product: product, Quantity: quantity})
	}
	s.open = true
	return s.commit(ctx)
}

// RemoveFromCart удаляет позицию. Отсутствующий id - не ошибка.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if i := s.indexOf(productID); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	}
	return s.commit(ctx)
}

// UpdateQuantity перезаписывает количество позиции. quantity < 1 игнорируется.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	s.items[i].Quantity = quantity
	return s.commit(ctx)
}

// ClearCart очищает корзину.
func (s *Store) ClearCart(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.items = nil
	return s.commit(ctx)
}

// OpenCart открывает панель корзины.
func (s *Store) OpenCart() { s.setOpen(true) }

// CloseCart закрывает панель корзины.
func (s *Store) CloseCart() { s.setOpen(false) }

// IsOpen сообщает, открыта ли панель корзины.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Items возвращает копию позиций в порядке добавления.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

// CartTotal возвращает сумму price×quantity по всем позициям.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.items)
}

// ItemCount возвращает сумму количеств.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return count(s.items)
}

// Snapshot возвращает согласованный срез состояния.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe регистрирует слушателя и возвращает функцию отписки.
// Слушатель не должен изменять корзину.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// commit сохраняет список и уведомляет слушателей. Вызывается под s.mu и
// освобождает его. Ошибка записи возвращается, изменение в памяти остается.
func (s *Store) commit(ctx context.Context) error {
	snap := s.snapshot()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	data, err := json.Marshal(snap.Items)
	s.mu.Unlock()

	if err == nil {
		err = s.kv.Set(ctx, s.key, data)
	}

	for _, l := range listeners {
		l(snap)
	}

	if err != nil {
		return fmt.Errorf("persist cart %q: %w", s.key, err)
	}
	return nil
}

func (s *Store) setOpen(open bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.open == open {
		s.mu.Unlock()
		return
	}
	s.open = open
	snap := s.snapshot()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store) snapshot() Snapshot {
	return Snapshot{
		Items: s.copyItems(),
		Total: total(s.items),
		Count: count(s.items),
		Open:  s.open,
	}
}

func (s *Store) copyItems() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].ID == productID {
			return i
		}
	}
	return -1
}

func total(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func count(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
