// Package repository содержит хранилища ключ-значение для корзин и сессий.
package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound возвращается, когда ключ отсутствует или устарел.
var ErrNotFound = errors.New("key not found")

// KVReader описывает чтение значений по ключу.
type KVReader interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// KVWriter описывает запись и удаление значений.
type KVWriter interface {
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// KVStore описывает хранилище ключ-значение.
type KVStore interface {
	KVReader
	KVWriter
}

// Janitor описывает хранилища с фоновой очисткой устаревших ключей.
type Janitor interface {
	StartJanitor(ctx context.Context, interval time.Duration)
}
