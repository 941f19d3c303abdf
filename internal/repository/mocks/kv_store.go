package mocks

import (
	"context"
	"errors"
	"sync"
)

type KVStoreMock struct {
	GetFunc     func(ctx context.Context, key string) ([]byte, error)
	SetFunc     func(ctx context.Context, key string, value []byte) error
	DeleteFunc  func(ctx context.Context, key string) error
	GetCalls    int
	SetCalls    int
	DeleteCalls int

	mu sync.Mutex
}

func (m *KVStoreMock) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	m.GetCalls++
	m.mu.Unlock()
	if m.GetFunc == nil {
		return nil, errors.New("GetFunc not set")
	}
	return m.GetFunc(ctx, key)
}

func (m *KVStoreMock) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.SetCalls++
	m.mu.Unlock()
	if m.SetFunc == nil {
		return errors.New("SetFunc not set")
	}
	return m.SetFunc(ctx, key, value)
}

func (m *KVStoreMock) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	m.DeleteCalls++
	m.mu.Unlock()
	if m.DeleteFunc == nil {
		return errors.New("DeleteFunc not set")
	}
	return m.DeleteFunc(ctx, key)
}
