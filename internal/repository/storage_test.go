package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemStorage(t *testing.T) {
	tests := []struct {
		name        string
		ttl         time.Duration
		advance     time.Duration
		expectFound bool
	}{
		{
			name:        "save and get",
			ttl:         0,
			advance:     time.Hour,
			expectFound: true,
		},
		{
			name:        "ttl expiry",
			ttl:         time.Minute,
			advance:     2 * time.Minute,
			expectFound: false,
		},
		{
			name:        "ttl not reached",
			ttl:         time.Minute,
			advance:     30 * time.Second,
			expectFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := NewMemStorageWithConfig(10, tt.ttl)
			now := time.Now()
			storage.now = func() time.Time { return now }

			key := "cart:" + uuid.NewString()
			if err := storage.Set(ctx, key, []byte(`[]`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			now = now.Add(tt.advance)

			_, err := storage.Get(ctx, key)
			if tt.expectFound && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.expectFound && !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound for expired item, got %v", err)
			}
		})
	}
}

func TestMemStorageEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	storage := NewMemStorageWithConfig(2, 0)

	_ = storage.Set(ctx, "a", []byte("1"))
	_ = storage.Set(ctx, "b", []byte("2"))
	if _, err := storage.Get(ctx, "a"); err != nil {
		t.Fatalf("get a: %v", err)
	}
	_ = storage.Set(ctx, "c", []byte("3"))

	if _, err := storage.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected b to be evicted, got %v", err)
	}
	if storage.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", storage.Len())
	}
}

func TestMemStorageCopiesValues(t *testing.T) {
	ctx := context.Background()
	storage := NewMemStorage()

	value := []byte("abc")
	_ = storage.Set(ctx, "k", value)
	value[0] = 'z'

	got, err := storage.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "abc" {
		t.Fatalf("stored value was aliased: %q", got)
	}
}

func TestMemStorageDeleteAndPurge(t *testing.T) {
	ctx := context.Background()
	storage := NewMemStorageWithConfig(10, time.Minute)
	now := time.Now()
	storage.now = func() time.Time { return now }

	_ = storage.Set(ctx, "old", []byte("1"))
	now = now.Add(2 * time.Minute)
	_ = storage.Set(ctx, "fresh", []byte("2"))
	_ = storage.Set(ctx, "gone", []byte("3"))

	if err := storage.Delete(ctx, "gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	storage.purgeExpired()

	if storage.Len() != 1 {
		t.Fatalf("expected only fresh entry, got %d", storage.Len())
	}
}
