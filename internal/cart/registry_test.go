package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/RoGogDBD/timberyard/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acquire(t *testing.T, reg *Registry, id string) (*Store, func()) {
	t.Helper()
	s, release, err := reg.Acquire(context.Background(), id)
	require.NoError(t, err)
	return s, release
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemStorage()
	reg := NewRegistry(kv, 2)

	first, release := acquire(t, reg, "s1")
	again, releaseAgain := acquire(t, reg, "s1")
	assert.Same(t, first, again)
	require.NoError(t, first.AddToCart(ctx, product("a", 5), 3))
	release()
	releaseAgain()
	releaseAgain()

	_, r2 := acquire(t, reg, "s2")
	r2()
	_, r3 := acquire(t, reg, "s3")
	r3()
	assert.Equal(t, 2, reg.lru.Len())

	// s1 вытеснена, но данные перечитываются из хранилища.
	reloaded, r1 := acquire(t, reg, "s1")
	r1()
	assert.NotSame(t, first, reloaded)
	assert.Equal(t, 3, reloaded.ItemCount())
}

func TestRegistryRecentlyUsedSurvives(t *testing.T) {
	reg := NewRegistry(repository.NewMemStorage(), 2)

	s1, r := acquire(t, reg, "s1")
	r()
	_, r = acquire(t, reg, "s2")
	r()

	// Обращение к s1 делает ее самой свежей, вытесняется s2.
	_, r = acquire(t, reg, "s1")
	r()
	_, r = acquire(t, reg, "s3")
	r()

	again, r := acquire(t, reg, "s1")
	r()
	assert.Same(t, s1, again)
}

func TestRegistryHeldCartNotEvicted(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemStorage()
	reg := NewRegistry(kv, 1)

	held, release := acquire(t, reg, "s1")

	// Другие сессии вытесняют все, кроме занятой корзины.
	_, r := acquire(t, reg, "s2")
	r()
	_, r = acquire(t, reg, "s3")
	r()

	second, releaseSecond := acquire(t, reg, "s1")
	assert.Same(t, held, second)

	require.NoError(t, held.AddToCart(ctx, product("a", 5), 1))
	require.NoError(t, second.AddToCart(ctx, product("b", 7), 1))
	release()
	releaseSecond()

	// Теперь корзина свободна и вытесняется, данные перечитываются.
	_, r = acquire(t, reg, "s4")
	r()
	reloaded, r := acquire(t, reg, "s1")
	assert.NotSame(t, held, reloaded)
	defer r()
	assert.Len(t, reloaded.Items(), 2)
}

func TestRegistryConcurrentAcquireSameSession(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(repository.NewMemStorage(), 1)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s, release, err := reg.Acquire(ctx, "shared")
			if !assert.NoError(t, err) {
				return
			}
			defer release()
			assert.NoError(t, s.AddToCart(ctx, product("a", 1), 1))
		}()
		go func() {
			defer wg.Done()
			_, release, err := reg.Acquire(ctx, fmt.Sprintf("other-%d", i))
			if assert.NoError(t, err) {
				release()
			}
		}()
	}
	wg.Wait()

	s, r := acquire(t, reg, "shared")
	defer r()
	assert.Equal(t, 20, s.ItemCount())
}

func TestRegistryMove(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemStorage()
	reg := NewRegistry(kv, 8)

	old, r := acquire(t, reg, "anon")
	require.NoError(t, old.AddToCart(ctx, product("a", 5), 2))
	r()

	require.NoError(t, reg.Move(ctx, "anon", "signed-in"))

	_, err := kv.Get(ctx, Key("anon"))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	moved, r := acquire(t, reg, "signed-in")
	defer r()
	assert.Equal(t, 2, moved.ItemCount())

	empty, re := acquire(t, reg, "anon")
	defer re()
	assert.NotSame(t, old, empty)
	assert.Zero(t, empty.ItemCount())

	assert.NoError(t, reg.Move(ctx, "nobody", "someone"))
	assert.NoError(t, reg.Move(ctx, "", "someone"))
}
