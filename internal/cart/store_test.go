package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/RoGogDBD/timberyard/internal/repository"
	"github.com/RoGogDBD/timberyard/internal/repository/mocks"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmpopts.EquateEmpty(),
}

func newStore(t *testing.T) (*Store, *repository.MemStorage) {
	t.Helper()
	kv := repository.NewMemStorage()
	s, err := NewStore(context.Background(), kv, Key("test"))
	require.NoError(t, err)
	return s, kv
}

func product(id string, price int64) models.Product {
	return models.Product{
		ID:        id,
		Name:      "Product " + id,
		Category:  models.CategoryLumber,
		Price:     decimal.NewFromInt(price),
		Stock:     10,
		Available: true,
	}
}

func randomProduct() models.Product {
	return models.Product{
		ID:        gofakeit.UUID(),
		Name:      gofakeit.ProductName(),
		Category:  models.CategorySlabs,
		Price:     decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
		Stock:     gofakeit.IntRange(0, 50),
		Available: true,
		Images: []models.Image{
			{URL: gofakeit.URL(), Alt: "front", Primary: true},
		},
	}
}

func TestStoreExample(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	require.NoError(t, s.AddToCart(ctx, product("a", 100), 2))
	require.NoError(t, s.AddToCart(ctx, product("b", 50), 1))

	assert.True(t, s.CartTotal().Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 3, s.ItemCount())

	require.NoError(t, s.RemoveFromCart(ctx, "a"))

	assert.True(t, s.CartTotal().Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 1, s.ItemCount())
}

func TestAddToCartTwiceAccumulates(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		s, _ := newStore(t)
		require.NoError(t, s.AddToCart(ctx, randomProduct(), gofakeit.IntRange(1, 5)))

		p := randomProduct()
		q1, q2 := gofakeit.IntRange(1, 20), gofakeit.IntRange(1, 20)
		countBefore, totalBefore := s.ItemCount(), s.CartTotal()

		require.NoError(t, s.AddToCart(ctx, p, q1))
		require.NoError(t, s.AddToCart(ctx, p, q2))

		items := s.Items()
		require.Len(t, items, 2)
		assert.Equal(t, q1+q2, items[1].Quantity)
		assert.Equal(t, countBefore+q1+q2, s.ItemCount())
		wantTotal := totalBefore.Add(p.Price.Mul(decimal.NewFromInt(int64(q1 + q2))))
		assert.True(t, s.CartTotal().Equal(wantTotal), "total %s, want %s", s.CartTotal(), wantTotal)
	}
}

func TestAddToCartDefaultsAndOpensPanel(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.False(t, s.IsOpen())

	require.NoError(t, s.AddToCart(ctx, product("a", 10), 0))

	assert.True(t, s.IsOpen())
	assert.Equal(t, 1, s.ItemCount())
}

func TestAddToCartIgnoresStock(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	p := product("a", 10)
	p.Stock = 1

	require.NoError(t, s.AddToCart(ctx, p, 5))

	assert.Equal(t, 5, s.ItemCount())
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name      string
		productID string
		quantity  int
		wantCount int
	}{
		{name: "overwrite", productID: "a", quantity: 7, wantCount: 8},
		{name: "zero is rejected", productID: "a", quantity: 0, wantCount: 3},
		{name: "negative is rejected", productID: "a", quantity: -1, wantCount: 3},
		{name: "absent id", productID: "zzz", quantity: 4, wantCount: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, _ := newStore(t)
			require.NoError(t, s.AddToCart(ctx, product("a", 100), 2))
			require.NoError(t, s.AddToCart(ctx, product("b", 50), 1))
			before := s.Items()

			require.NoError(t, s.UpdateQuantity(ctx, tt.productID, tt.quantity))

			assert.Equal(t, tt.wantCount, s.ItemCount())
			if tt.wantCount == 3 {
				assert.Empty(t, cmp.Diff(before, s.Items(), cmpOpts...))
			}
		})
	}
}

func TestRemoveAbsentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.AddToCart(ctx, product("a", 100), 2))
	before := s.Items()

	require.NoError(t, s.RemoveFromCart(ctx, "missing"))
	require.NoError(t, s.RemoveFromCart(ctx, "missing"))

	assert.Empty(t, cmp.Diff(before, s.Items(), cmpOpts...))
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	require.NoError(t, s.AddToCart(ctx, product("a", 100), 2))

	require.NoError(t, s.ClearCart(ctx))

	assert.True(t, s.CartTotal().IsZero())
	assert.Equal(t, 0, s.ItemCount())
	assert.Empty(t, s.Items())
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)

	var added []models.Product
	for i := 0; i < 5; i++ {
		p := randomProduct()
		added = append(added, p)
		require.NoError(t, s.AddToCart(ctx, p, i+1))
	}
	require.NoError(t, s.UpdateQuantity(ctx, added[2].ID, 9))

	reloaded, err := NewStore(ctx, kv, s.Key())
	require.NoError(t, err)

	if diff := cmp.Diff(s.Items(), reloaded.Items(), cmpOpts...); diff != "" {
		t.Fatalf("reloaded cart differs (-want +got):\n%s", diff)
	}
	assert.False(t, reloaded.IsOpen())
}

func TestNewStoreCorruptPayload(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemStorage()
	require.NoError(t, kv.Set(ctx, Key("x"), []byte(`{"not":"a list"`)))

	_, err := NewStore(ctx, kv, Key("x"))

	require.Error(t, err)
}

func TestNewStoreCompatiblePayloadAccepted(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemStorage()
	require.NoError(t, kv.Set(ctx, Key("x"), []byte(`[{"id":"a","price":12.5,"quantity":2,"extra":true}]`)))

	s, err := NewStore(ctx, kv, Key("x"))

	require.NoError(t, err)
	assert.True(t, s.CartTotal().Equal(decimal.NewFromInt(25)))
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	writeErr := errors.New("disk full")
	kv := &mocks.KVStoreMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, repository.ErrNotFound
		},
		SetFunc: func(ctx context.Context, key string, value []byte) error {
			return writeErr
		},
	}
	s, err := NewStore(ctx, kv, Key("x"))
	require.NoError(t, err)

	err = s.AddToCart(ctx, product("a", 10), 2)

	require.ErrorIs(t, err, writeErr)
	assert.Equal(t, 2, s.ItemCount())
	assert.Equal(t, 1, kv.GetCalls)
	assert.Equal(t, 1, kv.SetCalls)
}

func TestRejectedUpdateDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	kv := &mocks.KVStoreMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			return []byte(`[{"id":"a","price":1,"quantity":1}]`), nil
		},
		SetFunc: func(ctx context.Context, key string, value []byte) error { return nil },
	}
	s, err := NewStore(ctx, kv, Key("x"))
	require.NoError(t, err)

	require.NoError(t, s.UpdateQuantity(ctx, "a", 0))

	assert.Equal(t, 0, kv.SetCalls)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	require.NoError(t, s.AddToCart(ctx, product("a", 10), 1))
	s.CloseCart()
	unsubscribe()
	unsubscribe()
	require.NoError(t, s.ClearCart(ctx))

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Count)
	assert.True(t, got[0].Open)
	assert.False(t, got[1].Open)
}

func TestConcurrentMutationsPersistLatest(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore(t)
	p := product("a", 1)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AddToCart(ctx, p, 1)
		}()
	}
	wg.Wait()

	reloaded, err := NewStore(ctx, kv, s.Key())
	require.NoError(t, err)
	assert.Equal(t, 50, reloaded.ItemCount())
}
