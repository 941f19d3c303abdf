package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/RoGogDBD/timberyard/internal/cart"
	"github.com/RoGogDBD/timberyard/internal/kafka"
	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/RoGogDBD/timberyard/internal/repository"
	"github.com/RoGogDBD/timberyard/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ordersMock struct {
	err     error
	created []models.Order
}

func (m *ordersMock) CreateOrder(_ context.Context, o models.Order) (models.Order, error) {
	if m.err != nil {
		return models.Order{}, m.err
	}
	o.ID = "ord-1"
	m.created = append(m.created, o)
	return o, nil
}

type eventsMock struct {
	err    error
	events []kafka.OrderPlaced
}

func (m *eventsMock) PublishOrderPlaced(_ context.Context, ev kafka.OrderPlaced) error {
	m.events = append(m.events, ev)
	return m.err
}

var customer = models.Customer{
	Name:    "Jo Carpenter",
	Email:   "jo@example.com",
	Phone:   "+15550100",
	Address: "1 Mill Road",
}

func filledCart(t *testing.T) *cart.Store {
	t.Helper()
	ctx := context.Background()
	s, err := cart.NewStore(ctx, repository.NewMemStorage(), cart.Key("c"))
	require.NoError(t, err)
	require.NoError(t, s.AddToCart(ctx, models.Product{ID: "a", Name: "Oak", Price: decimal.NewFromInt(100)}, 2))
	require.NoError(t, s.AddToCart(ctx, models.Product{ID: "b", Name: "Pine", Price: decimal.NewFromInt(50)}, 1))
	return s
}

func TestPlaceOrder(t *testing.T) {
	orders := &ordersMock{}
	events := &eventsMock{err: errors.New("broker down")}
	svc := NewService(orders, events, validation.New(), zap.NewNop())
	c := filledCart(t)

	order, err := svc.PlaceOrder(context.Background(), c, customer, "deliver after 5pm")

	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, models.OrderPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "a", order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Quantity)

	require.Len(t, events.events, 1)
	assert.Equal(t, 3, events.events[0].ItemCount)
	assert.Equal(t, "ord-1", events.events[0].OrderID)

	assert.Empty(t, c.Items(), "cart must be cleared even if the event was not published")
}

func TestPlaceOrderErrors(t *testing.T) {
	apiErr := errors.New("out of stock")

	tests := []struct {
		name      string
		customer  models.Customer
		empty     bool
		apiErr    error
		wantErr   error
		keepsCart bool
	}{
		{name: "invalid customer", customer: models.Customer{Name: "x"}, wantErr: ErrValidation, keepsCart: true},
		{name: "empty cart", customer: customer, empty: true, wantErr: ErrEmptyCart},
		{name: "api failure", customer: customer, apiErr: apiErr, wantErr: apiErr, keepsCart: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&ordersMock{err: tt.apiErr}, nil, validation.New(), zap.NewNop())
			c := filledCart(t)
			if tt.empty {
				require.NoError(t, c.ClearCart(context.Background()))
			}

			_, err := svc.PlaceOrder(context.Background(), c, tt.customer, "")

			require.ErrorIs(t, err, tt.wantErr)
			if tt.keepsCart {
				assert.Equal(t, 3, c.ItemCount())
			}
		})
	}
}
