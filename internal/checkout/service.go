// Package checkout оформляет заказ из корзины.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoGogDBD/timberyard/internal/kafka"
	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart  = errors.New("cart is empty")
	ErrValidation = errors.New("validation failed")
)

// Cart - то, что нужно оформлению от корзины.
type Cart interface {
	Items() []models.CartItem
	ClearCart(ctx context.Context) error
}

// OrderCreator создает заказ во внешнем API.
type OrderCreator interface {
	CreateOrder(ctx context.Context, o models.Order) (models.Order, error)
}

// EventPublisher публикует событие оформленного заказа.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev kafka.OrderPlaced) error
}

type Service struct {
	orders   OrderCreator
	events   EventPublisher
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

// NewService создает сервис. events может быть nil.
func NewService(orders OrderCreator, events EventPublisher, validate *validator.Validate, log *zap.Logger) *Service {
	return &Service{
		orders:   orders,
		events:   events,
		validate: validate,
		log:      log,
		now:      time.Now,
	}
}

// PlaceOrder создает заказ из позиций корзины и очищает ее. Остатки не
// проверяются: их проверяет API при создании заказа. При ошибке API
// корзина не меняется.
func (s *Service) PlaceOrder(ctx context.Context, c Cart, customer models.Customer, notes string) (models.Order, error) {
	if err := s.validate.Struct(customer); err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	items := c.Items()
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	order := models.Order{
		Customer:  customer,
		Items:     make([]models.OrderItem, 0, len(items)),
		Total:     decimal.Zero,
		Status:    models.OrderPending,
		Notes:     notes,
		CreatedAt: s.now().UTC(),
	}
	count := 0
	for _, it := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
		order.Total = order.Total.Add(it.LineTotal())
		count += it.Quantity
	}

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.publish(ctx, created, count)

	if err := c.ClearCart(ctx); err != nil {
		s.log.Warn("clear cart after checkout", zap.String("order_id", created.ID), zap.Error(err))
	}
	return created, nil
}

func (s *Service) publish(ctx context.Context, o models.Order, count int) {
	if s.events == nil {
		return
	}
	ev := kafka.OrderPlaced{
		EventID:       uuid.NewString(),
		OrderID:       o.ID,
		CustomerEmail: o.Customer.Email,
		Total:         o.Total,
		ItemCount:     count,
		PlacedAt:      s.now().UTC(),
	}
	if err := s.events.PublishOrderPlaced(ctx, ev); err != nil {
		s.log.Error("publish order placed", zap.String("order_id", o.ID), zap.Error(err))
	}
}
