package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RoGogDBD/timberyard/internal/retry"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter - часть kafka.Writer, нужная издателю.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher публикует события заказов с повторами.
type Publisher struct {
	w      MessageWriter
	policy retry.Policy
	log    *zap.Logger
}

// NewWriter создает kafka.Writer для топика.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

func NewPublisher(w MessageWriter, policy retry.Policy, log *zap.Logger) *Publisher {
	return &Publisher{w: w, policy: policy, log: log}
}

// PublishOrderPlaced отправляет событие, повторяя запись по политике.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: payload,
		Time:  ev.PlacedAt,
	}

	err = retry.Do(ctx, p.policy, func() error {
		return p.w.WriteMessages(ctx, msg)
	}, func(err error, attempt int, wait time.Duration) {
		p.log.Warn("publish order event failed, retrying",
			zap.String("order_id", ev.OrderID),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	if err != nil {
		return fmt.Errorf("publish order %s: %w", ev.OrderID, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
