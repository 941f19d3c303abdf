package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RoGogDBD/timberyard/internal/backend"
	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/RoGogDBD/timberyard/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ProductSink применяет изменения каталога к локальному состоянию.
type ProductSink interface {
	Upsert(p models.Product)
	Remove(id string)
}

// errInvalidEvent помечает сообщения, которые пропускаются без повторов.
var errInvalidEvent = errors.New("invalid product event")

// RunConsumer читает события каталога до отмены ctx.
func RunConsumer(ctx context.Context, brokers []string, topic, groupID string, sink ProductSink, log *zap.Logger) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Warn("kafka reader close error", zap.Error(err))
		}
	}()

	validate := validation.New()

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Error("kafka read error", zap.Error(err))
			}
			return
		}

		if err := HandleProductEvent(m.Value, validate, sink); err != nil {
			log.Warn("skipping catalog event",
				zap.Error(err),
				zap.Int64("offset", m.Offset),
				zap.Int("partition", m.Partition),
			)
			continue
		}

		log.Debug("applied catalog event", zap.ByteString("key", m.Key))
	}
}

// HandleProductEvent разбирает, проверяет и применяет одно событие.
func HandleProductEvent(value []byte, validate *validator.Validate, sink ProductSink) error {
	var ev ProductEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return fmt.Errorf("%w: %v", errInvalidEvent, err)
	}
	if err := validate.Struct(ev); err != nil {
		return fmt.Errorf("%w: %v", errInvalidEvent, err)
	}

	switch ev.Type {
	case ProductDeleted:
		if ev.ProductID == "" {
			return fmt.Errorf("%w: deleted event without productId", errInvalidEvent)
		}
		sink.Remove(ev.ProductID)
	case ProductUpserted:
		if len(ev.Product) == 0 {
			return fmt.Errorf("%w: upserted event without product", errInvalidEvent)
		}
		p, err := backend.DecodeProduct(ev.Product)
		if err != nil {
			return fmt.Errorf("%w: %v", errInvalidEvent, err)
		}
		if p.ID == "" {
			p.ID = ev.ProductID
		}
		if err := validate.Struct(p); err != nil || p.ID == "" {
			return fmt.Errorf("%w: product %q failed validation: %v", errInvalidEvent, p.ID, err)
		}
		sink.Upsert(p)
	}
	return nil
}
