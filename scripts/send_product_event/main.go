// Команда send_product_event публикует тестовые события каталога в Kafka.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/RoGogDBD/timberyard/internal/config"
	"github.com/RoGogDBD/timberyard/internal/kafka"
	"github.com/RoGogDBD/timberyard/internal/logger"
	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	count := flag.Int("count", 1, "Number of product events to send")
	deleteID := flag.String("delete", "", "Send a deleted event for this product ID instead")
	flag.Parse()

	log, err := logger.New("info", true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.CatalogTopic == "" {
		log.Fatal("kafka brokers or catalog topic not configured")
	}

	w := kafka.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.CatalogTopic)
	defer func() {
		if err := w.Close(); err != nil {
			log.Warn("kafka writer close error", zap.Error(err))
		}
	}()

	if *deleteID != "" {
		send(log, w, *deleteID, kafka.ProductEvent{Type: kafka.ProductDeleted, ProductID: *deleteID})
		return
	}

	for i := 0; i < *count; i++ {
		p := fakeProduct()
		raw, err := json.Marshal(p)
		if err != nil {
			log.Fatal("failed to marshal product", zap.Error(err))
		}
		send(log, w, p.ID, kafka.ProductEvent{Type: kafka.ProductUpserted, ProductID: p.ID, Product: raw})
	}
}

func send(log *zap.Logger, w *kafkago.Writer, key string, ev kafka.ProductEvent) {
	value, err := json.Marshal(ev)
	if err != nil {
		log.Fatal("failed to marshal event", zap.Error(err))
	}
	if err := w.WriteMessages(context.Background(), kafkago.Message{Key: []byte(key), Value: value}); err != nil {
		log.Fatal("failed to send message", zap.Error(err))
	}
	log.Info("event sent", zap.String("type", ev.Type), zap.String("product_id", key))
}

func fakeProduct() models.Product {
	categories := models.Categories()
	id := uuid.NewString()
	return models.Product{
		ID:          id,
		Name:        gofakeit.AdjectiveDescriptive() + " " + gofakeit.Noun(),
		Description: gofakeit.Sentence(8),
		Category:    categories[gofakeit.IntN(len(categories))],
		Price:       decimal.NewFromFloat(gofakeit.Price(10, 900)).Round(2),
		Stock:       gofakeit.IntRange(0, 200),
		Dimensions:  models.Dimensions{Length: float64(gofakeit.IntRange(1, 6)), Unit: "m"},
		Weight:      models.Weight{Value: float64(gofakeit.IntRange(1, 50)), Unit: "kg"},
		Images: []models.Image{
			{URL: "https://images.example.com/" + id[:8] + ".jpg", Alt: "product photo", Primary: true},
		},
		Available: true,
		Tags:      []string{gofakeit.Word()},
	}
}
