// Package kafka содержит обмен событиями каталога и заказов через Kafka.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Типы событий каталога.
const (
	ProductUpserted = "upserted"
	ProductDeleted  = "deleted"
)

// ProductEvent - изменение товара, сделанное вне витрины.
type ProductEvent struct {
	Type      string          `json:"type" validate:"required,oneof=upserted deleted"`
	ProductID string          `json:"productId,omitempty"`
	Product   json.RawMessage `json:"product,omitempty"`
}

// OrderPlaced - событие оформления заказа.
type OrderPlaced struct {
	EventID       string          `json:"eventId"`
	OrderID       string          `json:"orderId"`
	CustomerEmail string          `json:"customerEmail"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"itemCount"`
	PlacedAt      time.Time       `json:"placedAt"`
}
