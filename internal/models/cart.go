package models

import "github.com/shopspring/decimal"

// CartItem описывает позицию корзины. Идентичность позиции равна ID товара.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal возвращает price×quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
