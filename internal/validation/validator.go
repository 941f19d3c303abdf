// Package validation содержит настроенный валидатор моделей.
package validation

import (
	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/currency"
)

var (
	lengthUnits = map[string]struct{}{"mm": {}, "cm": {}, "m": {}, "in": {}, "ft": {}}
	weightUnits = map[string]struct{}{"g": {}, "kg": {}, "t": {}, "lb": {}}
)

// New возвращает валидатор с зарегистрированными правилами предметной области.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		return models.OrderStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("length_unit", func(fl validator.FieldLevel) bool {
		_, ok := lengthUnits[fl.Field().String()]
		return ok
	})
	_ = v.RegisterValidation("weight_unit", func(fl validator.FieldLevel) bool {
		_, ok := weightUnits[fl.Field().String()]
		return ok
	})
	_ = v.RegisterValidation("iso_currency", func(fl validator.FieldLevel) bool {
		_, err := currency.ParseISO(fl.Field().String())
		return err == nil
	})
	return v
}
