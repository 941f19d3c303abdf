package validation

import (
	"testing"

	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/shopspring/decimal"
)

func TestValidator(t *testing.T) {
	v := New()

	valid := models.Product{
		Name:       "Oak plank",
		Category:   models.CategoryLumber,
		Price:      decimal.NewFromInt(40),
		Stock:      3,
		Dimensions: models.Dimensions{Length: 2.4, Unit: "m"},
		Weight:     models.Weight{Value: 12, Unit: "kg"},
	}

	tests := []struct {
		name    string
		target  any
		wantErr bool
	}{
		{name: "valid product", target: valid, wantErr: false},
		{name: "unknown category", target: func() models.Product { p := valid; p.Category = "plastic"; return p }(), wantErr: true},
		{name: "negative stock", target: func() models.Product { p := valid; p.Stock = -1; return p }(), wantErr: true},
		{name: "bad length unit", target: func() models.Product { p := valid; p.Dimensions.Unit = "parsec"; return p }(), wantErr: true},
		{name: "settings currency ok", target: models.SiteSettings{StoreName: "Mill", Currency: "USD"}, wantErr: false},
		{name: "settings currency bad", target: models.SiteSettings{StoreName: "Mill", Currency: "XXXX"}, wantErr: true},
		{name: "order status bad", target: models.Order{Status: "lost", Items: []models.OrderItem{{ProductID: "a", Name: "a", Quantity: 1}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.target)
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
