package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUnitPriceFor(t *testing.T) {
	p := Product{
		Price: decimal.NewFromInt(100),
		BulkPricing: []BulkTier{
			// Пороги не отсортированы, а цена старшего порога выше младшего.
			{MinQuantity: 50, Price: decimal.NewFromInt(85)},
			{MinQuantity: 10, Price: decimal.NewFromInt(90)},
			{MinQuantity: 25, Price: decimal.NewFromInt(80)},
		},
	}

	tests := []struct {
		qty  int
		want int64
	}{
		{qty: 1, want: 100},
		{qty: 9, want: 100},
		{qty: 10, want: 90},
		{qty: 24, want: 90},
		{qty: 25, want: 80},
		{qty: 49, want: 80},
		{qty: 50, want: 85},
		{qty: 500, want: 85},
	}
	for _, tt := range tests {
		got := p.UnitPriceFor(tt.qty)
		assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "qty %d: got %s, want %d", tt.qty, got, tt.want)
	}

	assert.True(t, Product{Price: decimal.NewFromInt(7)}.UnitPriceFor(100).Equal(decimal.NewFromInt(7)))
}

func TestPrimaryImage(t *testing.T) {
	_, ok := Product{}.PrimaryImage()
	assert.False(t, ok)

	img, ok := Product{Images: []Image{{URL: "a"}, {URL: "b", Primary: true}}}.PrimaryImage()
	assert.True(t, ok)
	assert.Equal(t, "b", img.URL)

	img, _ = Product{Images: []Image{{URL: "a"}, {URL: "b"}}}.PrimaryImage()
	assert.Equal(t, "a", img.URL)
}
