// Package models содержит доменные модели витрины.
package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Бэкенд ожидает цены числами, а не строками.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category описывает категорию товара.
type Category string

const (
	CategoryLumber   Category = "lumber"
	CategorySlabs    Category = "slabs"
	CategoryBeams    Category = "beams"
	CategoryFirewood Category = "firewood"
	CategorySawdust  Category = "sawdust"
	CategoryCustom   Category = "custom"
)

// Categories возвращает все известные категории в порядке отображения.
func Categories() []Category {
	return []Category{
		CategoryLumber,
		CategorySlabs,
		CategoryBeams,
		CategoryFirewood,
		CategorySawdust,
		CategoryCustom,
	}
}

// Valid сообщает, известна ли категория.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Dimensions описывает габариты товара.
type Dimensions struct {
	Length float64  `json:"length" validate:"gt=0"`
	Width  *float64 `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
	Unit   string   `json:"unit" validate:"required,length_unit"`
}

// Weight описывает вес товара.
type Weight struct {
	Value float64 `json:"value" validate:"gte=0"`
	Unit  string  `json:"unit" validate:"required,weight_unit"`
}

// Image описывает изображение товара.
type Image struct {
	URL     string `json:"url" validate:"required"`
	Alt     string `json:"alt"`
	Primary bool   `json:"primary"`
}

// BulkTier задает оптовую цену начиная с MinQuantity единиц.
type BulkTier struct {
	MinQuantity int             `json:"minQuantity" validate:"gt=1"`
	Price       decimal.Decimal `json:"price"`
}

// Product описывает товар каталога.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Category    Category        `json:"category" validate:"required,category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Dimensions  Dimensions      `json:"dimensions"`
	Weight      Weight          `json:"weight"`
	Images      []Image         `json:"images" validate:"dive"`
	Available   bool            `json:"available"`
	BulkPricing []BulkTier      `json:"bulkPricing,omitempty" validate:"dive"`
	Tags        []string        `json:"tags,omitempty"`
	LeadTime    string          `json:"leadTime,omitempty"`
}

// GetID возвращает идентификатор товара.
func (p Product) GetID() string { return p.ID }

// UnitPriceFor возвращает цену за единицу с учетом оптовых порогов:
// действует порог с наибольшим MinQuantity <= qty, даже если у меньшего
// порога цена ниже. Без подходящего порога возвращается Price.
func (p Product) UnitPriceFor(qty int) decimal.Decimal {
	best := p.Price
	bestMin := 0
	for _, tier := range p.BulkPricing {
		if qty >= tier.MinQuantity && tier.MinQuantity > bestMin {
			best = tier.Price
			bestMin = tier.MinQuantity
		}
	}
	return best
}

// PrimaryImage возвращает изображение с флагом primary, иначе первое.
func (p Product) PrimaryImage() (Image, bool) {
	for _, img := range p.Images {
		if img.Primary {
			return img, true
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0], true
	}
	return Image{}, false
}

// InStock сообщает, можно ли заказать товар.
func (p Product) InStock() bool {
	return p.Available && p.Stock > 0
}
