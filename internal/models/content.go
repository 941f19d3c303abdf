package models

import "time"

// GalleryItem описывает фото в галерее работ.
type GalleryItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description,omitempty"`
	Image       Image     `json:"image"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

func (g GalleryItem) GetID() string { return g.ID }

// Testimonial описывает отзыв клиента.
type Testimonial struct {
	ID        string    `json:"id"`
	Author    string    `json:"author" validate:"required"`
	Location  string    `json:"location,omitempty"`
	Text      string    `json:"text" validate:"required"`
	Rating    int       `json:"rating" validate:"gte=1,lte=5"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (t Testimonial) GetID() string { return t.ID }

// SiteSettings содержит настройки сайта, редактируемые в админке.
type SiteSettings struct {
	StoreName     string            `json:"storeName" validate:"required"`
	Phone         string            `json:"phone,omitempty"`
	Email         string            `json:"email,omitempty" validate:"omitempty,email"`
	Address       string            `json:"address,omitempty"`
	Currency      string            `json:"currency" validate:"required,iso_currency"`
	BusinessHours string            `json:"businessHours,omitempty"`
	Announcement  string            `json:"announcement,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}
