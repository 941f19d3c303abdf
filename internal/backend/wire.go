package backend

import (
	"encoding/json"
	"fmt"

	"github.com/RoGogDBD/timberyard/internal/models"
)

// Записи API могут приходить с идентификатором в "_id" вместо "id", а
// изображение - строкой URL вместо объекта. Здесь все сводится к моделям.

type wireImage struct {
	models.Image
}

func (w *wireImage) UnmarshalJSON(data []byte) error {
	var url string
	if err := json.Unmarshal(data, &url); err == nil {
		w.Image = models.Image{URL: url}
		return nil
	}
	var obj struct {
		URL       string `json:"url"`
		Src       string `json:"src"`
		Alt       string `json:"alt"`
		Primary   bool   `json:"primary"`
		IsPrimary bool   `json:"isPrimary"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("image: %w", err)
	}
	w.Image = models.Image{
		URL:     firstNonEmpty(obj.URL, obj.Src),
		Alt:     obj.Alt,
		Primary: obj.Primary || obj.IsPrimary,
	}
	return nil
}

type wireProduct struct {
	models.Product
	MongoID string      `json:"_id"`
	Images  []wireImage `json:"images"`
}

func (w wireProduct) model() models.Product {
	p := w.Product
	p.ID = firstNonEmpty(p.ID, w.MongoID)
	p.Images = images(w.Images)
	return p
}

type wireGalleryItem struct {
	models.GalleryItem
	MongoID string     `json:"_id"`
	Image   *wireImage `json:"image"`
}

func (w wireGalleryItem) model() models.GalleryItem {
	g := w.GalleryItem
	g.ID = firstNonEmpty(g.ID, w.MongoID)
	if w.Image != nil {
		g.Image = w.Image.Image
	}
	return g
}

type wireTestimonial struct {
	models.Testimonial
	MongoID string `json:"_id"`
}

func (w wireTestimonial) model() models.Testimonial {
	t := w.Testimonial
	t.ID = firstNonEmpty(t.ID, w.MongoID)
	return t
}

type wireOrder struct {
	models.Order
	MongoID string `json:"_id"`
}

func (w wireOrder) model() models.Order {
	o := w.Order
	o.ID = firstNonEmpty(o.ID, w.MongoID)
	return o
}

type wireUser struct {
	models.User
	MongoID string `json:"_id"`
}

func (w wireUser) model() models.User {
	u := w.User
	u.ID = firstNonEmpty(u.ID, w.MongoID)
	return u
}

func images(in []wireImage) []models.Image {
	if in == nil {
		return nil
	}
	out := make([]models.Image, 0, len(in))
	for _, img := range in {
		out = append(out, img.Image)
	}
	return out
}

func mapSlice[W any, M any](in []W, conv func(W) M) []M {
	out := make([]M, 0, len(in))
	for _, w := range in {
		out = append(out, conv(w))
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// DecodeProduct разбирает товар в любом из форматов API.
func DecodeProduct(data []byte) (models.Product, error) {
	var w wireProduct
	if err := json.Unmarshal(data, &w); err != nil {
		return models.Product{}, err
	}
	return w.model(), nil
}
