package backend

import (
	"context"

	"github.com/RoGogDBD/timberyard/internal/models"
)

// Адаптеры приводят Client к интерфейсам resource.Fetcher и resource.Mutator.

type ProductsAPI struct{ c *Client }

func (c *Client) Products() ProductsAPI { return ProductsAPI{c} }

func (a ProductsAPI) List(ctx context.Context) ([]models.Product, error) {
	return a.c.ListProducts(ctx)
}
func (a ProductsAPI) Create(ctx context.Context, p models.Product) (models.Product, error) {
	return a.c.CreateProduct(ctx, p)
}
func (a ProductsAPI) Update(ctx context.Context, id string, p models.Product) (models.Product, error) {
	return a.c.UpdateProduct(ctx, id, p)
}
func (a ProductsAPI) Delete(ctx context.Context, id string) error {
	return a.c.DeleteProduct(ctx, id)
}

type GalleryAPI struct{ c *Client }

func (c *Client) Gallery() GalleryAPI { return GalleryAPI{c} }

func (a GalleryAPI) List(ctx context.Context) ([]models.GalleryItem, error) {
	return a.c.ListGallery(ctx)
}
func (a GalleryAPI) Create(ctx context.Context, g models.GalleryItem) (models.GalleryItem, error) {
	return a.c.CreateGalleryItem(ctx, g)
}
func (a GalleryAPI) Update(ctx context.Context, id string, g models.GalleryItem) (models.GalleryItem, error) {
	return a.c.UpdateGalleryItem(ctx, id, g)
}
func (a GalleryAPI) Delete(ctx context.Context, id string) error {
	return a.c.DeleteGalleryItem(ctx, id)
}

type TestimonialsAPI struct{ c *Client }

func (c *Client) Testimonials() TestimonialsAPI { return TestimonialsAPI{c} }

func (a TestimonialsAPI) List(ctx context.Context) ([]models.Testimonial, error) {
	return a.c.ListTestimonials(ctx)
}
func (a TestimonialsAPI) Create(ctx context.Context, t models.Testimonial) (models.Testimonial, error) {
	return a.c.CreateTestimonial(ctx, t)
}
func (a TestimonialsAPI) Update(ctx context.Context, id string, t models.Testimonial) (models.Testimonial, error) {
	return a.c.UpdateTestimonial(ctx, id, t)
}
func (a TestimonialsAPI) Delete(ctx context.Context, id string) error {
	return a.c.DeleteTestimonial(ctx, id)
}

type OrdersAPI struct{ c *Client }

func (c *Client) Orders() OrdersAPI { return OrdersAPI{c} }

func (a OrdersAPI) List(ctx context.Context) ([]models.Order, error) {
	return a.c.ListOrders(ctx)
}
func (a OrdersAPI) Create(ctx context.Context, o models.Order) (models.Order, error) {
	return a.c.CreateOrder(ctx, o)
}
func (a OrdersAPI) Update(ctx context.Context, id string, o models.Order) (models.Order, error) {
	return a.c.UpdateOrder(ctx, id, o)
}
func (a OrdersAPI) Delete(ctx context.Context, id string) error {
	return a.c.DeleteOrder(ctx, id)
}

type SettingsAPI struct{ c *Client }

func (c *Client) Settings() SettingsAPI { return SettingsAPI{c} }

func (a SettingsAPI) Get(ctx context.Context) (models.SiteSettings, error) {
	return a.c.GetSettings(ctx)
}
func (a SettingsAPI) Save(ctx context.Context, s models.SiteSettings) (models.SiteSettings, error) {
	return a.c.UpdateSettings(ctx, s)
}
