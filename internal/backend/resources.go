package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/RoGogDBD/timberyard/internal/models"
)

const (
	productsPath     = "/products"
	galleryPath      = "/gallery"
	testimonialsPath = "/testimonials"
	ordersPath       = "/orders"
	settingsPath     = "/site-settings"
	loginPath        = "/auth/login"
)

func itemPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}

// ListProducts возвращает каталог.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []wireProduct
	if err := c.do(ctx, http.MethodGet, productsPath, false, nil, &out); err != nil {
		return nil, err
	}
	return mapSlice(out, wireProduct.model), nil
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var out wireProduct
	if err := c.do(ctx, http.MethodPost, productsPath, true, p, &out); err != nil {
		return models.Product{}, err
	}
	return out.model(), nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	var out wireProduct
	if err := c.do(ctx, http.MethodPut, itemPath(productsPath, id), true, p, &out); err != nil {
		return models.Product{}, err
	}
	return out.model(), nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(productsPath, id), true, nil, nil)
}

func (c *Client) ListGallery(ctx context.Context) ([]models.GalleryItem, error) {
	var out []wireGalleryItem
	if err := c.do(ctx, http.MethodGet, galleryPath, false, nil, &out); err != nil {
		return nil, err
	}
	return mapSlice(out, wireGalleryItem.model), nil
}

func (c *Client) CreateGalleryItem(ctx context.Context, g models.GalleryItem) (models.GalleryItem, error) {
	var out wireGalleryItem
	if err := c.do(ctx, http.MethodPost, galleryPath, true, g, &out); err != nil {
		return models.GalleryItem{}, err
	}
	return out.model(), nil
}

func (c *Client) UpdateGalleryItem(ctx context.Context, id string, g models.GalleryItem) (models.GalleryItem, error) {
	var out wireGalleryItem
	if err := c.do(ctx, http.MethodPut, itemPath(galleryPath, id), true, g, &out); err != nil {
		return models.GalleryItem{}, err
	}
	return out.model(), nil
}

func (c *Client) DeleteGalleryItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(galleryPath, id), true, nil, nil)
}

func (c *Client) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	var out []wireTestimonial
	if err := c.do(ctx, http.MethodGet, testimonialsPath, false, nil, &out); err != nil {
		return nil, err
	}
	return mapSlice(out, wireTestimonial.model), nil
}

func (c *Client) CreateTestimonial(ctx context.Context, t models.Testimonial) (models.Testimonial, error) {
	var out wireTestimonial
	if err := c.do(ctx, http.MethodPost, testimonialsPath, true, t, &out); err != nil {
		return models.Testimonial{}, err
	}
	return out.model(), nil
}

func (c *Client) UpdateTestimonial(ctx context.Context, id string, t models.Testimonial) (models.Testimonial, error) {
	var out wireTestimonial
	if err := c.do(ctx, http.MethodPut, itemPath(testimonialsPath, id), true, t, &out); err != nil {
		return models.Testimonial{}, err
	}
	return out.model(), nil
}

func (c *Client) DeleteTestimonial(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(testimonialsPath, id), true, nil, nil)
}

// ListOrders требует токен администратора.
func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []wireOrder
	if err := c.do(ctx, http.MethodGet, ordersPath, true, nil, &out); err != nil {
		return nil, err
	}
	return mapSlice(out, wireOrder.model), nil
}

// CreateOrder оформляет заказ. Токен не нужен: оформлять может гость.
func (c *Client) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	var out wireOrder
	if err := c.do(ctx, http.MethodPost, ordersPath, false, o, &out); err != nil {
		return models.Order{}, err
	}
	return out.model(), nil
}

func (c *Client) UpdateOrder(ctx context.Context, id string, o models.Order) (models.Order, error) {
	var out wireOrder
	if err := c.do(ctx, http.MethodPut, itemPath(ordersPath, id), true, o, &out); err != nil {
		return models.Order{}, err
	}
	return out.model(), nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(ordersPath, id), true, nil, nil)
}

func (c *Client) GetSettings(ctx context.Context) (models.SiteSettings, error) {
	var out models.SiteSettings
	if err := c.do(ctx, http.MethodGet, settingsPath, false, nil, &out); err != nil {
		return models.SiteSettings{}, err
	}
	return out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, s models.SiteSettings) (models.SiteSettings, error) {
	var out models.SiteSettings
	if err := c.do(ctx, http.MethodPut, settingsPath, true, s, &out); err != nil {
		return models.SiteSettings{}, err
	}
	return out, nil
}

// Login обменивает учетные данные на токен и пользователя.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, models.User, error) {
	var out struct {
		Token string   `json:"token"`
		User  wireUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, loginPath, false, creds, &out); err != nil {
		return "", models.User{}, err
	}
	return out.Token, out.User.model(), nil
}
