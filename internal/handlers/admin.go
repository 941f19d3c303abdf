package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/RoGogDBD/timberyard/internal/resource"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminListProducts godoc
// @Summary  Товары для админки
// @Tags     admin
// @Produce  json
// @Success  200  {object}  resource.State[models.Product]
// @Failure  303
// @Failure  502  {object}  resource.State[models.Product]
// @Router   /admin/products [get]
func (h *Handler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	writeState(h, w, h.catalog.Products.State())
}

// CreateProduct godoc
// @Summary  Создать товар
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    body  body  models.Product  true  "товар"
// @Success  201  {object}  models.Product
// @Failure  400  {object}  errorResponse
// @Router   /admin/products [post]
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if !h.decode(w, r, &p) || !h.valid(w, p) {
		return
	}
	created, err := h.catalog.Products.Add(r.Context(), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// UpdateProduct godoc
// @Summary  Изменить товар
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    id  path  string  true  "ID товара"
// @Param    body  body  models.Product  true  "товар"
// @Success  200  {object}  models.Product
// @Failure  400  {object}  errorResponse
// @Failure  502  {object}  errorResponse
// @Router   /admin/products/{id} [put]
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if !h.decode(w, r, &p) || !h.valid(w, p) {
		return
	}
	id := chi.URLParam(r, "id")
	p.ID = id
	updated, err := h.catalog.Products.Update(r.Context(), id, p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct godoc
// @Summary  Удалить товар
// @Tags     admin
// @Produce  json
// @Param    id  path  string  true  "ID товара"
// @Success  204
// @Failure  502  {object}  errorResponse
// @Router   /admin/products/{id} [delete]
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type inventoryRequest struct {
	Stock     *int  `json:"stock" validate:"required,gte=0"`
	Available *bool `json:"available"`
}

// UpdateInventory меняет остаток и доступность товара.
// @Summary  Изменить остаток
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    id  path  string  true  "ID товара"
// @Param    body  body  inventoryRequest  true  "остаток и доступность"
// @Success  200  {object}  models.Product
// @Failure  400  {object}  errorResponse
// @Failure  404  {object}  errorResponse
// @Router   /admin/inventory/{id} [patch]
func (h *Handler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	var req inventoryRequest
	if !h.decode(w, r, &req) || !h.valid(w, req) {
		return
	}
	id := chi.URLParam(r, "id")
	p, ok := h.catalog.Products.Find(id)
	if !ok {
		h.writeError(w, r, fmt.Errorf("product %q: %w", id, errNotFound))
		return
	}
	p.Stock = *req.Stock
	if req.Available != nil {
		p.Available = *req.Available
	}
	updated, err := h.catalog.Products.Update(r.Context(), id, p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// ListOrders загружает заказы с токеном администратора и отдает состояние.
// @Summary  Заказы
// @Tags     admin
// @Produce  json
// @Success  200  {object}  resource.State[models.Order]
// @Failure  303
// @Failure  502  {object}  resource.State[models.Order]
// @Router   /admin/orders [get]
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	h.loadOrders(r.Context())
	writeState(h, w, h.catalog.Orders.State())
}

// loadOrders перечитывает заказы. Ошибка загрузки уже лежит в состоянии ресурса.
func (h *Handler) loadOrders(ctx context.Context) {
	if err := h.catalog.Orders.Load(ctx); err != nil && !errors.Is(err, resource.ErrSuperseded) {
		h.log.Warn("load orders", zap.Error(err))
	}
}

// findOrder ищет заказ в загруженном списке. Заказы требуют токена
// администратора и не грузятся при старте, поэтому при промахе список
// перечитывается один раз.
func (h *Handler) findOrder(ctx context.Context, id string) (models.Order, bool) {
	if o, ok := h.catalog.Orders.Find(id); ok {
		return o, true
	}
	h.loadOrders(ctx)
	return h.catalog.Orders.Find(id)
}

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,order_status"`
}

// UpdateOrderStatus godoc
// @Summary  Изменить статус заказа
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    id  path  string  true  "ID заказа"
// @Param    body  body  orderStatusRequest  true  "новый статус"
// @Success  200  {object}  models.Order
// @Failure  400  {object}  errorResponse
// @Failure  404  {object}  errorResponse
// @Router   /admin/orders/{id}/status [patch]
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req orderStatusRequest
	if !h.decode(w, r, &req) || !h.valid(w, req) {
		return
	}
	id := chi.URLParam(r, "id")
	o, ok := h.findOrder(r.Context(), id)
	if !ok {
		h.writeError(w, r, fmt.Errorf("order %q: %w", id, errNotFound))
		return
	}
	o.Status = req.Status
	updated, err := h.catalog.Orders.Update(r.Context(), id, o)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// CreateGalleryItem godoc
// @Summary  Добавить фото в галерею
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    body  body  models.GalleryItem  true  "фото"
// @Success  201  {object}  models.GalleryItem
// @Failure  400  {object}  errorResponse
// @Router   /admin/gallery [post]
func (h *Handler) CreateGalleryItem(w http.ResponseWriter, r *http.Request) {
	var g models.GalleryItem
	if !h.decode(w, r, &g) || !h.valid(w, g) {
		return
	}
	created, err := h.catalog.Gallery.Add(r.Context(), g)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// DeleteGalleryItem godoc
// @Summary  Удалить фото
// @Tags     admin
// @Produce  json
// @Param    id  path  string  true  "ID фото"
// @Success  204
// @Failure  502  {object}  errorResponse
// @Router   /admin/gallery/{id} [delete]
func (h *Handler) DeleteGalleryItem(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Gallery.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateTestimonial godoc
// @Summary  Добавить отзыв
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    body  body  models.Testimonial  true  "отзыв"
// @Success  201  {object}  models.Testimonial
// @Failure  400  {object}  errorResponse
// @Router   /admin/testimonials [post]
func (h *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var t models.Testimonial
	if !h.decode(w, r, &t) || !h.valid(w, t) {
		return
	}
	created, err := h.catalog.Testimonials.Add(r.Context(), t)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

type approvalRequest struct {
	Approved bool `json:"approved"`
}

// ApproveTestimonial публикует или скрывает отзыв.
// @Summary  Одобрить или скрыть отзыв
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    id  path  string  true  "ID отзыва"
// @Param    body  body  approvalRequest  true  "флаг публикации"
// @Success  200  {object}  models.Testimonial
// @Failure  404  {object}  errorResponse
// @Router   /admin/testimonials/{id}/approval [patch]
func (h *Handler) ApproveTestimonial(w http.ResponseWriter, r *http.Request) {
	var req approvalRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	t, ok := h.catalog.Testimonials.Find(id)
	if !ok {
		h.writeError(w, r, fmt.Errorf("testimonial %q: %w", id, errNotFound))
		return
	}
	t.Approved = req.Approved
	updated, err := h.catalog.Testimonials.Update(r.Context(), id, t)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteTestimonial godoc
// @Summary  Удалить отзыв
// @Tags     admin
// @Produce  json
// @Param    id  path  string  true  "ID отзыва"
// @Success  204
// @Failure  502  {object}  errorResponse
// @Router   /admin/testimonials/{id} [delete]
func (h *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Testimonials.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateSettings godoc
// @Summary  Сохранить настройки сайта
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    body  body  models.SiteSettings  true  "настройки"
// @Success  200  {object}  models.SiteSettings
// @Failure  400  {object}  errorResponse
// @Router   /admin/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var s models.SiteSettings
	if !h.decode(w, r, &s) || !h.valid(w, s) {
		return
	}
	saved, err := h.catalog.Settings.Save(r.Context(), s)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

// Refresh перезагружает публичные ресурсы и отдает ошибки загрузки по именам.
// @Summary  Перезагрузить каталог
// @Tags     admin
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /admin/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	resource.LoadAll(r.Context(), h.log, h.catalog.Loaders())
	h.writeJSON(w, http.StatusOK, map[string]string{
		"products":     h.catalog.Products.State().Err,
		"gallery":      h.catalog.Gallery.State().Err,
		"testimonials": h.catalog.Testimonials.State().Err,
		"settings":     h.catalog.Settings.State().Err,
	})
}
