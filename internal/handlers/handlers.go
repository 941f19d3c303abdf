// Package handlers содержит HTTP обработчики витрины и админки.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/RoGogDBD/timberyard/internal/auth"
	"github.com/RoGogDBD/timberyard/internal/cart"
	"github.com/RoGogDBD/timberyard/internal/checkout"
	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/RoGogDBD/timberyard/internal/resource"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Catalog объединяет ресурсы, которые читает витрина и меняет админка.
type Catalog struct {
	Products     *resource.Resource[models.Product]
	Gallery      *resource.Resource[models.GalleryItem]
	Testimonials *resource.Resource[models.Testimonial]
	Orders       *resource.Resource[models.Order]
	Settings     *resource.Record[models.SiteSettings]
}

// Loaders возвращает ресурсы, которые загружаются при старте и по таймеру.
// Заказы сюда не входят: их список требует токен администратора.
func (c Catalog) Loaders() map[string]resource.Loader {
	return map[string]resource.Loader{
		"products":     c.Products,
		"gallery":      c.Gallery,
		"testimonials": c.Testimonials,
		"settings":     c.Settings,
	}
}

type Handler struct {
	catalog  Catalog
	carts    *cart.Registry
	sessions *auth.Manager
	checkout *checkout.Service
	validate *validator.Validate
	log      *zap.Logger

	cartMutations metric.Int64Counter
}

func NewHandler(
	catalog Catalog,
	carts *cart.Registry,
	sessions *auth.Manager,
	checkoutSvc *checkout.Service,
	validate *validator.Validate,
	log *zap.Logger,
) *Handler {
	h := &Handler{
		catalog:  catalog,
		carts:    carts,
		sessions: sessions,
		checkout: checkoutSvc,
		validate: validate,
		log:      log,
	}

	counter, err := otel.Meter("github.com/RoGogDBD/timberyard/internal/handlers").Int64Counter(
		"storefront.cart.mutations",
		metric.WithDescription("Number of cart mutations by operation"),
	)
	if err != nil {
		log.Warn("create cart mutations counter", zap.Error(err))
	}
	h.cartMutations = counter
	return h
}

// HealthHandler возвращает статус 200 OK и тело "OK" для проверки состояния сервера.
// @Summary  Проверка состояния
// @Tags     system
// @Produce  plain
// @Success  200  {string}  string
// @Router   /healthz [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("encode response", zap.Error(err))
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (h *Handler) valid(w http.ResponseWriter, v any) bool {
	if err := h.validate.Struct(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}
