package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/RoGogDBD/timberyard/internal/resource"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// writeState отдает состояние ресурса. Ошибка последней загрузки дает 502,
// но прежние данные все равно возвращаются.
func writeState[T any](h *Handler, w http.ResponseWriter, st resource.State[T]) {
	status := http.StatusOK
	if st.Err != "" {
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, st)
}

// ListProducts godoc
// @Summary      Каталог товаров
// @Description  Возвращает загруженный каталог; фильтры category, q, in_stock.
// @Tags         catalog
// @Produce      json
// @Param        category  query  string  false  "категория"
// @Param        q         query  string  false  "поиск по названию и тегам"
// @Param        in_stock  query  bool    false  "только в наличии"
// @Success      200  {object}  resource.State[models.Product]
// @Failure      502  {object}  resource.State[models.Product]
// @Router       /api/products [get]
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	st := h.catalog.Products.State()
	st.Data = filterProducts(st.Data, r)
	writeState(h, w, st)
}

func filterProducts(products []models.Product, r *http.Request) []models.Product {
	q := r.URL.Query()
	category := models.Category(q.Get("category"))
	search := strings.ToLower(strings.TrimSpace(q.Get("q")))
	inStock, _ := strconv.ParseBool(q.Get("in_stock"))

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if inStock && !p.InStock() {
			continue
		}
		if search != "" && !matches(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p models.Product, search string) bool {
	if strings.Contains(strings.ToLower(p.Name), search) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// GetProduct godoc
// @Summary  Товар по идентификатору
// @Tags     catalog
// @Produce  json
// @Param    id   path  string  true  "ID товара"
// @Success  200  {object}  models.Product
// @Failure  404  {object}  errorResponse
// @Router   /api/products/{id} [get]
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.catalog.Products.Find(id)
	if !ok {
		h.writeError(w, r, fmt.Errorf("product %q: %w", id, errNotFound))
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

type priceQuote struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
	Savings   decimal.Decimal `json:"savings"`
}

// ProductPrice считает цену с учетом оптовых порогов.
// @Summary  Цена с учетом оптовых порогов
// @Tags     catalog
// @Produce  json
// @Param    id  path  string  true  "ID товара"
// @Param    qty  query  int  false  "количество (по умолчанию 1)"
// @Success  200  {object}  priceQuote
// @Failure  400  {object}  errorResponse
// @Failure  404  {object}  errorResponse
// @Router   /api/products/{id}/price [get]
func (h *Handler) ProductPrice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.catalog.Products.Find(id)
	if !ok {
		h.writeError(w, r, fmt.Errorf("product %q: %w", id, errNotFound))
		return
	}

	qty := 1
	if raw := r.URL.Query().Get("qty"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(w, r, fmt.Errorf("qty %q: %w", raw, errBadParameter))
			return
		}
		qty = n
	}

	unit := p.UnitPriceFor(qty)
	n := decimal.NewFromInt(int64(qty))
	h.writeJSON(w, http.StatusOK, priceQuote{
		ProductID: p.ID,
		Quantity:  qty,
		UnitPrice: unit,
		Total:     unit.Mul(n),
		Savings:   p.Price.Sub(unit).Mul(n),
	})
}

// ListGallery godoc
// @Summary  Галерея работ
// @Tags     catalog
// @Produce  json
// @Success  200  {object}  resource.State[models.GalleryItem]
// @Failure  502  {object}  resource.State[models.GalleryItem]
// @Router   /api/gallery [get]
func (h *Handler) ListGallery(w http.ResponseWriter, r *http.Request) {
	writeState(h, w, h.catalog.Gallery.State())
}

// ListTestimonials отдает только одобренные отзывы, если не передан all=true.
// @Summary  Отзывы
// @Tags     catalog
// @Produce  json
// @Param    all  query  bool  false  "включая неодобренные"
// @Success  200  {object}  resource.State[models.Testimonial]
// @Failure  502  {object}  resource.State[models.Testimonial]
// @Router   /api/testimonials [get]
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	st := h.catalog.Testimonials.State()
	if all, _ := strconv.ParseBool(r.URL.Query().Get("all")); !all {
		approved := make([]models.Testimonial, 0, len(st.Data))
		for _, t := range st.Data {
			if t.Approved {
				approved = append(approved, t)
			}
		}
		st.Data = approved
	}
	writeState(h, w, st)
}

// GetSettings godoc
// @Summary  Настройки сайта
// @Tags     catalog
// @Produce  json
// @Success  200  {object}  resource.RecordState[models.SiteSettings]
// @Failure  502  {object}  resource.RecordState[models.SiteSettings]
// @Router   /api/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	st := h.catalog.Settings.State()
	status := http.StatusOK
	if st.Err != "" {
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, st)
}

type homeResponse struct {
	StoreName    string            `json:"storeName"`
	Announcement string            `json:"announcement,omitempty"`
	Categories   []models.Category `json:"categories"`
	Featured     []models.Product  `json:"featured"`
}

const featuredCount = 4

// Home отдает данные главной страницы.
// @Summary  Главная страница
// @Tags     catalog
// @Produce  json
// @Success  200  {object}  homeResponse
// @Router   / [get]
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	settings := h.catalog.Settings.State().Data
	featured := make([]models.Product, 0, featuredCount)
	for _, p := range h.catalog.Products.State().Data {
		if len(featured) == featuredCount {
			break
		}
		if p.InStock() {
			featured = append(featured, p)
		}
	}
	h.writeJSON(w, http.StatusOK, homeResponse{
		StoreName:    settings.StoreName,
		Announcement: settings.Announcement,
		Categories:   models.Categories(),
		Featured:     featured,
	})
}
