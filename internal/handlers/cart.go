package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RoGogDBD/timberyard/internal/auth"
	"github.com/RoGogDBD/timberyard/internal/cart"
	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// visitorCart берет корзину посетителя; release вызывается по окончании запроса.
func (h *Handler) visitorCart(r *http.Request) (*cart.Store, func(), error) {
	id := auth.VisitorID(r.Context())
	if id == "" {
		return nil, nil, errNoVisitor
	}
	return h.carts.Acquire(r.Context(), id)
}

func (h *Handler) countCart(ctx context.Context, op string) {
	if h.cartMutations == nil {
		return
	}
	h.cartMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// cartMutation выполняет изменение корзины и отдает ее новое состояние.
func (h *Handler) cartMutation(w http.ResponseWriter, r *http.Request, op string, mutate func(ctx context.Context, s *cart.Store) error) {
	s, release, err := h.visitorCart(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer release()
	if err := mutate(r.Context(), s); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.countCart(r.Context(), op)
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

// GetCart godoc
// @Summary  Корзина посетителя
// @Tags     cart
// @Produce  json
// @Success  200  {object}  cart.Snapshot
// @Router   /api/cart [get]
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, release, err := h.visitorCart(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer release()
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

// AddCartItem godoc
// @Summary  Добавить товар в корзину
// @Tags     cart
// @Accept   json
// @Produce  json
// @Param    body  body  addItemRequest  true  "товар и количество (по умолчанию 1)"
// @Success  200  {object}  cart.Snapshot
// @Failure  404  {object}  errorResponse
// @Router   /api/cart/items [post]
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, ok := h.catalog.Products.Find(req.ProductID)
	if !ok {
		h.writeError(w, r, fmt.Errorf("product %q: %w", req.ProductID, errNotFound))
		return
	}
	h.cartMutation(w, r, "add", func(ctx context.Context, s *cart.Store) error {
		return s.AddToCart(ctx, p, req.Quantity)
	})
}

// UpdateCartItem перезаписывает количество; quantity < 1 игнорируется.
// @Summary  Изменить количество
// @Tags     cart
// @Accept   json
// @Produce  json
// @Param    id  path  string  true  "ID товара"
// @Param    body  body  updateItemRequest  true  "новое количество"
// @Success  200  {object}  cart.Snapshot
// @Router   /api/cart/items/{id} [patch]
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	h.cartMutation(w, r, "update", func(ctx context.Context, s *cart.Store) error {
		return s.UpdateQuantity(ctx, id, req.Quantity)
	})
}

// RemoveCartItem godoc
// @Summary  Убрать товар из корзины
// @Tags     cart
// @Produce  json
// @Param    id  path  string  true  "ID товара"
// @Success  200  {object}  cart.Snapshot
// @Router   /api/cart/items/{id} [delete]
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.cartMutation(w, r, "remove", func(ctx context.Context, s *cart.Store) error {
		return s.RemoveFromCart(ctx, id)
	})
}

// ClearCart godoc
// @Summary  Очистить корзину
// @Tags     cart
// @Produce  json
// @Success  200  {object}  cart.Snapshot
// @Router   /api/cart [delete]
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cartMutation(w, r, "clear", func(ctx context.Context, s *cart.Store) error {
		return s.ClearCart(ctx)
	})
}

// OpenCart godoc
// @Summary  Открыть панель корзины
// @Tags     cart
// @Produce  json
// @Success  200  {object}  cart.Snapshot
// @Router   /api/cart/open [post]
func (h *Handler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.cartMutation(w, r, "open", func(_ context.Context, s *cart.Store) error {
		s.OpenCart()
		return nil
	})
}

// CloseCart godoc
// @Summary  Закрыть панель корзины
// @Tags     cart
// @Produce  json
// @Success  200  {object}  cart.Snapshot
// @Router   /api/cart/close [post]
func (h *Handler) CloseCart(w http.ResponseWriter, r *http.Request) {
	h.cartMutation(w, r, "close", func(_ context.Context, s *cart.Store) error {
		s.CloseCart()
		return nil
	})
}

type checkoutRequest struct {
	Customer models.Customer `json:"customer"`
	Notes    string          `json:"notes"`
}

// Checkout godoc
// @Summary  Оформить заказ из корзины
// @Tags     cart
// @Accept   json
// @Produce  json
// @Param    body  body  checkoutRequest  true  "покупатель"
// @Success  201  {object}  models.Order
// @Failure  400  {object}  errorResponse
// @Failure  409  {object}  errorResponse
// @Failure  502  {object}  errorResponse
// @Router   /api/checkout [post]
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !h.decode(w, r, &req) {
		return
	}
	s, release, err := h.visitorCart(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer release()
	order, err := h.checkout.PlaceOrder(r.Context(), s, req.Customer, req.Notes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.countCart(r.Context(), "checkout")
	h.writeJSON(w, http.StatusCreated, order)
}
