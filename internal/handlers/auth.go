package handlers

import (
	"net/http"

	"github.com/RoGogDBD/timberyard/internal/auth"
	"github.com/RoGogDBD/timberyard/internal/models"
	"go.uber.org/zap"
)

type sessionResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login godoc
// @Summary  Вход
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body  body  models.Credentials  true  "учетные данные"
// @Success  200  {object}  sessionResponse
// @Failure  401  {object}  errorResponse
// @Router   /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !h.decode(w, r, &creds) || !h.valid(w, creds) {
		return
	}
	previous := auth.VisitorID(r.Context())
	s, err := h.sessions.Login(r.Context(), w, creds)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	// Корзина переезжает на новый идентификатор вместе с посетителем.
	if err := h.carts.Move(r.Context(), previous, s.ID); err != nil {
		h.log.Warn("move cart after login", zap.Error(err))
	}
	h.writeJSON(w, http.StatusOK, sessionResponse{Name: s.Name, Email: s.Email, Role: s.Role})
}

// Logout godoc
// @Summary  Выход
// @Tags     auth
// @Produce  json
// @Success  204
// @Router   /api/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me возвращает текущую сессию или 401.
// @Summary  Текущая сессия
// @Tags     auth
// @Produce  json
// @Success  200  {object}  sessionResponse
// @Failure  401  {object}  errorResponse
// @Router   /api/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := auth.FromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not signed in"})
		return
	}
	h.writeJSON(w, http.StatusOK, sessionResponse{Name: s.Name, Email: s.Email, Role: s.Role})
}

type portalResponse struct {
	LoginURL string `json:"loginUrl"`
	SignedIn bool   `json:"signedIn"`
}

// Portal - публичная страница входа, куда ведет редирект защищенных маршрутов.
// @Summary  Страница входа
// @Tags     auth
// @Produce  json
// @Success  200  {object}  portalResponse
// @Router   /portal [get]
func (h *Handler) Portal(w http.ResponseWriter, r *http.Request) {
	_, signedIn := auth.FromContext(r.Context())
	h.writeJSON(w, http.StatusOK, portalResponse{LoginURL: "/api/auth/login", SignedIn: signedIn})
}
