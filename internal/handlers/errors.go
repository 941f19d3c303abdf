package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/RoGogDBD/timberyard/internal/auth"
	"github.com/RoGogDBD/timberyard/internal/backend"
	"github.com/RoGogDBD/timberyard/internal/checkout"
	"github.com/RoGogDBD/timberyard/internal/resource"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

var (
	errNotFound     = errors.New("not found")
	errNoVisitor    = errors.New("no visitor session")
	errBadParameter = errors.New("bad parameter")
)

// statusFor сопоставляет ошибку HTTP статусу.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadParameter), errors.Is(err, errNoVisitor):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, backend.ErrNoToken), errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, resource.ErrReadOnly):
		return http.StatusMethodNotAllowed
	case errors.Is(err, resource.ErrClosed), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	if status := backend.StatusCode(err); status != 0 {
		if status >= 400 && status < 500 {
			return status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}
