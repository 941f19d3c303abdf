package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/RoGogDBD/timberyard/docs"
	"github.com/RoGogDBD/timberyard/internal/auth"
	"github.com/RoGogDBD/timberyard/internal/config"
	"github.com/RoGogDBD/timberyard/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSwaggerCoversRoutes(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	h := &Handler{sessions: auth.NewManager(repository.NewMemStorage(), nil, config.SessionConfig{}, zap.NewNop())}
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	var routes int
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if strings.HasPrefix(route, "/swagger/") {
			return nil
		}
		if len(route) > 1 {
			route = strings.TrimSuffix(route, "/")
		}
		routes++
		ops, ok := doc.Paths[route]
		if assert.True(t, ok, "route %s %s is not documented", method, route) {
			assert.Contains(t, ops, strings.ToLower(method), "route %s %s is not documented", method, route)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Greater(t, routes, 30)
}
