// Package auth содержит сессии посетителей и защиту маршрутов.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/RoGogDBD/timberyard/internal/config"
	"github.com/RoGogDBD/timberyard/internal/models"
	"github.com/RoGogDBD/timberyard/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "session:"

// ErrInvalidCredentials возвращается при отказе бэкенда во входе.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session - вошедший пользователь.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

// Authenticator проверяет учетные данные.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (string, models.User, error)
}

// Manager управляет cookie посетителя и записями сессий.
type Manager struct {
	kv    repository.KVStore
	authn Authenticator
	cfg   config.SessionConfig
	log   *zap.Logger
}

func NewManager(kv repository.KVStore, authn Authenticator, cfg config.SessionConfig, log *zap.Logger) *Manager {
	return &Manager{kv: kv, authn: authn, cfg: cfg, log: log}
}

type visitorKey struct{}

type visitor struct {
	id      string
	session *Session
}

// VisitorID возвращает идентификатор посетителя (ключ корзины).
func VisitorID(ctx context.Context) string {
	if v, ok := ctx.Value(visitorKey{}).(*visitor); ok {
		return v.id
	}
	return ""
}

// FromContext возвращает сессию вошедшего пользователя.
func FromContext(ctx context.Context) (*Session, bool) {
	v, ok := ctx.Value(visitorKey{}).(*visitor)
	if !ok || v.session == nil {
		return nil, false
	}
	return v.session, true
}

// WithSession кладет сессию в контекст. Используется в тестах и фоновых задачах.
func WithSession(ctx context.Context, s *Session) context.Context {
	id := ""
	if s != nil {
		id = s.ID
	}
	return context.WithValue(ctx, visitorKey{}, &visitor{id: id, session: s})
}

// Token реализует backend.TokenSource: токен сессии из контекста запроса.
func (m *Manager) Token(ctx context.Context) (string, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return "", nil
	}
	return s.Token, nil
}

// Middleware выдает посетителю идентификатор и подгружает его сессию.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(m.cfg.CookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			m.setCookie(w, id)
		}

		v := &visitor{id: id}
		s, err := m.load(r.Context(), id)
		switch {
		case err == nil:
			v.session = s
		case !errors.Is(err, repository.ErrNotFound):
			m.log.Warn("load session", zap.String("visitor", id), zap.Error(err))
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), visitorKey{}, v)))
	})
}

// Login проверяет учетные данные и открывает сессию под новым
// идентификатором посетителя: cookie, выданная до входа, сессию не получает.
// Прежняя сессия посетителя удаляется. Перенос данных, привязанных к старому
// идентификатору (корзины), остается вызывающему.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, creds models.Credentials) (*Session, error) {
	v, ok := ctx.Value(visitorKey{}).(*visitor)
	if !ok || v.id == "" {
		return nil, errors.New("login: no visitor in context")
	}

	token, user, err := m.authn.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrInvalidCredentials
	}

	s := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := m.kv.Set(ctx, sessionKeyPrefix+s.ID, data); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	if err := m.kv.Delete(ctx, sessionKeyPrefix+v.id); err != nil {
		m.log.Warn("delete previous session", zap.String("visitor", v.id), zap.Error(err))
	}

	m.setCookie(w, s.ID)
	v.id = s.ID
	v.session = s
	return s, nil
}

// Logout удаляет сессию. Идентификатор посетителя и корзина сохраняются.
func (m *Manager) Logout(ctx context.Context) error {
	id := VisitorID(ctx)
	if id == "" {
		return nil
	}
	if err := m.kv.Delete(ctx, sessionKeyPrefix+id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if v, ok := ctx.Value(visitorKey{}).(*visitor); ok {
		v.session = nil
	}
	return nil
}

func (m *Manager) load(ctx context.Context, id string) (*Session, error) {
	data, err := m.kv.Get(ctx, sessionKeyPrefix+id)
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (m *Manager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
	})
}
