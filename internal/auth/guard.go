package auth

import "net/http"

// Guard пропускает только вошедших пользователей с ролью role.
// Без сессии - редирект на portal, при чужой роли - на home.
func Guard(role, portal, home string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := FromContext(r.Context())
			if !ok {
				http.Redirect(w, r, portal, http.StatusSeeOther)
				return
			}
			if role != "" && s.Role != role {
				http.Redirect(w, r, home, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guard возвращает мидлвар с путями редиректа из настроек.
func (m *Manager) Guard(role string) func(http.Handler) http.Handler {
	return Guard(role, m.cfg.PortalPath, m.cfg.HomePath)
}
