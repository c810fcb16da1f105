package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rolodexhq/rolodex/internal/application/auth"
)

// SessionResolver validates the bearer token and sets the resolved user in
// the request context (see UserFromContext). All failures return a single
// generic 401.
type SessionResolver struct {
	resolver *auth.CurrentUser
}

func NewSessionResolver(resolver *auth.CurrentUser) *SessionResolver {
	return &SessionResolver{resolver: resolver}
}

func (m *SessionResolver) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			unauthorized(w)
			return
		}
		user, err := m.resolver.Resolve(r.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "could not validate credentials",
		"code":  "unauthorized",
	})
}
