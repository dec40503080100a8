package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/plankhq/plank/internal/auth"
)

// Auth validates the Bearer access token and injects the caller id into the
// request context. WebSocket upgrades may instead carry the token as a
// query parameter since browsers cannot set headers on ws connections.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractBearer(r)
			if tok == "" {
				tok = r.URL.Query().Get("token")
			}
			if tok != "" {
				if userID, err := auth.VerifyAccessToken(tok, jwtSecret); err == nil {
					ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			http.Error(w, `{"title":"Unauthorized","status":401,"detail":"missing or invalid credentials"}`, http.StatusUnauthorized)
		})
	}
}

func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return header[7:]
	}
	return ""
}
