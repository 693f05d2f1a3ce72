package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xelth-com/docketgo/internal/response"
	"github.com/xelth-com/docketgo/internal/utils"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// Auth verifies bearer JWT tokens signed with secret. With an empty secret
// every request passes through.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Write(w, http.StatusUnauthorized, false, "Authorization header required", nil, nil)
				return
			}

			// Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Write(w, http.StatusUnauthorized, false, "Invalid authorization header format", nil, nil)
				return
			}

			claims, err := utils.ValidateToken(parts[1], secret)
			if err != nil {
				response.Write(w, http.StatusUnauthorized, false, "Invalid or expired token", nil, nil)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the verified token claims, if any
func ClaimsFrom(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(jwt.MapClaims)
	return claims, ok
}
