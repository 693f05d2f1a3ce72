package middleware

import (
	"net/http"

	"github.com/xelth-com/docketgo/internal/response"
	"github.com/xelth-com/docketgo/internal/validators"
)

// Validate rejects requests that fail the endpoint's rules with a 400
// envelope. Sanitized query and body reach the next handler.
func Validate(rules validators.Rules) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := rules.Apply(r); err != nil {
				response.Error(w, LoggerFrom(r.Context()), err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
