package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/xelth-com/docketgo/internal/response"
)

// Recover turns a panic into a 500 envelope
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				LoggerFrom(r.Context()).
					WithField("stack", string(debug.Stack())).
					Errorf("💥 panic: %v", rec)
				response.Write(w, http.StatusInternalServerError, false, response.InternalErrorMessage, nil, nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
