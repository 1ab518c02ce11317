package middleware

import (
	"net/http"

	"github.com/nkiryanov/shop/internal/handlers/render"
)

// RecoveryMiddleware turns handler panic into 500 response
func RecoveryMiddleware(l errorLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					l.Error("panic recovered", "panic", rec, "method", r.Method, "uri", r.RequestURI, "request_id", RequestID(r.Context()))
					render.Detail(w, render.InternalErrorMessage, http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
