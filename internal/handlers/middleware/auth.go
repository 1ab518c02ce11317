package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/handlers/userctx"
	"github.com/nkiryanov/shop/internal/models"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

type errorLogger interface {
	Error(msg string, args ...any)
}

// AuthMiddleware resolves bearer token into user and puts it into request context
// Requests without valid access token are rejected
func AuthMiddleware(a authenticator, l errorLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				render.Error(w, apperrors.ErrNotAuthenticated, l)
				return
			}

			user, err := a.Authenticate(r.Context(), token)
			if err != nil {
				render.Error(w, err, l)
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts token from the Authorization header
// Scheme is compared case-insensitively
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
