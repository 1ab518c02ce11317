// Package userctx carries the authenticated user through request context
package userctx

import (
	"context"

	"github.com/nkiryanov/shop/internal/models"
)

type userKey struct{}

// New returns context holding user resolved from the bearer token
func New(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// FromContext returns user stored by New. ok is false for anonymous requests
func FromContext(ctx context.Context) (u models.User, ok bool) {
	u, ok = ctx.Value(userKey{}).(models.User)
	return u, ok
}
