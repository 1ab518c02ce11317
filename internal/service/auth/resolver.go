package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/auth/tokenmanager"
)

// Resolver turns bearer access token into active user
type Resolver struct {
	tokens   *tokenmanager.TokenManager
	userRepo repository.UserRepo
}

func NewResolver(tokens *tokenmanager.TokenManager, userRepo repository.UserRepo) *Resolver {
	return &Resolver{tokens: tokens, userRepo: userRepo}
}

func (r *Resolver) Authenticate(ctx context.Context, token string) (models.User, error) {
	var user models.User

	claims, err := r.tokens.Decode(token)
	if err != nil {
		return user, apperrors.ErrInvalidCredentials
	}

	// Refresh tokens must go through rotation and never authenticate requests
	if claims.Scope != models.ScopeAccess {
		return user, apperrors.ErrInvalidTokenScope
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return user, apperrors.ErrInvalidCredentials
	}

	user, err = r.userRepo.GetByID(ctx, id)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return user, apperrors.ErrInvalidCredentials
	case err != nil:
		return user, err
	}

	if !user.IsActive {
		return models.User{}, apperrors.ErrUserInactive
	}

	return user, nil
}
