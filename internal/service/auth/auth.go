package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/auth/tokenmanager"
)

type eventRecorder interface {
	Record(ctx context.Context, e models.Event)
}

type Config struct {
	// Role assigned to users on registration
	// If not set than customer role is used
	DefaultRoleID int64

	// Hasher to use during user registration or login process
	// If not set than DefaultHasher is used
	Hasher PasswordHasher
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
	FullName string
}

// Session service: registration, login, token rotation and logout
type Service struct {
	defaultRoleID int64

	// hasher to hash or compare user passwords
	hasher PasswordHasher

	// Manager to issue tokens and keep ledger of refresh ones
	tokens *tokenmanager.TokenManager

	// Repository to access long term data
	userRepo repository.UserRepo

	events eventRecorder
	logger logger.Logger
}

func NewService(cfg Config, tokens *tokenmanager.TokenManager, userRepo repository.UserRepo, events eventRecorder, l logger.Logger) (*Service, error) {
	if tokens == nil || userRepo == nil {
		return nil, errors.New("token manager and user repo must not be nil")
	}

	if cfg.DefaultRoleID == 0 {
		cfg.DefaultRoleID = models.DefaultRoleID
	}
	if cfg.Hasher == nil {
		cfg.Hasher = DefaultHasher
	}

	return &Service{
		defaultRoleID: cfg.DefaultRoleID,
		hasher:        cfg.Hasher,
		tokens:        tokens,
		userRepo:      userRepo,
		events:        events,
		logger:        l,
	}, nil
}

func (s *Service) Register(ctx context.Context, arg RegisterParams) (models.Session, error) {
	var session models.Session

	exists, err := s.userRepo.ExistsByUsername(ctx, arg.Username)
	if err != nil {
		return session, err
	}
	if exists {
		return session, apperrors.ErrUsernameTaken
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, arg.Email)
	if err != nil {
		return session, err
	}
	if exists {
		return session, apperrors.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(arg.Password)
	if err != nil {
		return session, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	now := time.Now()
	id, err := s.userRepo.Create(ctx, repository.CreateUserParams{
		Username:     arg.Username,
		Email:        arg.Email,
		PasswordHash: hash,
		FullName:     arg.FullName,
		IsActive:     true,
		RoleID:       s.defaultRoleID,
		LastLogin:    &now,
	})
	if err != nil {
		return session, err
	}

	user, err := s.fetchUser(ctx, id)
	if err != nil {
		return session, err
	}

	return s.startSession(ctx, user, models.EventAuthRegister, "User registered")
}

func (s *Service) Login(ctx context.Context, username string, password string) (models.Session, error) {
	var session models.Session

	creds, err := s.userRepo.GetCredentials(ctx, username)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return session, apperrors.ErrBadCredentials
	case err != nil:
		return session, err
	}

	if !s.hasher.Verify(password, creds.PasswordHash) {
		return session, apperrors.ErrBadCredentials
	}

	if !creds.IsActive {
		return session, apperrors.ErrUserInactive
	}

	if err := s.userRepo.UpdateLastLogin(ctx, creds.ID, time.Now()); err != nil {
		return session, err
	}

	user, err := s.fetchUser(ctx, creds.ID)
	if err != nil {
		return session, err
	}

	return s.startSession(ctx, user, models.EventAuthLogin, "User logged in")
}

// Refresh rotates refresh token: the presented one is consumed and the new pair is issued
func (s *Service) Refresh(ctx context.Context, raw string) (models.TokenPair, error) {
	var pair models.TokenPair

	claims, err := s.tokens.Decode(raw)
	if err != nil {
		return pair, apperrors.ErrInvalidRefreshToken
	}
	if claims.Scope != models.ScopeRefresh {
		return pair, apperrors.ErrInvalidTokenScope
	}

	record, err := s.tokens.FindByHash(ctx, tokenmanager.HashToken(raw))
	if err != nil {
		return pair, err
	}

	if strconv.FormatInt(record.UserID, 10) != claims.Subject {
		return pair, apperrors.ErrRefreshTokenMismatch
	}

	user, err := s.userRepo.GetByID(ctx, record.UserID)
	if err != nil {
		return pair, err
	}

	// Concurrent refresh with the same token may win the race, treat it as already used token
	consumed, err := s.tokens.Revoke(ctx, record.ID)
	if err != nil {
		return pair, err
	}
	if !consumed {
		return pair, apperrors.ErrRefreshTokenNotFound
	}

	pair, err = s.issueTokens(ctx, user)
	if err != nil {
		return pair, err
	}

	s.record(ctx, models.EventAuthRefresh, &user.ID, "Tokens refreshed")
	return pair, nil
}

// Logout revokes refresh token
// Unknown or already revoked token is not an error
func (s *Service) Logout(ctx context.Context, actor models.User, raw string) error {
	hash := tokenmanager.HashToken(raw)

	deleted, err := s.tokens.RevokeByHash(ctx, hash)
	if err != nil {
		return err
	}

	if len(deleted) == 0 {
		record, err := s.tokens.FindByHash(ctx, hash)
		switch {
		case errors.Is(err, apperrors.ErrRefreshTokenNotFound):
			s.logger.Debug("Logout with unknown refresh token", "user_id", actor.ID)
		case err != nil:
			return err
		default:
			if _, err := s.tokens.Revoke(ctx, record.ID); err != nil {
				return err
			}
		}
	}

	s.record(ctx, models.EventAuthLogout, &actor.ID, "User logged out")
	return nil
}

func (s *Service) startSession(ctx context.Context, user models.User, eventType string, description string) (models.Session, error) {
	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return models.Session{}, err
	}

	s.record(ctx, eventType, &user.ID, description)
	return models.Session{User: user, Tokens: pair}, nil
}

func (s *Service) issueTokens(ctx context.Context, user models.User) (models.TokenPair, error) {
	var pair models.TokenPair

	subject := strconv.FormatInt(user.ID, 10)
	extra := map[string]any{"username": user.Username}

	access, err := s.tokens.Encode(subject, models.ScopeAccess, s.tokens.AccessTTL(), extra)
	if err != nil {
		return pair, err
	}

	refresh, err := s.tokens.Encode(subject, models.ScopeRefresh, s.tokens.RefreshTTL(), extra)
	if err != nil {
		return pair, err
	}

	if _, err := s.tokens.Store(ctx, user.ID, refresh, time.Now().Add(s.tokens.RefreshTTL())); err != nil {
		return pair, err
	}

	return models.TokenPair{
		TokenType:        models.TokenTypeBearer,
		Access:           access,
		Refresh:          refresh,
		AccessExpiresIn:  s.tokens.AccessTTL(),
		RefreshExpiresIn: s.tokens.RefreshTTL(),
	}, nil
}

// Re-fetch user after write. Missing user means storage lost the write
func (s *Service) fetchUser(ctx context.Context, id int64) (models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		s.logger.Error("User not found right after write", "user_id", id)
		return user, apperrors.ErrUserNotFetched
	case err != nil:
		return user, err
	}
	return user, nil
}

func (s *Service) record(ctx context.Context, eventType string, userID *int64, description string) {
	if s.events == nil {
		return
	}
	s.events.Record(ctx, models.Event{EventType: eventType, UserID: userID, Description: description})
}
