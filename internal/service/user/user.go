package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/auth"
)

type eventRecorder interface {
	Record(ctx context.Context, e models.Event)
}

type CreateParams struct {
	Username string
	Email    string
	Password string
	FullName string

	// Nil means active user
	IsActive *bool

	// Zero means default role
	RoleID int64
}

// Partial update, nil fields are left untouched
type UpdateParams struct {
	Username *string
	Email    *string
	Password *string
	FullName *string
	IsActive *bool
	RoleID   *int64
}

// Fields the user may change on its own
type UpdateMeParams struct {
	Email    *string
	Password *string
	FullName *string
}

type Config struct {
	// Role of created user when none is given
	// If not set than customer role is used
	DefaultRoleID int64

	// If not set than auth.DefaultHasher is used
	Hasher auth.PasswordHasher
}

// User management. Everything but UpdateMe requires admin
type Service struct {
	defaultRoleID int64
	hasher        auth.PasswordHasher
	storage       repository.Storage
	events        eventRecorder
	logger        logger.Logger
}

func NewService(cfg Config, storage repository.Storage, events eventRecorder, l logger.Logger) *Service {
	if cfg.DefaultRoleID == 0 {
		cfg.DefaultRoleID = models.DefaultRoleID
	}
	if cfg.Hasher == nil {
		cfg.Hasher = auth.DefaultHasher
	}

	return &Service{
		defaultRoleID: cfg.DefaultRoleID,
		hasher:        cfg.Hasher,
		storage:       storage,
		events:        events,
		logger:        l,
	}
}

func (s *Service) List(ctx context.Context, actor models.User, page repository.Page) ([]models.User, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.storage.User().List(ctx, page)
}

func (s *Service) Get(ctx context.Context, actor models.User, id int64) (models.User, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return models.User{}, err
	}
	return s.storage.User().GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor models.User, arg CreateParams) (models.User, error) {
	var user models.User

	if err := auth.RequireAdmin(actor); err != nil {
		return user, err
	}

	if err := s.checkUsername(ctx, arg.Username); err != nil {
		return user, err
	}
	if err := s.checkEmail(ctx, arg.Email); err != nil {
		return user, err
	}

	hash, err := s.hasher.Hash(arg.Password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	isActive := true
	if arg.IsActive != nil {
		isActive = *arg.IsActive
	}
	roleID := arg.RoleID
	if roleID == 0 {
		roleID = s.defaultRoleID
	}

	id, err := s.storage.User().Create(ctx, repository.CreateUserParams{
		Username:     arg.Username,
		Email:        arg.Email,
		PasswordHash: hash,
		FullName:     arg.FullName,
		IsActive:     isActive,
		RoleID:       roleID,
	})
	if err != nil {
		return user, err
	}

	user, err = s.fetchUser(ctx, id)
	if err != nil {
		return user, err
	}

	s.record(ctx, models.EventUserCreated, actor.ID, fmt.Sprintf("User %s created", user.Username))
	return user, nil
}

// Update changes any user field
// Refresh tokens are revoked if user deactivated or password changed
func (s *Service) Update(ctx context.Context, actor models.User, id int64, arg UpdateParams) (models.User, error) {
	var user models.User

	if err := auth.RequireAdmin(actor); err != nil {
		return user, err
	}

	current, err := s.storage.User().GetByID(ctx, id)
	if err != nil {
		return user, err
	}

	if arg.Username != nil && *arg.Username != current.Username {
		if err := s.checkUsername(ctx, *arg.Username); err != nil {
			return user, err
		}
	}
	if arg.Email != nil && *arg.Email != current.Email {
		if err := s.checkEmail(ctx, *arg.Email); err != nil {
			return user, err
		}
	}

	params := repository.UpdateUserParams{
		Username: arg.Username,
		Email:    arg.Email,
		FullName: arg.FullName,
		IsActive: arg.IsActive,
		RoleID:   arg.RoleID,
	}
	revoke := arg.IsActive != nil && !*arg.IsActive
	if arg.Password != nil {
		hash, err := s.hasher.Hash(*arg.Password)
		if err != nil {
			return user, fmt.Errorf("can't use this as password. Err: %w", err)
		}
		params.PasswordHash = &hash
		revoke = true
	}

	user, err = s.update(ctx, id, params, revoke)
	if err != nil {
		return user, err
	}

	s.record(ctx, models.EventUserUpdated, actor.ID, fmt.Sprintf("User %s updated", user.Username))
	return user, nil
}

// UpdateMe changes own profile. Role and active flag can't be changed this way
func (s *Service) UpdateMe(ctx context.Context, actor models.User, arg UpdateMeParams) (models.User, error) {
	var user models.User

	if arg.Email != nil && *arg.Email != actor.Email {
		if err := s.checkEmail(ctx, *arg.Email); err != nil {
			return user, err
		}
	}

	params := repository.UpdateUserParams{
		Email:    arg.Email,
		FullName: arg.FullName,
	}
	if arg.Password != nil {
		hash, err := s.hasher.Hash(*arg.Password)
		if err != nil {
			return user, fmt.Errorf("can't use this as password. Err: %w", err)
		}
		params.PasswordHash = &hash
	}

	user, err := s.update(ctx, actor.ID, params, arg.Password != nil)
	if err != nil {
		return user, err
	}

	s.record(ctx, models.EventUserUpdated, actor.ID, "User updated own profile")
	return user, nil
}

// Delete removes user together with its refresh tokens
func (s *Service) Delete(ctx context.Context, actor models.User, id int64) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		if _, err := tx.Refresh().DeleteByUser(ctx, id); err != nil {
			return err
		}

		deleted, err := tx.User().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.record(ctx, models.EventUserDeleted, actor.ID, fmt.Sprintf("User %d deleted", id))
	return nil
}

func (s *Service) update(ctx context.Context, id int64, params repository.UpdateUserParams, revokeTokens bool) (models.User, error) {
	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		updated, err := tx.User().Update(ctx, id, params)
		if err != nil {
			return err
		}
		if !updated {
			return apperrors.ErrUserNotFound
		}

		if revokeTokens {
			revoked, err := tx.Refresh().DeleteByUser(ctx, id)
			if err != nil {
				return err
			}
			s.logger.Debug("Refresh tokens revoked", "user_id", id, "count", len(revoked))
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	return s.fetchUser(ctx, id)
}

func (s *Service) checkUsername(ctx context.Context, username string) error {
	exists, err := s.storage.User().ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.ErrUsernameTaken
	}
	return nil
}

func (s *Service) checkEmail(ctx context.Context, email string) error {
	exists, err := s.storage.User().ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.ErrEmailTaken
	}
	return nil
}

func (s *Service) fetchUser(ctx context.Context, id int64) (models.User, error) {
	user, err := s.storage.User().GetByID(ctx, id)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		s.logger.Error("User not found right after write", "user_id", id)
		return user, apperrors.ErrUserNotFetched
	}
	return user, err
}

func (s *Service) record(ctx context.Context, eventType string, actorID int64, description string) {
	s.events.Record(ctx, models.Event{EventType: eventType, UserID: &actorID, Description: description})
}
