package role

import (
	"context"
	"fmt"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/auth"
)

type eventRecorder interface {
	Record(ctx context.Context, e models.Event)
}

// Role management, admins only
type Service struct {
	roleRepo repository.RoleRepo
	events   eventRecorder
}

func NewService(roleRepo repository.RoleRepo, events eventRecorder) *Service {
	return &Service{roleRepo: roleRepo, events: events}
}

func (s *Service) List(ctx context.Context, actor models.User) ([]models.Role, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.roleRepo.List(ctx)
}

func (s *Service) Get(ctx context.Context, actor models.User, id int64) (models.Role, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return models.Role{}, err
	}
	return s.roleRepo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor models.User, arg repository.RoleParams) (models.Role, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return models.Role{}, err
	}

	role, err := s.roleRepo.Create(ctx, arg)
	if err != nil {
		return role, err
	}

	s.record(ctx, models.EventRoleCreated, actor.ID, fmt.Sprintf("Role %s created", role.Name))
	return role, nil
}

func (s *Service) Update(ctx context.Context, actor models.User, id int64, arg repository.UpdateRoleParams) (models.Role, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return models.Role{}, err
	}

	role, err := s.roleRepo.Update(ctx, id, arg)
	if err != nil {
		return role, err
	}

	s.record(ctx, models.EventRoleUpdated, actor.ID, fmt.Sprintf("Role %s updated", role.Name))
	return role, nil
}

// Delete removes role. Admin role and roles assigned to users can't be deleted
func (s *Service) Delete(ctx context.Context, actor models.User, id int64) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}
	if id == models.AdminRoleID {
		return apperrors.ErrRoleReserved
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, models.EventRoleDeleted, actor.ID, fmt.Sprintf("Role %d deleted", id))
	return nil
}

func (s *Service) record(ctx context.Context, eventType string, actorID int64, description string) {
	s.events.Record(ctx, models.Event{EventType: eventType, UserID: &actorID, Description: description})
}
