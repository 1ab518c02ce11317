package eventlog

import (
	"context"

	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/auth"
)

// Read access to audit log, admins only
type Service struct {
	repo repository.EventRepo
}

func NewService(repo repository.EventRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, actor models.User, page repository.Page) ([]models.Event, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, page)
}

func (s *Service) Get(ctx context.Context, actor models.User, id int64) (models.Event, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return models.Event{}, err
	}
	return s.repo.GetByID(ctx, id)
}
