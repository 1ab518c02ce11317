package catalog

import (
	"context"
	"fmt"

	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/auth"
)

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.storage.Category().List(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	return s.storage.Category().GetByID(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, actor models.User, arg repository.CategoryParams) (models.Category, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return models.Category{}, err
	}

	category, err := s.storage.Category().Create(ctx, arg)
	if err != nil {
		return category, err
	}

	s.record(ctx, models.EventCategoryCreated, actor.ID, fmt.Sprintf("Category %s created", category.Name))
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, actor models.User, id int64, arg repository.UpdateCategoryParams) (models.Category, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return models.Category{}, err
	}

	category, err := s.storage.Category().Update(ctx, id, arg)
	if err != nil {
		return category, err
	}

	s.record(ctx, models.EventCategoryUpdated, actor.ID, fmt.Sprintf("Category %s updated", category.Name))
	return category, nil
}

// DeleteCategory fails with conflict if category still has products
func (s *Service) DeleteCategory(ctx context.Context, actor models.User, id int64) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}

	if err := s.storage.Category().Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, models.EventCategoryDeleted, actor.ID, fmt.Sprintf("Category %d deleted", id))
	return nil
}
