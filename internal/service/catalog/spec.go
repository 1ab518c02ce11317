package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/auth"
)

func (s *Service) ListSpecs(ctx context.Context, page repository.Page) ([]models.ProductSpecification, error) {
	return s.storage.ProductSpec().List(ctx, page)
}

func (s *Service) GetSpec(ctx context.Context, id int64) (models.ProductSpecification, error) {
	return s.storage.ProductSpec().GetByID(ctx, id)
}

func (s *Service) GetProductSpec(ctx context.Context, productID int64) (models.ProductSpecification, error) {
	return s.storage.ProductSpec().GetByProduct(ctx, productID)
}

// CreateSpec adds specification to the product. Product may have only one
func (s *Service) CreateSpec(ctx context.Context, actor models.User, productID int64, specs json.RawMessage) (models.ProductSpecification, error) {
	var spec models.ProductSpecification

	if err := auth.RequireAdmin(actor); err != nil {
		return spec, err
	}
	if !isJSONObject(specs) {
		return spec, apperrors.ErrSpecNotObject
	}
	if err := s.checkSpecProduct(ctx, productID); err != nil {
		return spec, err
	}

	spec, err := s.storage.ProductSpec().Create(ctx, productID, specs)
	if err != nil {
		return spec, err
	}

	s.record(ctx, models.EventProductSpecCreated, actor.ID, fmt.Sprintf("Specification of product %d created", productID))
	return spec, nil
}

func (s *Service) UpdateSpec(ctx context.Context, actor models.User, id int64, arg repository.UpdateProductSpecParams) (models.ProductSpecification, error) {
	var spec models.ProductSpecification

	if err := auth.RequireAdmin(actor); err != nil {
		return spec, err
	}
	if arg.ProductID == nil && arg.Specifications == nil {
		return spec, apperrors.ErrNothingToUpdate
	}
	if arg.Specifications != nil && !isJSONObject(arg.Specifications) {
		return spec, apperrors.ErrSpecNotObject
	}

	current, err := s.storage.ProductSpec().GetByID(ctx, id)
	if err != nil {
		return spec, err
	}
	if arg.ProductID != nil && *arg.ProductID != current.ProductID {
		if err := s.checkSpecProduct(ctx, *arg.ProductID); err != nil {
			return spec, err
		}
	}

	spec, err = s.storage.ProductSpec().Update(ctx, id, arg)
	if err != nil {
		return spec, err
	}

	s.record(ctx, models.EventProductSpecUpdated, actor.ID, fmt.Sprintf("Specification %d updated", spec.ID))
	return spec, nil
}

func (s *Service) DeleteSpec(ctx context.Context, actor models.User, id int64) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}

	if err := s.storage.ProductSpec().Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, models.EventProductSpecDeleted, actor.ID, fmt.Sprintf("Specification %d deleted", id))
	return nil
}

// Product must exist and have no specification yet
func (s *Service) checkSpecProduct(ctx context.Context, productID int64) error {
	if _, err := s.storage.Product().GetByID(ctx, productID); err != nil {
		return err
	}

	_, err := s.storage.ProductSpec().GetByProduct(ctx, productID)
	switch {
	case err == nil:
		return apperrors.ErrSpecAlreadyExists
	case errors.Is(err, apperrors.ErrSpecNotFound):
		return nil
	default:
		return err
	}
}

func isJSONObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{' && json.Valid(raw)
}
