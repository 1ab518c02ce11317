package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/auth"
)

// Partial product update, nil fields are left untouched
type UpdateProductParams struct {
	Title        *string
	Description  *string
	Price        *decimal.Decimal
	Stock        *int
	Brand        *string
	ThumbnailURL *string
	IsPublished  *bool
	CategoryID   *int64
}

func (s *Service) ListProducts(ctx context.Context, arg repository.ListProductsParams) ([]models.Product, error) {
	return s.storage.Product().List(ctx, arg)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	return s.storage.Product().GetByID(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, actor models.User, arg repository.ProductParams) (models.Product, error) {
	var product models.Product

	if err := auth.RequireAdmin(actor); err != nil {
		return product, err
	}
	if err := s.checkProduct(ctx, arg); err != nil {
		return product, err
	}

	product, err := s.storage.Product().Create(ctx, arg)
	if err != nil {
		return product, err
	}

	s.record(ctx, models.EventProductCreated, actor.ID, fmt.Sprintf("Product %s created", product.Title))
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, actor models.User, id int64, arg UpdateProductParams) (models.Product, error) {
	var product models.Product

	if err := auth.RequireAdmin(actor); err != nil {
		return product, err
	}

	current, err := s.storage.Product().GetByID(ctx, id)
	if err != nil {
		return product, err
	}

	params := repository.ProductParams{
		Title:        valueOr(arg.Title, current.Title),
		Description:  valueOr(arg.Description, current.Description),
		Price:        valueOr(arg.Price, current.Price),
		Stock:        valueOr(arg.Stock, current.Stock),
		Brand:        valueOr(arg.Brand, current.Brand),
		ThumbnailURL: valueOr(arg.ThumbnailURL, current.ThumbnailURL),
		IsPublished:  valueOr(arg.IsPublished, current.IsPublished),
		CategoryID:   valueOr(arg.CategoryID, current.CategoryID),
	}
	if err := s.checkProduct(ctx, params); err != nil {
		return product, err
	}

	product, err = s.storage.Product().Update(ctx, id, params)
	if err != nil {
		return product, err
	}

	s.record(ctx, models.EventProductUpdated, actor.ID, fmt.Sprintf("Product %s updated", product.Title))
	return product, nil
}

// DeleteProduct fails with conflict if product is a part of any order
func (s *Service) DeleteProduct(ctx context.Context, actor models.User, id int64) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}

	if err := s.storage.Product().Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, models.EventProductDeleted, actor.ID, fmt.Sprintf("Product %d deleted", id))
	return nil
}

func (s *Service) checkProduct(ctx context.Context, arg repository.ProductParams) error {
	if arg.Price.IsNegative() {
		return apperrors.ErrPriceNegative
	}
	if arg.Stock < 0 {
		return apperrors.ErrStockNegative
	}

	_, err := s.storage.Category().GetByID(ctx, arg.CategoryID)
	return err
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
