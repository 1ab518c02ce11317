package catalog

import (
	"context"
	"fmt"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/auth"
)

func (s *Service) ListImages(ctx context.Context, productID int64) ([]models.ProductImage, error) {
	if _, err := s.storage.Product().GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.storage.ProductImage().ListByProduct(ctx, productID)
}

func (s *Service) GetImage(ctx context.Context, id int64) (models.ProductImage, error) {
	return s.storage.ProductImage().GetByID(ctx, id)
}

func (s *Service) CreateImage(ctx context.Context, actor models.User, productID int64, imagePath string) (models.ProductImage, error) {
	var image models.ProductImage

	if err := auth.RequireAdmin(actor); err != nil {
		return image, err
	}
	if _, err := s.storage.Product().GetByID(ctx, productID); err != nil {
		return image, err
	}

	image, err := s.storage.ProductImage().Create(ctx, productID, imagePath)
	if err != nil {
		return image, err
	}

	s.record(ctx, models.EventProductImageCreated, actor.ID, fmt.Sprintf("Image %d added to product %d", image.ID, productID))
	return image, nil
}

// UpdateImage changes image path or moves image to another product
func (s *Service) UpdateImage(ctx context.Context, actor models.User, id int64, arg repository.UpdateProductImageParams) (models.ProductImage, error) {
	var image models.ProductImage

	if err := auth.RequireAdmin(actor); err != nil {
		return image, err
	}
	if arg.ProductID == nil && arg.ImagePath == nil {
		return image, apperrors.ErrNothingToUpdate
	}
	if arg.ProductID != nil {
		if _, err := s.storage.Product().GetByID(ctx, *arg.ProductID); err != nil {
			return image, err
		}
	}

	image, err := s.storage.ProductImage().Update(ctx, id, arg)
	if err != nil {
		return image, err
	}

	s.record(ctx, models.EventProductImageUpdated, actor.ID, fmt.Sprintf("Image %d updated", image.ID))
	return image, nil
}

func (s *Service) DeleteImage(ctx context.Context, actor models.User, id int64) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}

	if err := s.storage.ProductImage().Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, models.EventProductImageDeleted, actor.ID, fmt.Sprintf("Image %d deleted", id))
	return nil
}

// DeleteProductImages removes all images of the product and returns ids of deleted ones
func (s *Service) DeleteProductImages(ctx context.Context, actor models.User, productID int64) ([]int64, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.storage.Product().GetByID(ctx, productID); err != nil {
		return nil, err
	}

	ids, err := s.storage.ProductImage().DeleteByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.record(ctx, models.EventProductImageBulkDeleted, actor.ID, fmt.Sprintf("%d images of product %d deleted", len(ids), productID))
	return ids, nil
}
