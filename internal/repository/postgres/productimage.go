package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

type ProductImageRepo struct {
	DB DBTX
}

const listProductImages = `-- name: ListProductImages
SELECT id, product_id, image_path FROM product_images
WHERE product_id = $1
ORDER BY id
`

func (r *ProductImageRepo) ListByProduct(ctx context.Context, productID int64) ([]models.ProductImage, error) {
	rows, _ := r.DB.Query(ctx, listProductImages, productID)
	images, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.ProductImage])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return images, nil
}

const getProductImage = `-- name: GetProductImage
SELECT id, product_id, image_path FROM product_images WHERE id = $1
`

func (r *ProductImageRepo) GetByID(ctx context.Context, id int64) (models.ProductImage, error) {
	rows, _ := r.DB.Query(ctx, getProductImage, id)
	image, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.ProductImage])
	return image, mapErr(err, apperrors.ErrImageNotFound)
}

const createProductImage = `-- name: CreateProductImage
INSERT INTO product_images (product_id, image_path) VALUES ($1, $2)
RETURNING id, product_id, image_path
`

func (r *ProductImageRepo) Create(ctx context.Context, productID int64, imagePath string) (models.ProductImage, error) {
	rows, _ := r.DB.Query(ctx, createProductImage, productID, imagePath)
	image, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.ProductImage])
	if _, ok := isForeignKeyViolation(err); ok {
		return image, apperrors.ErrProductNotFound
	}
	return image, mapErr(err, apperrors.ErrImageNotFound)
}

const updateProductImage = `-- name: UpdateProductImage
UPDATE product_images SET
	product_id = COALESCE($2, product_id),
	image_path = COALESCE($3, image_path)
WHERE id = $1
RETURNING id, product_id, image_path
`

func (r *ProductImageRepo) Update(ctx context.Context, id int64, arg repository.UpdateProductImageParams) (models.ProductImage, error) {
	rows, _ := r.DB.Query(ctx, updateProductImage, id, arg.ProductID, arg.ImagePath)
	image, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.ProductImage])
	if _, ok := isForeignKeyViolation(err); ok {
		return image, apperrors.ErrProductNotFound
	}
	return image, mapErr(err, apperrors.ErrImageNotFound)
}

const deleteProductImage = `-- name: DeleteProductImage
DELETE FROM product_images WHERE id = $1
`

func (r *ProductImageRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, deleteProductImage, id)
	return mustAffect(tag, err, apperrors.ErrImageNotFound)
}

const deleteProductImagesByProduct = `-- name: DeleteProductImagesByProduct
DELETE FROM product_images WHERE product_id = $1
RETURNING id
`

func (r *ProductImageRepo) DeleteByProduct(ctx context.Context, productID int64) ([]int64, error) {
	rows, _ := r.DB.Query(ctx, deleteProductImagesByProduct, productID)
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}
