package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

type ProductRepo struct {
	DB DBTX
}

const productColumns = `id, title, description, price, stock, brand, thumbnail_url, is_published, category_id`

const listProducts = `-- name: ListProducts
SELECT ` + productColumns + `
FROM products
WHERE ($3::bigint IS NULL OR category_id = $3)
ORDER BY id
LIMIT $1 OFFSET $2
`

func (r *ProductRepo) List(ctx context.Context, arg repository.ListProductsParams) ([]models.Product, error) {
	rows, _ := r.DB.Query(ctx, listProducts, arg.Limit, arg.Offset, arg.CategoryID)
	products, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Product])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return products, nil
}

const getProduct = `-- name: GetProduct
SELECT ` + productColumns + ` FROM products WHERE id = $1
`

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, getProduct, id)
	product, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Product])
	return product, mapErr(err, apperrors.ErrProductNotFound)
}

const createProduct = `-- name: CreateProduct
INSERT INTO products (title, description, price, stock, brand, thumbnail_url, is_published, category_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + productColumns

func (r *ProductRepo) Create(ctx context.Context, arg repository.ProductParams) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, createProduct,
		arg.Title, arg.Description, arg.Price, arg.Stock, arg.Brand, arg.ThumbnailURL, arg.IsPublished, arg.CategoryID,
	)
	product, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Product])
	if _, ok := isForeignKeyViolation(err); ok {
		return product, apperrors.ErrCategoryNotFound
	}
	return product, mapErr(err, apperrors.ErrProductNotFound)
}

const updateProduct = `-- name: UpdateProduct
UPDATE products SET
	title = $2,
	description = $3,
	price = $4,
	stock = $5,
	brand = $6,
	thumbnail_url = $7,
	is_published = $8,
	category_id = $9
WHERE id = $1
RETURNING ` + productColumns

func (r *ProductRepo) Update(ctx context.Context, id int64, arg repository.ProductParams) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, updateProduct,
		id, arg.Title, arg.Description, arg.Price, arg.Stock, arg.Brand, arg.ThumbnailURL, arg.IsPublished, arg.CategoryID,
	)
	product, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Product])
	if _, ok := isForeignKeyViolation(err); ok {
		return product, apperrors.ErrCategoryNotFound
	}
	return product, mapErr(err, apperrors.ErrProductNotFound)
}

const deleteProduct = `-- name: DeleteProduct
DELETE FROM products WHERE id = $1
`

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, deleteProduct, id)
	if _, ok := isForeignKeyViolation(err); ok {
		return apperrors.ErrProductInUse
	}
	return mustAffect(tag, err, apperrors.ErrProductNotFound)
}
