package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

type ProductSpecRepo struct {
	DB DBTX
}

const specColumns = `id, product_id, specifications, created_at, updated_at`

const listProductSpecs = `-- name: ListProductSpecs
SELECT ` + specColumns + ` FROM product_specifications
ORDER BY id
LIMIT $1 OFFSET $2
`

func (r *ProductSpecRepo) List(ctx context.Context, page repository.Page) ([]models.ProductSpecification, error) {
	rows, _ := r.DB.Query(ctx, listProductSpecs, page.Limit, page.Offset)
	specs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.ProductSpecification])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return specs, nil
}

const getProductSpec = `-- name: GetProductSpec
SELECT ` + specColumns + ` FROM product_specifications WHERE id = $1
`

func (r *ProductSpecRepo) GetByID(ctx context.Context, id int64) (models.ProductSpecification, error) {
	rows, _ := r.DB.Query(ctx, getProductSpec, id)
	spec, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.ProductSpecification])
	return spec, mapErr(err, apperrors.ErrSpecNotFound)
}

const getProductSpecByProduct = `-- name: GetProductSpecByProduct
SELECT ` + specColumns + ` FROM product_specifications WHERE product_id = $1
`

func (r *ProductSpecRepo) GetByProduct(ctx context.Context, productID int64) (models.ProductSpecification, error) {
	rows, _ := r.DB.Query(ctx, getProductSpecByProduct, productID)
	spec, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.ProductSpecification])
	return spec, mapErr(err, apperrors.ErrSpecNotFound)
}

const createProductSpec = `-- name: CreateProductSpec
INSERT INTO product_specifications (product_id, specifications) VALUES ($1, $2)
RETURNING ` + specColumns

func (r *ProductSpecRepo) Create(ctx context.Context, productID int64, specs json.RawMessage) (models.ProductSpecification, error) {
	rows, _ := r.DB.Query(ctx, createProductSpec, productID, specs)
	spec, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.ProductSpecification])
	return spec, specWriteErr(err)
}

const updateProductSpec = `-- name: UpdateProductSpec
UPDATE product_specifications SET
	product_id = COALESCE($2, product_id),
	specifications = COALESCE($3, specifications),
	updated_at = now()
WHERE id = $1
RETURNING ` + specColumns

func (r *ProductSpecRepo) Update(ctx context.Context, id int64, arg repository.UpdateProductSpecParams) (models.ProductSpecification, error) {
	rows, _ := r.DB.Query(ctx, updateProductSpec, id, arg.ProductID, arg.Specifications)
	spec, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.ProductSpecification])
	return spec, specWriteErr(err)
}

const deleteProductSpec = `-- name: DeleteProductSpec
DELETE FROM product_specifications WHERE id = $1
`

func (r *ProductSpecRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, deleteProductSpec, id)
	return mustAffect(tag, err, apperrors.ErrSpecNotFound)
}

func specWriteErr(err error) error {
	if _, ok := isUniqueViolation(err); ok {
		return apperrors.ErrSpecAlreadyExists
	}
	if _, ok := isForeignKeyViolation(err); ok {
		return apperrors.ErrProductNotFound
	}
	return mapErr(err, apperrors.ErrSpecNotFound)
}
