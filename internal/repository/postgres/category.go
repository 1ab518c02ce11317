package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

type CategoryRepo struct {
	DB DBTX
}

const listCategories = `-- name: ListCategories
SELECT id, name, description FROM categories ORDER BY id
`

func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, _ := r.DB.Query(ctx, listCategories)
	categories, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Category])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return categories, nil
}

const getCategory = `-- name: GetCategory
SELECT id, name, description FROM categories WHERE id = $1
`

func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, getCategory, id)
	category, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Category])
	return category, mapErr(err, apperrors.ErrCategoryNotFound)
}

const createCategory = `-- name: CreateCategory
INSERT INTO categories (name, description) VALUES ($1, $2)
RETURNING id, name, description
`

func (r *CategoryRepo) Create(ctx context.Context, arg repository.CategoryParams) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, createCategory, arg.Name, arg.Description)
	category, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Category])
	if _, ok := isUniqueViolation(err); ok {
		return category, apperrors.ErrCategoryNameTaken
	}
	return category, mapErr(err, apperrors.ErrCategoryNotFound)
}

const updateCategory = `-- name: UpdateCategory
UPDATE categories SET
	name = COALESCE($2, name),
	description = COALESCE($3, description)
WHERE id = $1
RETURNING id, name, description
`

func (r *CategoryRepo) Update(ctx context.Context, id int64, arg repository.UpdateCategoryParams) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, updateCategory, id, arg.Name, arg.Description)
	category, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Category])
	if _, ok := isUniqueViolation(err); ok {
		return category, apperrors.ErrCategoryNameTaken
	}
	return category, mapErr(err, apperrors.ErrCategoryNotFound)
}

const deleteCategory = `-- name: DeleteCategory
DELETE FROM categories WHERE id = $1
`

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, deleteCategory, id)
	if _, ok := isForeignKeyViolation(err); ok {
		return apperrors.ErrCategoryInUse
	}
	return mustAffect(tag, err, apperrors.ErrCategoryNotFound)
}
