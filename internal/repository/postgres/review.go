package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

type ReviewRepo struct {
	DB DBTX
}

const reviewColumns = `rv.id, rv.product_id, p.title, rv.user_id, u.username, rv.title, rv.description, rv.rating, rv.created_at, rv.updated_at`

const reviewJoins = `
JOIN products p ON p.id = rv.product_id
JOIN users u ON u.id = rv.user_id
`

const listReviews = `-- name: ListReviews
SELECT ` + reviewColumns + `
FROM reviews rv` + reviewJoins + `
WHERE ($3::bigint IS NULL OR rv.product_id = $3)
ORDER BY rv.id
LIMIT $1 OFFSET $2
`

func (r *ReviewRepo) List(ctx context.Context, arg repository.ListReviewsParams) ([]models.Review, error) {
	rows, _ := r.DB.Query(ctx, listReviews, arg.Limit, arg.Offset, arg.ProductID)
	reviews, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Review])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reviews, nil
}

const getReview = `-- name: GetReview
SELECT ` + reviewColumns + `
FROM reviews rv` + reviewJoins + `
WHERE rv.id = $1
`

func (r *ReviewRepo) GetByID(ctx context.Context, id int64) (models.Review, error) {
	rows, _ := r.DB.Query(ctx, getReview, id)
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Review])
	return review, mapErr(err, apperrors.ErrReviewNotFound)
}

const createReview = `-- name: CreateReview
WITH rv AS (
	INSERT INTO reviews (product_id, user_id, title, description, rating)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING *
)
SELECT ` + reviewColumns + `
FROM rv` + reviewJoins

func (r *ReviewRepo) Create(ctx context.Context, arg repository.CreateReviewParams) (models.Review, error) {
	rows, _ := r.DB.Query(ctx, createReview, arg.ProductID, arg.UserID, arg.Title, arg.Description, arg.Rating)
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Review])
	if _, ok := isUniqueViolation(err); ok {
		return review, apperrors.ErrReviewExists
	}
	if _, ok := isForeignKeyViolation(err); ok {
		return review, apperrors.ErrProductNotFound
	}
	return review, mapErr(err, apperrors.ErrReviewNotFound)
}

const updateReview = `-- name: UpdateReview
WITH rv AS (
	UPDATE reviews SET
		title = COALESCE($2, title),
		description = COALESCE($3, description),
		rating = COALESCE($4, rating),
		updated_at = now()
	WHERE id = $1
	RETURNING *
)
SELECT ` + reviewColumns + `
FROM rv` + reviewJoins

func (r *ReviewRepo) Update(ctx context.Context, id int64, arg repository.UpdateReviewParams) (models.Review, error) {
	rows, _ := r.DB.Query(ctx, updateReview, id, arg.Title, arg.Description, arg.Rating)
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Review])
	return review, mapErr(err, apperrors.ErrReviewNotFound)
}

const deleteReview = `-- name: DeleteReview
DELETE FROM reviews WHERE id = $1
`

func (r *ReviewRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, deleteReview, id)
	return mustAffect(tag, err, apperrors.ErrReviewNotFound)
}
