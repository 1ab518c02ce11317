package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const createRefreshToken = `-- name: CreateRefreshToken
INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
VALUES ($1, $2, $3)
RETURNING id
`

func (r *RefreshTokenRepo) Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (int64, error) {
	rows, _ := r.DB.Query(ctx, createRefreshToken, userID, tokenHash, expiresAt)
	id, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

const getRefreshTokenByHash = `-- name: GetRefreshTokenByHash
SELECT id, user_id, token_hash, expires_at, created_at
FROM refresh_tokens
WHERE token_hash = $1
`

// Get token by its hash
// It returns token even it is expired, signature check is responsible for expiration
func (r *RefreshTokenRepo) GetByHash(ctx context.Context, tokenHash string) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, getRefreshTokenByHash, tokenHash)
	token, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.RefreshToken])
	return token, mapErr(err, apperrors.ErrRefreshTokenNotFound)
}

const deleteRefreshToken = `-- name: DeleteRefreshToken
DELETE FROM refresh_tokens WHERE id = $1
`

// Delete token by id
// Only one of concurrent callers gets true for the same id
func (r *RefreshTokenRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.DB.Exec(ctx, deleteRefreshToken, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

const deleteRefreshTokenByHash = `-- name: DeleteRefreshTokenByHash
DELETE FROM refresh_tokens WHERE token_hash = $1
RETURNING id
`

func (r *RefreshTokenRepo) DeleteByHash(ctx context.Context, tokenHash string) ([]int64, error) {
	return r.deleteReturning(ctx, deleteRefreshTokenByHash, tokenHash)
}

const deleteRefreshTokensByUser = `-- name: DeleteRefreshTokensByUser
DELETE FROM refresh_tokens WHERE user_id = $1
RETURNING id
`

func (r *RefreshTokenRepo) DeleteByUser(ctx context.Context, userID int64) ([]int64, error) {
	return r.deleteReturning(ctx, deleteRefreshTokensByUser, userID)
}

const deleteExpiredRefreshTokens = `-- name: DeleteExpiredRefreshTokens
DELETE FROM refresh_tokens WHERE expires_at < $1
`

func (r *RefreshTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteExpiredRefreshTokens, before)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RefreshTokenRepo) deleteReturning(ctx context.Context, query string, arg any) ([]int64, error) {
	rows, _ := r.DB.Query(ctx, query, arg)
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}
