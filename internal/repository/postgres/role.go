package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

type RoleRepo struct {
	DB DBTX
}

const listRoles = `-- name: ListRoles
SELECT id, name, description FROM roles ORDER BY id
`

func (r *RoleRepo) List(ctx context.Context) ([]models.Role, error) {
	rows, _ := r.DB.Query(ctx, listRoles)
	roles, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Role])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return roles, nil
}

const getRole = `-- name: GetRole
SELECT id, name, description FROM roles WHERE id = $1
`

func (r *RoleRepo) GetByID(ctx context.Context, id int64) (models.Role, error) {
	rows, _ := r.DB.Query(ctx, getRole, id)
	role, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Role])
	return role, mapErr(err, apperrors.ErrRoleNotFound)
}

const createRole = `-- name: CreateRole
INSERT INTO roles (name, description) VALUES ($1, $2)
RETURNING id, name, description
`

func (r *RoleRepo) Create(ctx context.Context, arg repository.RoleParams) (models.Role, error) {
	rows, _ := r.DB.Query(ctx, createRole, arg.Name, arg.Description)
	role, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Role])
	if _, ok := isUniqueViolation(err); ok {
		return role, apperrors.ErrRoleNameTaken
	}
	return role, mapErr(err, apperrors.ErrRoleNotFound)
}

const updateRole = `-- name: UpdateRole
UPDATE roles SET
	name = COALESCE($2, name),
	description = COALESCE($3, description)
WHERE id = $1
RETURNING id, name, description
`

func (r *RoleRepo) Update(ctx context.Context, id int64, arg repository.UpdateRoleParams) (models.Role, error) {
	rows, _ := r.DB.Query(ctx, updateRole, id, arg.Name, arg.Description)
	role, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Role])
	if _, ok := isUniqueViolation(err); ok {
		return role, apperrors.ErrRoleNameTaken
	}
	return role, mapErr(err, apperrors.ErrRoleNotFound)
}

const deleteRole = `-- name: DeleteRole
DELETE FROM roles WHERE id = $1
`

func (r *RoleRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, deleteRole, id)
	if _, ok := isForeignKeyViolation(err); ok {
		return apperrors.ErrRoleInUse
	}
	return mustAffect(tag, err, apperrors.ErrRoleNotFound)
}
