package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const userColumns = `u.id, u.username, u.email, u.full_name, u.is_active, u.role_id, r.name, u.last_login, u.created_at, u.updated_at`

const userExistsByUsername = `-- name: UserExistsByUsername
SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
`

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, userExistsByUsername, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

const userExistsByEmail = `-- name: UserExistsByEmail
SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
`

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, userExistsByEmail, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

const getUserByID = `-- name: GetUserByID
SELECT ` + userColumns + `
FROM users u JOIN roles r ON r.id = u.role_id
WHERE u.id = $1
`

func (r *UserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	user, err := pgx.CollectOneRow(rows, rowToUser)
	return user, mapErr(err, apperrors.ErrUserNotFound)
}

const getUserByUsername = `-- name: GetUserByUsername
SELECT ` + userColumns + `
FROM users u JOIN roles r ON r.id = u.role_id
WHERE u.username = $1
`

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByUsername, username)
	user, err := pgx.CollectOneRow(rows, rowToUser)
	return user, mapErr(err, apperrors.ErrUserNotFound)
}

const getUserCredentials = `-- name: GetUserCredentials
SELECT ` + userColumns + `, u.password_hash
FROM users u JOIN roles r ON r.id = u.role_id
WHERE u.username = $1
`

func (r *UserRepo) GetCredentials(ctx context.Context, username string) (models.UserCredentials, error) {
	rows, _ := r.DB.Query(ctx, getUserCredentials, username)
	creds, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.UserCredentials, error) {
		var c models.UserCredentials
		err := row.Scan(
			&c.ID, &c.Username, &c.Email, &c.FullName, &c.IsActive, &c.RoleID, &c.RoleName,
			&c.LastLogin, &c.CreatedAt, &c.UpdatedAt, &c.PasswordHash,
		)
		return c, err
	})
	return creds, mapErr(err, apperrors.ErrUserNotFound)
}

const createUser = `-- name: CreateUser
INSERT INTO users (username, email, password_hash, full_name, is_active, role_id, last_login)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`

func (r *UserRepo) Create(ctx context.Context, arg repository.CreateUserParams) (int64, error) {
	rows, _ := r.DB.Query(ctx, createUser,
		arg.Username, arg.Email, arg.PasswordHash, arg.FullName, arg.IsActive, arg.RoleID, arg.LastLogin,
	)
	id, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, userWriteErr(err)
	}
	return id, nil
}

const updateUserLastLogin = `-- name: UpdateUserLastLogin
UPDATE users SET last_login = $2 WHERE id = $1
`

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.DB.Exec(ctx, updateUserLastLogin, id, at)
	return mustAffect(tag, err, apperrors.ErrUserNotFound)
}

const updateUser = `-- name: UpdateUser
UPDATE users SET
	username = COALESCE($2, username),
	email = COALESCE($3, email),
	password_hash = COALESCE($4, password_hash),
	full_name = COALESCE($5, full_name),
	is_active = COALESCE($6, is_active),
	role_id = COALESCE($7, role_id),
	updated_at = now()
WHERE id = $1
`

func (r *UserRepo) Update(ctx context.Context, id int64, arg repository.UpdateUserParams) (bool, error) {
	tag, err := r.DB.Exec(ctx, updateUser,
		id, arg.Username, arg.Email, arg.PasswordHash, arg.FullName, arg.IsActive, arg.RoleID,
	)
	if err != nil {
		return false, userWriteErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

const deleteUser = `-- name: DeleteUser
DELETE FROM users WHERE id = $1
`

func (r *UserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.DB.Exec(ctx, deleteUser, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

const listUsers = `-- name: ListUsers
SELECT ` + userColumns + `
FROM users u JOIN roles r ON r.id = u.role_id
ORDER BY u.id
LIMIT $1 OFFSET $2
`

func (r *UserRepo) List(ctx context.Context, page repository.Page) ([]models.User, error) {
	rows, _ := r.DB.Query(ctx, listUsers, page.Limit, page.Offset)
	users, err := pgx.CollectRows(rows, rowToUser)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

func userWriteErr(err error) error {
	if constraint, ok := isUniqueViolation(err); ok {
		switch constraint {
		case "users_email_key":
			return apperrors.ErrEmailTaken
		default:
			return apperrors.ErrUsernameTaken
		}
	}
	if _, ok := isForeignKeyViolation(err); ok {
		return apperrors.ErrRoleNotFound
	}
	return dbErr(err)
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.IsActive, &u.RoleID, &u.RoleName, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
