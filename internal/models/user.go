package models

import (
	"time"
)

const (
	AdminRoleID   int64 = 1
	AdminRoleName       = "admin"

	// Customer role, assigned to users when no other role is configured
	DefaultRoleID int64 = 2
)

// User as it may be shown outside of the auth layer
// Password hash intentionally not a part of it
type User struct {
	ID        int64
	Username  string
	Email     string
	FullName  string
	IsActive  bool
	RoleID    int64
	RoleName  string
	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User with password hash. Used by the auth service only
type UserCredentials struct {
	User
	PasswordHash string
}

type Role struct {
	ID          int64
	Name        string
	Description string
}
