package auth

import (
	"strings"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
)

// IsAdmin checks both role name and reserved role id
// Either of them is enough, so renaming admin role does not lock admins out
func IsAdmin(u models.User) bool {
	return strings.EqualFold(u.RoleName, models.AdminRoleName) || u.RoleID == models.AdminRoleID
}

func RequireAdmin(u models.User) error {
	if !IsAdmin(u) {
		return apperrors.ErrAdminRequired
	}
	return nil
}

// RequireAuthorOrAdmin allows access to the resource owner or to admin
func RequireAuthorOrAdmin(ownerID int64, u models.User) error {
	if u.ID == ownerID || IsAdmin(u) {
		return nil
	}
	return apperrors.ErrNotEnoughRights
}
