package apperrors

import (
	"errors"
)

// Error kinds
// Every domain error wraps exactly one of them, transport maps kinds to status codes
var (
	ErrBadRequest    = errors.New("bad request")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUnprocessable = errors.New("unprocessable")
	ErrInternal      = errors.New("internal error")
)

// Domain error with user facing message
type Error struct {
	Kind    error
	Message string
}

func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Message returns user facing message of the domain error or empty string if err is not a domain one
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}

var (
	ErrUsernameTaken   = New(ErrConflict, "Username already registered")
	ErrEmailTaken      = New(ErrConflict, "Email already registered")
	ErrBadCredentials  = New(ErrUnauthorized, "Invalid username or password")
	ErrUserInactive    = New(ErrForbidden, "Inactive user")
	ErrUserNotFound    = New(ErrNotFound, "User not found")
	ErrUserNotFetched  = New(ErrInternal, "User could not be loaded after write")
	ErrAdminRequired   = New(ErrForbidden, "Admin privileges required")
	ErrNotEnoughRights = New(ErrForbidden, "Not enough permissions")

	ErrNotAuthenticated     = New(ErrUnauthorized, "Not authenticated")
	ErrInvalidCredentials   = New(ErrUnauthorized, "Invalid authentication credentials")
	ErrInvalidTokenScope    = New(ErrUnauthorized, "Invalid token scope")
	ErrInvalidToken         = New(ErrUnauthorized, "Invalid token")
	ErrInvalidRefreshToken  = New(ErrUnauthorized, "Invalid refresh token")
	ErrRefreshTokenNotFound = New(ErrUnauthorized, "Refresh token not found or revoked")
	ErrRefreshTokenMismatch = New(ErrUnauthorized, "Refresh token does not belong to user")

	ErrRoleNotFound  = New(ErrNotFound, "Role not found")
	ErrRoleNameTaken = New(ErrConflict, "Role with this name already exists")
	ErrRoleInUse     = New(ErrConflict, "Role is assigned to users")
	ErrRoleReserved  = New(ErrForbidden, "Admin role can not be deleted")

	ErrCategoryNotFound  = New(ErrNotFound, "Category not found")
	ErrCategoryNameTaken = New(ErrConflict, "Category with this name already exists")
	ErrCategoryInUse     = New(ErrConflict, "Category has products")

	ErrProductNotFound   = New(ErrNotFound, "Product not found")
	ErrProductInUse      = New(ErrConflict, "Product is referenced by orders")
	ErrImageNotFound     = New(ErrNotFound, "Product image not found")
	ErrSpecNotFound      = New(ErrNotFound, "Product specification not found")
	ErrSpecAlreadyExists = New(ErrConflict, "Specification for this product already exists")
	ErrNothingToUpdate   = New(ErrBadRequest, "No fields to update")
	ErrValueOutOfRange   = New(ErrBadRequest, "Value is out of allowed range")
	ErrPriceNegative     = New(ErrBadRequest, "Price must not be negative")
	ErrStockNegative     = New(ErrBadRequest, "Stock must not be negative")
	ErrSpecNotObject     = New(ErrBadRequest, "Specifications must be a JSON object")

	ErrCartItemNotFound  = New(ErrNotFound, "Cart item not found")
	ErrQuantityInvalid   = New(ErrBadRequest, "Quantity must be greater than zero")
	ErrInsufficientStock = New(ErrBadRequest, "Not enough product in stock")

	ErrOrderNotFound     = New(ErrNotFound, "Order not found")
	ErrOrderNumberTaken  = New(ErrConflict, "Order with this number already exists")
	ErrOrderItemNotFound = New(ErrNotFound, "Order item not found")
	ErrOrderMismatch     = New(ErrBadRequest, "Order id in path and body does not match")
	ErrOrderItemMove     = New(ErrBadRequest, "Order item can not be moved to another order")

	ErrReviewNotFound   = New(ErrNotFound, "Review not found")
	ErrReviewExists     = New(ErrConflict, "You have already reviewed this product")
	ErrRatingOutOfRange = New(ErrUnprocessable, "Rating must be between 1 and 5")

	ErrEventNotFound = New(ErrNotFound, "Event not found")
)
