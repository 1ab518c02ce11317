package models

import (
	"time"
)

const (
	EventAuthRegister = "AUTH_REGISTER"
	EventAuthLogin    = "AUTH_LOGIN"
	EventAuthRefresh  = "AUTH_REFRESH"
	EventAuthLogout   = "AUTH_LOGOUT"

	EventUserCreated = "USER_CREATED"
	EventUserUpdated = "USER_UPDATED"
	EventUserDeleted = "USER_DELETED"

	EventRoleCreated = "ROLE_CREATED"
	EventRoleUpdated = "ROLE_UPDATED"
	EventRoleDeleted = "ROLE_DELETED"

	EventCategoryCreated = "CATEGORY_CREATED"
	EventCategoryUpdated = "CATEGORY_UPDATED"
	EventCategoryDeleted = "CATEGORY_DELETED"

	EventProductCreated = "PRODUCT_CREATED"
	EventProductUpdated = "PRODUCT_UPDATED"
	EventProductDeleted = "PRODUCT_DELETED"

	EventProductImageCreated     = "PRODUCT_IMAGE_CREATED"
	EventProductImageUpdated     = "PRODUCT_IMAGE_UPDATED"
	EventProductImageDeleted     = "PRODUCT_IMAGE_DELETED"
	EventProductImageBulkDeleted = "PRODUCT_IMAGE_BULK_DELETED"

	EventProductSpecCreated = "PRODUCT_SPECIFICATION_CREATED"
	EventProductSpecUpdated = "PRODUCT_SPECIFICATION_UPDATED"
	EventProductSpecDeleted = "PRODUCT_SPECIFICATION_DELETED"

	EventCartItemAdded   = "CART_ITEM_ADDED"
	EventCartItemUpdated = "CART_ITEM_UPDATED"
	EventCartItemRemoved = "CART_ITEM_REMOVED"
	EventCartCleared     = "CART_CLEARED"

	EventOrderCreated     = "ORDER_CREATED"
	EventOrderUpdated     = "ORDER_UPDATED"
	EventOrderDeleted     = "ORDER_DELETED"
	EventOrderItemCreated = "ORDER_ITEM_CREATED"
	EventOrderItemUpdated = "ORDER_ITEM_UPDATED"
	EventOrderItemDeleted = "ORDER_ITEM_DELETED"

	EventReviewCreated = "REVIEW_CREATED"
	EventReviewUpdated = "REVIEW_UPDATED"
	EventReviewDeleted = "REVIEW_DELETED"
)

// Audit log entry
type Event struct {
	ID          int64
	EventType   string
	UserID      *int64
	Description string
	IPAddress   string
	UserAgent   string
	CreatedAt   time.Time
}
