package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/shop/internal/models"
)

// Limit and offset for list queries
type Page struct {
	Limit  int
	Offset int
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	IsActive     bool
	RoleID       int64
	LastLogin    *time.Time
}

// Partial user update, nil fields are left untouched
type UpdateUserParams struct {
	Username     *string
	Email        *string
	PasswordHash *string
	FullName     *string
	IsActive     *bool
	RoleID       *int64
}

// User repository interface
type UserRepo interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Get user by id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)

	// The only way to read password hash. Used for authentication
	GetCredentials(ctx context.Context, username string) (models.UserCredentials, error)

	// Create user and return its id
	// Has to return apperrors.ErrUsernameTaken or apperrors.ErrEmailTaken on unique violation
	Create(ctx context.Context, arg CreateUserParams) (int64, error)

	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	// Update user fields. Returns false if user not exists
	Update(ctx context.Context, id int64, arg UpdateUserParams) (bool, error)

	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, page Page) ([]models.User, error)
}

// Refresh token ledger
// Works with token hashes only, never with raw tokens
type RefreshTokenRepo interface {
	Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (int64, error)

	// If token not found must return apperrors.ErrRefreshTokenNotFound
	GetByHash(ctx context.Context, tokenHash string) (models.RefreshToken, error)

	// Delete token by id. Returns false if nothing was deleted
	Delete(ctx context.Context, id int64) (bool, error)

	// Delete tokens and return ids of deleted rows
	DeleteByHash(ctx context.Context, tokenHash string) ([]int64, error)
	DeleteByUser(ctx context.Context, userID int64) ([]int64, error)

	// Delete tokens expired before the moment, returns count of deleted rows
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type RoleParams struct {
	Name        string
	Description string
}

type UpdateRoleParams struct {
	Name        *string
	Description *string
}

type RoleRepo interface {
	List(ctx context.Context) ([]models.Role, error)
	GetByID(ctx context.Context, id int64) (models.Role, error)
	Create(ctx context.Context, arg RoleParams) (models.Role, error)
	Update(ctx context.Context, id int64, arg UpdateRoleParams) (models.Role, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryParams struct {
	Name        string
	Description string
}

type UpdateCategoryParams struct {
	Name        *string
	Description *string
}

type CategoryRepo interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id int64) (models.Category, error)
	Create(ctx context.Context, arg CategoryParams) (models.Category, error)
	Update(ctx context.Context, id int64, arg UpdateCategoryParams) (models.Category, error)
	Delete(ctx context.Context, id int64) error
}

type ProductParams struct {
	Title        string
	Description  string
	Price        decimal.Decimal
	Stock        int
	Brand        string
	ThumbnailURL string
	IsPublished  bool
	CategoryID   int64
}

type ListProductsParams struct {
	Page
	CategoryID *int64
}

type ProductRepo interface {
	List(ctx context.Context, arg ListProductsParams) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (models.Product, error)
	Create(ctx context.Context, arg ProductParams) (models.Product, error)
	Update(ctx context.Context, id int64, arg ProductParams) (models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type UpdateProductImageParams struct {
	ProductID *int64
	ImagePath *string
}

type ProductImageRepo interface {
	ListByProduct(ctx context.Context, productID int64) ([]models.ProductImage, error)
	GetByID(ctx context.Context, id int64) (models.ProductImage, error)
	Create(ctx context.Context, productID int64, imagePath string) (models.ProductImage, error)
	Update(ctx context.Context, id int64, arg UpdateProductImageParams) (models.ProductImage, error)
	Delete(ctx context.Context, id int64) error

	// Delete all product images, returns ids of deleted ones
	DeleteByProduct(ctx context.Context, productID int64) ([]int64, error)
}

type UpdateProductSpecParams struct {
	ProductID      *int64
	Specifications json.RawMessage
}

type ProductSpecRepo interface {
	List(ctx context.Context, page Page) ([]models.ProductSpecification, error)
	GetByID(ctx context.Context, id int64) (models.ProductSpecification, error)
	GetByProduct(ctx context.Context, productID int64) (models.ProductSpecification, error)

	// Has to return apperrors.ErrSpecAlreadyExists if product has specification already
	Create(ctx context.Context, productID int64, specs json.RawMessage) (models.ProductSpecification, error)
	Update(ctx context.Context, id int64, arg UpdateProductSpecParams) (models.ProductSpecification, error)
	Delete(ctx context.Context, id int64) error
}

type CartRepo interface {
	// Return user cart, create it if not exists yet
	GetOrCreate(ctx context.Context, userID int64) (models.Cart, error)

	ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error)
	GetItem(ctx context.Context, cartID int64, itemID int64) (models.CartItem, error)

	// Return cart line for the product. If not exists must return apperrors.ErrCartItemNotFound
	GetItemByProduct(ctx context.Context, cartID int64, productID int64) (models.CartItem, error)

	CreateItem(ctx context.Context, cartID int64, productID int64, quantity int) (int64, error)
	SetItemQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteItem(ctx context.Context, cartID int64, itemID int64) error
	Clear(ctx context.Context, cartID int64) error

	// Recalculate total as sum of price * quantity of every cart line
	RecalculateTotal(ctx context.Context, cartID int64) (decimal.Decimal, error)
}

type CreateOrderParams struct {
	UserID          int64
	OrderNumber     string
	Status          string
	TotalAmount     decimal.Decimal
	ShippingAddress string
	PaymentMethod   string
	PaymentStatus   string
}

type UpdateOrderParams struct {
	Status          *string
	TotalAmount     *decimal.Decimal
	ShippingAddress *string
	PaymentMethod   *string
	PaymentStatus   *string
}

type OrderItemParams struct {
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

type UpdateOrderItemParams struct {
	ProductID *int64
	Quantity  *int
	UnitPrice *decimal.Decimal
}

type OrderRepo interface {
	List(ctx context.Context, page Page) ([]models.Order, error)
	GetByID(ctx context.Context, id int64) (models.Order, error)

	// Has to return apperrors.ErrOrderNumberTaken if number is used already
	Create(ctx context.Context, arg CreateOrderParams) (models.Order, error)
	Update(ctx context.Context, id int64, arg UpdateOrderParams) (models.Order, error)
	Delete(ctx context.Context, id int64) error

	ListItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	GetItem(ctx context.Context, id int64) (models.OrderItem, error)
	CreateItem(ctx context.Context, arg OrderItemParams) (models.OrderItem, error)
	UpdateItem(ctx context.Context, id int64, arg UpdateOrderItemParams) (models.OrderItem, error)
	DeleteItem(ctx context.Context, id int64) error
	DeleteItemsByOrder(ctx context.Context, orderID int64) (int64, error)
}

type CreateReviewParams struct {
	ProductID   int64
	UserID      int64
	Title       string
	Description string
	Rating      int
}

type UpdateReviewParams struct {
	Title       *string
	Description *string
	Rating      *int
}

type ListReviewsParams struct {
	Page
	ProductID *int64
}

type ReviewRepo interface {
	List(ctx context.Context, arg ListReviewsParams) ([]models.Review, error)
	GetByID(ctx context.Context, id int64) (models.Review, error)

	// Has to return apperrors.ErrReviewExists if user reviewed the product already
	Create(ctx context.Context, arg CreateReviewParams) (models.Review, error)
	Update(ctx context.Context, id int64, arg UpdateReviewParams) (models.Review, error)
	Delete(ctx context.Context, id int64) error
}

type EventRepo interface {
	Create(ctx context.Context, event models.Event) (int64, error)
	List(ctx context.Context, page Page) ([]models.Event, error)
	GetByID(ctx context.Context, id int64) (models.Event, error)
}

type Storage interface {
	User() UserRepo
	Role() RoleRepo
	Refresh() RefreshTokenRepo
	Category() CategoryRepo
	Product() ProductRepo
	ProductImage() ProductImageRepo
	ProductSpec() ProductSpecRepo
	Cart() CartRepo
	Order() OrderRepo
	Review() ReviewRepo
	Event() EventRepo

	// Run fn in transaction
	// Commit if fn returns nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
