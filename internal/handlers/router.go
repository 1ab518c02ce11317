package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nkiryanov/shop/internal/handlers/middleware"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/auth"
	"github.com/nkiryanov/shop/internal/service/catalog"
	"github.com/nkiryanov/shop/internal/service/order"
	"github.com/nkiryanov/shop/internal/service/review"
	"github.com/nkiryanov/shop/internal/service/user"
)

// Services the router dispatches requests to
type Services struct {
	Resolver authenticator
	Auth     authService
	User     userService
	Role     roleService
	Catalog  catalogService
	Cart     cartService
	Order    orderService
	Review   reviewService
	Event    eventService
	DB       pinger
}

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(s Services, logger logger.Logger) http.Handler {
	authMiddleware := middleware.AuthMiddleware(s.Resolver, logger)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	mux := http.NewServeMux()

	mux.Handle("GET /health", handleHealth(s.DB, logger))

	mux.Handle("POST /auth/register", handleRegister(s.Auth, logger))
	mux.Handle("POST /auth/login", handleLogin(s.Auth, logger))
	mux.Handle("POST /auth/token", handleToken(s.Auth, logger))
	mux.Handle("POST /auth/refresh", handleRefresh(s.Auth, logger))
	mux.Handle("POST /auth/logout", withAuth(handleLogout(s.Auth, logger)))
	mux.Handle("GET /auth/me", withAuth(handleMe()))
	mux.Handle("PUT /auth/me", withAuth(handleUpdateMe(s.User, logger)))

	mux.Handle("GET /users", withAuth(handleListUsers(s.User, logger)))
	mux.Handle("POST /users", withAuth(handleCreateUser(s.User, logger)))
	mux.Handle("GET /users/{id}", withAuth(handleGetUser(s.User, logger)))
	mux.Handle("PUT /users/{id}", withAuth(handleUpdateUser(s.User, logger)))
	mux.Handle("DELETE /users/{id}", withAuth(handleDeleteUser(s.User, logger)))

	mux.Handle("GET /roles", withAuth(handleListRoles(s.Role, logger)))
	mux.Handle("POST /roles", withAuth(handleCreateRole(s.Role, logger)))
	mux.Handle("GET /roles/{id}", withAuth(handleGetRole(s.Role, logger)))
	mux.Handle("PUT /roles/{id}", withAuth(handleUpdateRole(s.Role, logger)))
	mux.Handle("DELETE /roles/{id}", withAuth(handleDeleteRole(s.Role, logger)))

	mux.Handle("GET /categories", handleListCategories(s.Catalog, logger))
	mux.Handle("POST /categories", withAuth(handleCreateCategory(s.Catalog, logger)))
	mux.Handle("GET /categories/{id}", handleGetCategory(s.Catalog, logger))
	mux.Handle("PUT /categories/{id}", withAuth(handleUpdateCategory(s.Catalog, logger)))
	mux.Handle("DELETE /categories/{id}", withAuth(handleDeleteCategory(s.Catalog, logger)))

	mux.Handle("GET /products", handleListProducts(s.Catalog, logger))
	mux.Handle("POST /products", withAuth(handleCreateProduct(s.Catalog, logger)))
	mux.Handle("GET /products/{id}", handleGetProduct(s.Catalog, logger))
	mux.Handle("PUT /products/{id}", withAuth(handleUpdateProduct(s.Catalog, logger)))
	mux.Handle("DELETE /products/{id}", withAuth(handleDeleteProduct(s.Catalog, logger)))

	mux.Handle("GET /products/{id}/images", handleListProductImages(s.Catalog, logger))
	mux.Handle("POST /products/{id}/images", withAuth(handleCreateProductImage(s.Catalog, logger)))
	mux.Handle("DELETE /products/{id}/images", withAuth(handleDeleteProductImages(s.Catalog, logger)))
	mux.Handle("GET /images/{id}", handleGetImage(s.Catalog, logger))
	mux.Handle("PUT /images/{id}", withAuth(handleUpdateImage(s.Catalog, logger)))
	mux.Handle("DELETE /images/{id}", withAuth(handleDeleteImage(s.Catalog, logger)))

	mux.Handle("GET /products/{id}/specification", handleGetProductSpec(s.Catalog, logger))
	mux.Handle("GET /specifications", handleListSpecs(s.Catalog, logger))
	mux.Handle("POST /specifications", withAuth(handleCreateSpec(s.Catalog, logger)))
	mux.Handle("GET /specifications/{id}", handleGetSpec(s.Catalog, logger))
	mux.Handle("PUT /specifications/{id}", withAuth(handleUpdateSpec(s.Catalog, logger)))
	mux.Handle("DELETE /specifications/{id}", withAuth(handleDeleteSpec(s.Catalog, logger)))

	mux.Handle("GET /cart", withAuth(handleGetCart(s.Cart, logger)))
	mux.Handle("DELETE /cart", withAuth(handleClearCart(s.Cart, logger)))
	mux.Handle("POST /cart/items", withAuth(handleAddCartItem(s.Cart, logger)))
	mux.Handle("PATCH /cart/items/{id}", withAuth(handleUpdateCartItem(s.Cart, logger)))
	mux.Handle("DELETE /cart/items/{id}", withAuth(handleRemoveCartItem(s.Cart, logger)))

	mux.Handle("GET /orders", withAuth(handleListOrders(s.Order, logger)))
	mux.Handle("POST /orders", withAuth(handleCreateOrder(s.Order, logger)))
	mux.Handle("GET /orders/{id}", withAuth(handleGetOrder(s.Order, logger)))
	mux.Handle("PUT /orders/{id}", withAuth(handleUpdateOrder(s.Order, logger)))
	mux.Handle("DELETE /orders/{id}", withAuth(handleDeleteOrder(s.Order, logger)))
	mux.Handle("GET /orders/{id}/items", withAuth(handleListOrderItems(s.Order, logger)))
	mux.Handle("POST /orders/{id}/items", withAuth(handleCreateOrderItem(s.Order, logger)))
	mux.Handle("GET /orders/{id}/items/{item_id}", withAuth(handleGetOrderItem(s.Order, logger)))
	mux.Handle("PUT /orders/{id}/items/{item_id}", withAuth(handleUpdateOrderItem(s.Order, logger)))
	mux.Handle("DELETE /orders/{id}/items/{item_id}", withAuth(handleDeleteOrderItem(s.Order, logger)))

	mux.Handle("GET /reviews", handleListReviews(s.Review, logger))
	mux.Handle("POST /reviews", withAuth(handleCreateReview(s.Review, logger)))
	mux.Handle("GET /reviews/{id}", handleGetReview(s.Review, logger))
	mux.Handle("PUT /reviews/{id}", withAuth(handleUpdateReview(s.Review, logger)))
	mux.Handle("DELETE /reviews/{id}", withAuth(handleDeleteReview(s.Review, logger)))

	mux.Handle("GET /events", withAuth(handleListEvents(s.Event, logger)))
	mux.Handle("GET /events/{id}", withAuth(handleGetEvent(s.Event, logger)))

	handler := chain(mux,
		middleware.RequestIDMiddleware,
		middleware.LoggerMiddleware(logger),
		middleware.RecoveryMiddleware(logger),
		middleware.SourceMiddleware,
	)

	return handler
}

type authenticator interface {
	// Resolve bearer access token into active user
	Authenticate(ctx context.Context, token string) (models.User, error)
}

type authService interface {
	Register(ctx context.Context, arg auth.RegisterParams) (models.Session, error)

	// Must not tell unknown user from wrong password
	Login(ctx context.Context, username string, password string) (models.Session, error)

	// Rotate refresh token: the token is consumed and new pair is issued
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	// Revoke refresh token. Unknown or already revoked token is not an error
	Logout(ctx context.Context, actor models.User, refresh string) error
}

type userService interface {
	List(ctx context.Context, actor models.User, page repository.Page) ([]models.User, error)
	Get(ctx context.Context, actor models.User, id int64) (models.User, error)
	Create(ctx context.Context, actor models.User, arg user.CreateParams) (models.User, error)
	Update(ctx context.Context, actor models.User, id int64, arg user.UpdateParams) (models.User, error)
	UpdateMe(ctx context.Context, actor models.User, arg user.UpdateMeParams) (models.User, error)
	Delete(ctx context.Context, actor models.User, id int64) error
}

type roleService interface {
	List(ctx context.Context, actor models.User) ([]models.Role, error)
	Get(ctx context.Context, actor models.User, id int64) (models.Role, error)
	Create(ctx context.Context, actor models.User, arg repository.RoleParams) (models.Role, error)
	Update(ctx context.Context, actor models.User, id int64, arg repository.UpdateRoleParams) (models.Role, error)
	Delete(ctx context.Context, actor models.User, id int64) error
}

type catalogService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (models.Category, error)
	CreateCategory(ctx context.Context, actor models.User, arg repository.CategoryParams) (models.Category, error)
	UpdateCategory(ctx context.Context, actor models.User, id int64, arg repository.UpdateCategoryParams) (models.Category, error)
	DeleteCategory(ctx context.Context, actor models.User, id int64) error

	ListProducts(ctx context.Context, arg repository.ListProductsParams) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	CreateProduct(ctx context.Context, actor models.User, arg repository.ProductParams) (models.Product, error)
	UpdateProduct(ctx context.Context, actor models.User, id int64, arg catalog.UpdateProductParams) (models.Product, error)
	DeleteProduct(ctx context.Context, actor models.User, id int64) error

	ListImages(ctx context.Context, productID int64) ([]models.ProductImage, error)
	GetImage(ctx context.Context, id int64) (models.ProductImage, error)
	CreateImage(ctx context.Context, actor models.User, productID int64, imagePath string) (models.ProductImage, error)
	UpdateImage(ctx context.Context, actor models.User, id int64, arg repository.UpdateProductImageParams) (models.ProductImage, error)
	DeleteImage(ctx context.Context, actor models.User, id int64) error
	DeleteProductImages(ctx context.Context, actor models.User, productID int64) ([]int64, error)

	ListSpecs(ctx context.Context, page repository.Page) ([]models.ProductSpecification, error)
	GetSpec(ctx context.Context, id int64) (models.ProductSpecification, error)
	GetProductSpec(ctx context.Context, productID int64) (models.ProductSpecification, error)
	CreateSpec(ctx context.Context, actor models.User, productID int64, specs json.RawMessage) (models.ProductSpecification, error)
	UpdateSpec(ctx context.Context, actor models.User, id int64, arg repository.UpdateProductSpecParams) (models.ProductSpecification, error)
	DeleteSpec(ctx context.Context, actor models.User, id int64) error
}

type cartService interface {
	Get(ctx context.Context, actor models.User) (models.Cart, error)
	AddItem(ctx context.Context, actor models.User, productID int64, quantity int) (models.Cart, error)
	UpdateItem(ctx context.Context, actor models.User, itemID int64, quantity int) (models.Cart, error)
	RemoveItem(ctx context.Context, actor models.User, itemID int64) (models.Cart, error)
	Clear(ctx context.Context, actor models.User) (models.Cart, error)
}

type orderService interface {
	List(ctx context.Context, actor models.User, page repository.Page) ([]models.Order, error)
	Get(ctx context.Context, actor models.User, id int64) (models.Order, error)
	Create(ctx context.Context, actor models.User, arg repository.CreateOrderParams) (models.Order, error)
	Update(ctx context.Context, actor models.User, id int64, arg repository.UpdateOrderParams) (models.Order, error)
	Delete(ctx context.Context, actor models.User, id int64) error

	ListItems(ctx context.Context, actor models.User, orderID int64) ([]models.OrderItem, error)
	GetItem(ctx context.Context, actor models.User, orderID int64, itemID int64) (models.OrderItem, error)
	CreateItem(ctx context.Context, actor models.User, orderID int64, arg repository.OrderItemParams) (models.OrderItem, error)
	UpdateItem(ctx context.Context, actor models.User, orderID int64, itemID int64, arg order.UpdateItemParams) (models.OrderItem, error)
	DeleteItem(ctx context.Context, actor models.User, orderID int64, itemID int64) error
}

type reviewService interface {
	List(ctx context.Context, arg repository.ListReviewsParams) ([]models.Review, error)
	Get(ctx context.Context, id int64) (models.Review, error)
	Create(ctx context.Context, actor models.User, arg review.CreateParams) (models.Review, error)
	Update(ctx context.Context, actor models.User, id int64, arg repository.UpdateReviewParams) (models.Review, error)
	Delete(ctx context.Context, actor models.User, id int64) error
}

type eventService interface {
	List(ctx context.Context, actor models.User, page repository.Page) ([]models.Event, error)
	Get(ctx context.Context, actor models.User, id int64) (models.Event, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}
