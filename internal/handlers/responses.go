package handlers

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/shop/internal/models"
)

type userResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	IsActive  bool       `json:"is_active"`
	RoleID    int64      `json:"role_id"`
	RoleName  string     `json:"role_name,omitempty"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		RoleID:    u.RoleID,
		RoleName:  u.RoleName,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type tokenPairResponse struct {
	TokenType             string `json:"token_type"`
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

func newTokenPairResponse(p models.TokenPair) tokenPairResponse {
	return tokenPairResponse{
		TokenType:             p.TokenType,
		AccessToken:           p.Access,
		RefreshToken:          p.Refresh,
		AccessTokenExpiresIn:  int64(p.AccessExpiresIn.Seconds()),
		RefreshTokenExpiresIn: int64(p.RefreshExpiresIn.Seconds()),
	}
}

type sessionResponse struct {
	User   userResponse      `json:"user"`
	Tokens tokenPairResponse `json:"tokens"`
}

func newSessionResponse(s models.Session) sessionResponse {
	return sessionResponse{User: newUserResponse(s.User), Tokens: newTokenPairResponse(s.Tokens)}
}

type roleResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newRoleResponse(r models.Role) roleResponse {
	return roleResponse{ID: r.ID, Name: r.Name, Description: r.Description}
}

type categoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newCategoryResponse(c models.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

type productResponse struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Brand        string          `json:"brand"`
	ThumbnailURL string          `json:"thumbnail_url"`
	IsPublished  bool            `json:"is_published"`
	CategoryID   int64           `json:"category_id"`
}

func newProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		Brand:        p.Brand,
		ThumbnailURL: p.ThumbnailURL,
		IsPublished:  p.IsPublished,
		CategoryID:   p.CategoryID,
	}
}

type imageResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	ImagePath string `json:"image_path"`
}

func newImageResponse(i models.ProductImage) imageResponse {
	return imageResponse{ID: i.ID, ProductID: i.ProductID, ImagePath: i.ImagePath}
}

type specResponse struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"product_id"`
	Specifications json.RawMessage `json:"specifications"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func newSpecResponse(s models.ProductSpecification) specResponse {
	return specResponse{
		ID:             s.ID,
		ProductID:      s.ProductID,
		Specifications: s.Specifications,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

type cartItemResponse struct {
	ID           int64           `json:"id"`
	CartID       int64           `json:"cart_id"`
	ProductID    int64           `json:"product_id"`
	Quantity     int             `json:"quantity"`
	ProductTitle string          `json:"product_title"`
	ProductPrice decimal.Decimal `json:"product_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

type cartResponse struct {
	ID          int64              `json:"id"`
	UserID      int64              `json:"user_id"`
	Username    string             `json:"username"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	CreatedAt   time.Time          `json:"created_at"`
	Items       []cartItemResponse `json:"items"`
}

func newCartResponse(c models.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(c.Items))
	for _, i := range c.Items {
		items = append(items, cartItemResponse{
			ID:           i.ID,
			CartID:       i.CartID,
			ProductID:    i.ProductID,
			Quantity:     i.Quantity,
			ProductTitle: i.ProductTitle,
			ProductPrice: i.ProductPrice,
			LineTotal:    i.LineTotal,
		})
	}

	return cartResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Username:    c.Username,
		TotalAmount: c.TotalAmount,
		CreatedAt:   c.CreatedAt,
		Items:       items,
	}
}

type orderResponse struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Username        string          `json:"username"`
	OrderNumber     string          `json:"order_number"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

func newOrderResponse(o models.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Username:        o.Username,
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		CreatedAt:       o.CreatedAt,
	}
}

type orderItemResponse struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"order_id"`
	ProductID    int64           `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

func newOrderItemResponse(i models.OrderItem) orderItemResponse {
	return orderItemResponse{
		ID:           i.ID,
		OrderID:      i.OrderID,
		ProductID:    i.ProductID,
		ProductTitle: i.ProductTitle,
		Quantity:     i.Quantity,
		UnitPrice:    i.UnitPrice,
	}
}

type reviewResponse struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	ProductTitle string    `json:"product_title"`
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newReviewResponse(r models.Review) reviewResponse {
	return reviewResponse{
		ID:           r.ID,
		ProductID:    r.ProductID,
		ProductTitle: r.ProductTitle,
		UserID:       r.UserID,
		Username:     r.Username,
		Title:        r.Title,
		Description:  r.Description,
		Rating:       r.Rating,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type eventResponse struct {
	ID          int64     `json:"id"`
	EventType   string    `json:"event_type"`
	UserID      *int64    `json:"user_id"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	CreatedAt   time.Time `json:"created_at"`
}

func newEventResponse(e models.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		EventType:   e.EventType,
		UserID:      e.UserID,
		Description: e.Description,
		IPAddress:   e.IPAddress,
		UserAgent:   e.UserAgent,
		CreatedAt:   e.CreatedAt,
	}
}

// mapSlice converts every model to its response representation
// Never returns nil so empty lists are rendered as []
func mapSlice[M any, R any](items []M, fn func(M) R) []R {
	res := make([]R, 0, len(items))
	for _, i := range items {
		res = append(res, fn(i))
	}
	return res
}
