package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID          int64
	UserID      int64
	Username    string
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	Items       []CartItem
}

type CartItem struct {
	ID           int64
	CartID       int64
	ProductID    int64
	Quantity     int
	ProductTitle string
	ProductPrice decimal.Decimal
	LineTotal    decimal.Decimal
}
