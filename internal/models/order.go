package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	PaymentStatusPending = "pending"
)

type Order struct {
	ID              int64
	UserID          int64
	Username        string
	OrderNumber     string
	Status          string
	TotalAmount     decimal.Decimal
	ShippingAddress string
	PaymentMethod   string
	PaymentStatus   string
	CreatedAt       time.Time
}

type OrderItem struct {
	ID           int64
	OrderID      int64
	ProductID    int64
	ProductTitle string
	Quantity     int
	UnitPrice    decimal.Decimal
}
