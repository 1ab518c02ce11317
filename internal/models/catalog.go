package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64
	Name        string
	Description string
}

type Product struct {
	ID           int64
	Title        string
	Description  string
	Price        decimal.Decimal
	Stock        int
	Brand        string
	ThumbnailURL string
	IsPublished  bool
	CategoryID   int64
}

type ProductImage struct {
	ID        int64
	ProductID int64
	ImagePath string
}

type ProductSpecification struct {
	ID             int64
	ProductID      int64
	Specifications json.RawMessage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
