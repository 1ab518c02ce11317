package models

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID           int64
	ProductID    int64
	ProductTitle string
	UserID       int64
	Username     string
	Title        string
	Description  string
	Rating       int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
