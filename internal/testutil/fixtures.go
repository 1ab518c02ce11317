package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

const (
	AdminRoleID    int64 = 1
	CustomerRoleID int64 = 2
)

// Recorder keeps audit events in memory
type Recorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *Recorder) Record(_ context.Context, e models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Types returns types of recorded events in order
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.EventType)
	}
	return types
}

// CreateUser creates active user with the role, password hash is not a valid one
func CreateUser(t *testing.T, storage repository.Storage, username string, roleID int64) models.User {
	t.Helper()

	id, err := storage.User().Create(t.Context(), repository.CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		IsActive:     true,
		RoleID:       roleID,
	})
	require.NoError(t, err, "test user has to be created")

	user, err := storage.User().GetByID(t.Context(), id)
	require.NoError(t, err)
	return user
}

// CreateProduct creates published product in its own category
func CreateProduct(t *testing.T, storage repository.Storage, title string, price string, stock int) models.Product {
	t.Helper()

	category, err := storage.Category().Create(t.Context(), repository.CategoryParams{Name: "category for " + title})
	require.NoError(t, err)

	product, err := storage.Product().Create(t.Context(), repository.ProductParams{
		Title:       title,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		IsPublished: true,
		CategoryID:  category.ID,
	})
	require.NoError(t, err, "test product has to be created")
	return product
}
