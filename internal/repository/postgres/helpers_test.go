package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

const customerRoleID = 2

func createUser(t *testing.T, db DBTX, username string) models.User {
	t.Helper()
	repo := UserRepo{DB: db}

	id, err := repo.Create(t.Context(), repository.CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		FullName:     "Test " + username,
		IsActive:     true,
		RoleID:       customerRoleID,
	})
	require.NoError(t, err, "test user has to be created")

	user, err := repo.GetByID(t.Context(), id)
	require.NoError(t, err)
	return user
}

func createProduct(t *testing.T, db DBTX, title string, price string, stock int) models.Product {
	t.Helper()

	category, err := (&CategoryRepo{DB: db}).Create(t.Context(), repository.CategoryParams{Name: "category for " + title})
	require.NoError(t, err)

	product, err := (&ProductRepo{DB: db}).Create(t.Context(), repository.ProductParams{
		Title:       title,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
		IsPublished: true,
		CategoryID:  category.ID,
	})
	require.NoError(t, err, "test product has to be created")
	return product
}

func ptr[T any](v T) *T {
	return &v
}
