package catalog

import (
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/repository/postgres"
	"github.com/nkiryanov/shop/internal/testutil"
)

func ptr[T any](v T) *T {
	return &v
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	admin := models.User{ID: 1, RoleID: models.AdminRoleID, RoleName: models.AdminRoleName}
	customer := models.User{ID: 2, RoleID: 2, RoleName: "customer"}

	inTx := func(t *testing.T, fn func(s *Service, storage repository.Storage, events *testutil.Recorder)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			events := &testutil.Recorder{}
			fn(NewService(storage, events), storage, events)
		})
	}

	newProduct := func(t *testing.T, s *Service) models.Product {
		category, err := s.CreateCategory(t.Context(), admin, repository.CategoryParams{Name: "Phones"})
		require.NoError(t, err)

		product, err := s.CreateProduct(t.Context(), admin, repository.ProductParams{
			Title:       "Phone",
			Price:       decimal.RequireFromString("199.99"),
			Stock:       10,
			IsPublished: true,
			CategoryID:  category.ID,
		})
		require.NoError(t, err)
		return product
	}

	t.Run("Categories", func(t *testing.T) {
		t.Run("crud", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, events *testutil.Recorder) {
				category, err := s.CreateCategory(t.Context(), admin, repository.CategoryParams{Name: "Phones", Description: "Mobile phones"})
				require.NoError(t, err)

				category, err = s.UpdateCategory(t.Context(), admin, category.ID, repository.UpdateCategoryParams{Name: ptr("Smartphones")})
				require.NoError(t, err)
				require.Equal(t, "Smartphones", category.Name)
				require.Equal(t, "Mobile phones", category.Description)

				categories, err := s.ListCategories(t.Context())
				require.NoError(t, err)
				require.Equal(t, []models.Category{category}, categories)

				err = s.DeleteCategory(t.Context(), admin, category.ID)
				require.NoError(t, err)

				_, err = s.GetCategory(t.Context(), category.ID)
				require.ErrorIs(t, err, apperrors.ErrCategoryNotFound)

				require.Equal(t, []string{models.EventCategoryCreated, models.EventCategoryUpdated, models.EventCategoryDeleted}, events.Types())
			})
		})

		t.Run("name taken", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				_, err := s.CreateCategory(t.Context(), admin, repository.CategoryParams{Name: "Phones"})
				require.NoError(t, err)

				_, err = s.CreateCategory(t.Context(), admin, repository.CategoryParams{Name: "Phones"})

				require.ErrorIs(t, err, apperrors.ErrCategoryNameTaken)
			})
		})

		t.Run("category with products", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				product := newProduct(t, s)

				err := s.DeleteCategory(t.Context(), admin, product.CategoryID)

				require.ErrorIs(t, err, apperrors.ErrCategoryInUse)
			})
		})

		t.Run("customer forbidden", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				_, err := s.CreateCategory(t.Context(), customer, repository.CategoryParams{Name: "Phones"})
				require.ErrorIs(t, err, apperrors.ErrAdminRequired)

				err = s.DeleteCategory(t.Context(), customer, 1)
				require.ErrorIs(t, err, apperrors.ErrAdminRequired)
			})
		})
	})

	t.Run("Products", func(t *testing.T) {
		t.Run("create and partial update", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				product := newProduct(t, s)

				updated, err := s.UpdateProduct(t.Context(), admin, product.ID, UpdateProductParams{
					Price: ptr(decimal.RequireFromString("149.50")),
					Stock: ptr(0),
				})

				require.NoError(t, err)
				assert.Equal(t, "Phone", updated.Title)
				assert.True(t, decimal.RequireFromString("149.50").Equal(updated.Price))
				assert.Equal(t, 0, updated.Stock)
				assert.Equal(t, product.CategoryID, updated.CategoryID)
			})
		})

		t.Run("list filtered by category", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				phone := newProduct(t, s)
				other, err := s.CreateCategory(t.Context(), admin, repository.CategoryParams{Name: "Laptops"})
				require.NoError(t, err)
				_, err = s.CreateProduct(t.Context(), admin, repository.ProductParams{Title: "Laptop", Price: decimal.NewFromInt(999), CategoryID: other.ID})
				require.NoError(t, err)

				all, err := s.ListProducts(t.Context(), repository.ListProductsParams{Page: repository.Page{Limit: 20}})
				require.NoError(t, err)
				require.Len(t, all, 2)

				phones, err := s.ListProducts(t.Context(), repository.ListProductsParams{Page: repository.Page{Limit: 20}, CategoryID: &phone.CategoryID})
				require.NoError(t, err)
				require.Len(t, phones, 1)
				require.Equal(t, phone.ID, phones[0].ID)
			})
		})

		t.Run("validation", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				product := newProduct(t, s)

				_, err := s.UpdateProduct(t.Context(), admin, product.ID, UpdateProductParams{Price: ptr(decimal.NewFromInt(-1))})
				require.ErrorIs(t, err, apperrors.ErrPriceNegative)

				_, err = s.UpdateProduct(t.Context(), admin, product.ID, UpdateProductParams{Stock: ptr(-1)})
				require.ErrorIs(t, err, apperrors.ErrStockNegative)

				_, err = s.UpdateProduct(t.Context(), admin, product.ID, UpdateProductParams{CategoryID: ptr(int64(999999))})
				require.ErrorIs(t, err, apperrors.ErrCategoryNotFound)

				_, err = s.UpdateProduct(t.Context(), admin, 999999, UpdateProductParams{Title: ptr("Ghost")})
				require.ErrorIs(t, err, apperrors.ErrProductNotFound)

				_, err = s.CreateProduct(t.Context(), admin, repository.ProductParams{Title: "Ghost", CategoryID: 999999})
				require.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
			})
		})

		t.Run("delete", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				product := newProduct(t, s)

				err := s.DeleteProduct(t.Context(), admin, product.ID)
				require.NoError(t, err)

				_, err = s.GetProduct(t.Context(), product.ID)
				require.ErrorIs(t, err, apperrors.ErrProductNotFound)

				err = s.DeleteProduct(t.Context(), admin, product.ID)
				require.ErrorIs(t, err, apperrors.ErrProductNotFound)
			})
		})
	})

	t.Run("Images", func(t *testing.T) {
		t.Run("crud", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				product := newProduct(t, s)

				image, err := s.CreateImage(t.Context(), admin, product.ID, "/img/front.png")
				require.NoError(t, err)
				require.Equal(t, product.ID, image.ProductID)

				image, err = s.UpdateImage(t.Context(), admin, image.ID, repository.UpdateProductImageParams{ImagePath: ptr("/img/back.png")})
				require.NoError(t, err)
				require.Equal(t, "/img/back.png", image.ImagePath)

				images, err := s.ListImages(t.Context(), product.ID)
				require.NoError(t, err)
				require.Equal(t, []models.ProductImage{image}, images)

				err = s.DeleteImage(t.Context(), admin, image.ID)
				require.NoError(t, err)

				_, err = s.GetImage(t.Context(), image.ID)
				require.ErrorIs(t, err, apperrors.ErrImageNotFound)
			})
		})

		t.Run("bulk delete", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, events *testutil.Recorder) {
				product := newProduct(t, s)
				for _, path := range []string{"/a.png", "/b.png", "/c.png"} {
					_, err := s.CreateImage(t.Context(), admin, product.ID, path)
					require.NoError(t, err)
				}

				ids, err := s.DeleteProductImages(t.Context(), admin, product.ID)

				require.NoError(t, err)
				require.Len(t, ids, 3)
				require.Contains(t, events.Types(), models.EventProductImageBulkDeleted)
			})
		})

		t.Run("errors", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				product := newProduct(t, s)
				image, err := s.CreateImage(t.Context(), admin, product.ID, "/a.png")
				require.NoError(t, err)

				_, err = s.CreateImage(t.Context(), admin, 999999, "/a.png")
				require.ErrorIs(t, err, apperrors.ErrProductNotFound)

				_, err = s.UpdateImage(t.Context(), admin, image.ID, repository.UpdateProductImageParams{})
				require.ErrorIs(t, err, apperrors.ErrNothingToUpdate)

				_, err = s.UpdateImage(t.Context(), admin, image.ID, repository.UpdateProductImageParams{ProductID: ptr(int64(999999))})
				require.ErrorIs(t, err, apperrors.ErrProductNotFound)

				_, err = s.ListImages(t.Context(), 999999)
				require.ErrorIs(t, err, apperrors.ErrProductNotFound)

				_, err = s.CreateImage(t.Context(), customer, product.ID, "/a.png")
				require.ErrorIs(t, err, apperrors.ErrAdminRequired)
			})
		})
	})

	t.Run("Specifications", func(t *testing.T) {
		specs := json.RawMessage(`{"color": "black", "memory": 128}`)

		t.Run("crud", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				product := newProduct(t, s)

				spec, err := s.CreateSpec(t.Context(), admin, product.ID, specs)
				require.NoError(t, err)
				require.JSONEq(t, string(specs), string(spec.Specifications))

				byProduct, err := s.GetProductSpec(t.Context(), product.ID)
				require.NoError(t, err)
				require.Equal(t, spec.ID, byProduct.ID)

				spec, err = s.UpdateSpec(t.Context(), admin, spec.ID, repository.UpdateProductSpecParams{Specifications: json.RawMessage(`{"color": "white"}`)})
				require.NoError(t, err)
				require.JSONEq(t, `{"color": "white"}`, string(spec.Specifications))
				require.Equal(t, product.ID, spec.ProductID)

				list, err := s.ListSpecs(t.Context(), repository.Page{Limit: 10})
				require.NoError(t, err)
				require.Len(t, list, 1)

				err = s.DeleteSpec(t.Context(), admin, spec.ID)
				require.NoError(t, err)

				_, err = s.GetSpec(t.Context(), spec.ID)
				require.ErrorIs(t, err, apperrors.ErrSpecNotFound)
			})
		})

		t.Run("one per product", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				product := newProduct(t, s)
				_, err := s.CreateSpec(t.Context(), admin, product.ID, specs)
				require.NoError(t, err)

				_, err = s.CreateSpec(t.Context(), admin, product.ID, specs)

				require.ErrorIs(t, err, apperrors.ErrSpecAlreadyExists)
				require.ErrorIs(t, err, apperrors.ErrConflict)
			})
		})

		t.Run("must be object", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				product := newProduct(t, s)

				for _, raw := range []string{`[1, 2]`, `"text"`, `{broken`, ``} {
					_, err := s.CreateSpec(t.Context(), admin, product.ID, json.RawMessage(raw))
					require.ErrorIs(t, err, apperrors.ErrSpecNotObject, "specs %q should be rejected", raw)
				}
			})
		})

		t.Run("errors", func(t *testing.T) {
			inTx(t, func(s *Service, _ repository.Storage, _ *testutil.Recorder) {
				product := newProduct(t, s)
				spec, err := s.CreateSpec(t.Context(), admin, product.ID, specs)
				require.NoError(t, err)

				_, err = s.CreateSpec(t.Context(), admin, 999999, specs)
				require.ErrorIs(t, err, apperrors.ErrProductNotFound)

				_, err = s.UpdateSpec(t.Context(), admin, spec.ID, repository.UpdateProductSpecParams{})
				require.ErrorIs(t, err, apperrors.ErrNothingToUpdate)

				_, err = s.UpdateSpec(t.Context(), admin, 999999, repository.UpdateProductSpecParams{Specifications: specs})
				require.ErrorIs(t, err, apperrors.ErrSpecNotFound)

				_, err = s.CreateSpec(t.Context(), customer, product.ID, specs)
				require.ErrorIs(t, err, apperrors.ErrAdminRequired)
			})
		})
	})
}
