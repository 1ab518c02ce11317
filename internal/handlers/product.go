package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/catalog"
)

func handleListProducts(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pageParams(w, r, defaultProductLimit)
		if !ok {
			return
		}
		categoryID, ok := queryID(w, r, "category_id")
		if !ok {
			return
		}

		products, err := s.ListProducts(r.Context(), repository.ListProductsParams{Page: page, CategoryID: categoryID})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, mapSlice(products, newProductResponse))
	})
}

func handleGetProduct(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		product, err := s.GetProduct(r.Context(), id)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newProductResponse(product))
	})
}

func handleCreateProduct(s catalogService, l logger.Logger) http.Handler {
	type request struct {
		Title        string          `json:"title" validate:"required,max=255"`
		Description  string          `json:"description"`
		Price        decimal.Decimal `json:"price" validate:"gte=0,lt=10000000000"`
		Stock        int             `json:"stock" validate:"gte=0,lte=1000000000"`
		Brand        string          `json:"brand" validate:"max=100"`
		ThumbnailURL string          `json:"thumbnail_url" validate:"max=500"`
		IsPublished  bool            `json:"is_published"`
		CategoryID   int64           `json:"category_id" validate:"required,gt=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		product, err := s.CreateProduct(r.Context(), actor, repository.ProductParams{
			Title:        data.Title,
			Description:  data.Description,
			Price:        data.Price,
			Stock:        data.Stock,
			Brand:        data.Brand,
			ThumbnailURL: data.ThumbnailURL,
			IsPublished:  data.IsPublished,
			CategoryID:   data.CategoryID,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.Created(w, newProductResponse(product))
	})
}

func handleUpdateProduct(s catalogService, l logger.Logger) http.Handler {
	type request struct {
		Title        *string          `json:"title" validate:"omitempty,min=1,max=255"`
		Description  *string          `json:"description"`
		Price        *decimal.Decimal `json:"price" validate:"omitempty,gte=0,lt=10000000000"`
		Stock        *int             `json:"stock" validate:"omitempty,gte=0,lte=1000000000"`
		Brand        *string          `json:"brand" validate:"omitempty,max=100"`
		ThumbnailURL *string          `json:"thumbnail_url" validate:"omitempty,max=500"`
		IsPublished  *bool            `json:"is_published"`
		CategoryID   *int64           `json:"category_id" validate:"omitempty,gt=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		product, err := s.UpdateProduct(r.Context(), actor, id, catalog.UpdateProductParams{
			Title:        data.Title,
			Description:  data.Description,
			Price:        data.Price,
			Stock:        data.Stock,
			Brand:        data.Brand,
			ThumbnailURL: data.ThumbnailURL,
			IsPublished:  data.IsPublished,
			CategoryID:   data.CategoryID,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newProductResponse(product))
	})
}

func handleDeleteProduct(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := s.DeleteProduct(r.Context(), actor, id); err != nil {
			render.Error(w, err, l)
			return
		}

		render.NoContent(w)
	})
}
