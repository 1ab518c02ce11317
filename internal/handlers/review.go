package handlers

import (
	"net/http"

	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/review"
)

func handleListReviews(s reviewService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pageParams(w, r, defaultPageLimit)
		if !ok {
			return
		}
		productID, ok := queryID(w, r, "product_id")
		if !ok {
			return
		}

		reviews, err := s.List(r.Context(), repository.ListReviewsParams{Page: page, ProductID: productID})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, mapSlice(reviews, newReviewResponse))
	})
}

func handleGetReview(s reviewService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		rv, err := s.Get(r.Context(), id)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newReviewResponse(rv))
	})
}

// Rating range is checked by the service, it answers with 422
func handleCreateReview(s reviewService, l logger.Logger) http.Handler {
	type request struct {
		ProductID   int64  `json:"product_id" validate:"required,gt=0"`
		Title       string `json:"title" validate:"required,max=255"`
		Description string `json:"description"`
		Rating      int    `json:"rating"`
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

		rv, err := s.Create(r.Context(), actor, review.CreateParams{
			ProductID:   data.ProductID,
			Title:       data.Title,
			Description: data.Description,
			Rating:      data.Rating,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.Created(w, newReviewResponse(rv))
	})
}

func handleUpdateReview(s reviewService, l logger.Logger) http.Handler {
	type request struct {
		Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
		Description *string `json:"description"`
		Rating      *int    `json:"rating"`
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

		rv, err := s.Update(r.Context(), actor, id, repository.UpdateReviewParams{
			Title:       data.Title,
			Description: data.Description,
			Rating:      data.Rating,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newReviewResponse(rv))
	})
}

func handleDeleteReview(s reviewService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := s.Delete(r.Context(), actor, id); err != nil {
			render.Error(w, err, l)
			return
		}

		render.NoContent(w)
	})
}
