package handlers

import (
	"net/http"

	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/repository"
)

func handleListCategories(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categories, err := s.ListCategories(r.Context())
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, mapSlice(categories, newCategoryResponse))
	})
}

func handleGetCategory(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		category, err := s.GetCategory(r.Context(), id)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newCategoryResponse(category))
	})
}

func handleCreateCategory(s catalogService, l logger.Logger) http.Handler {
	type request struct {
		Name        string `json:"name" validate:"required,max=100"`
		Description string `json:"description"`
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

		category, err := s.CreateCategory(r.Context(), actor, repository.CategoryParams{Name: data.Name, Description: data.Description})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.Created(w, newCategoryResponse(category))
	})
}

func handleUpdateCategory(s catalogService, l logger.Logger) http.Handler {
	type request struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
		Description *string `json:"description"`
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

		category, err := s.UpdateCategory(r.Context(), actor, id, repository.UpdateCategoryParams{Name: data.Name, Description: data.Description})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newCategoryResponse(category))
	})
}

func handleDeleteCategory(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := s.DeleteCategory(r.Context(), actor, id); err != nil {
			render.Error(w, err, l)
			return
		}

		render.NoContent(w)
	})
}
