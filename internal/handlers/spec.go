package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/repository"
)

func handleListSpecs(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pageParams(w, r, defaultPageLimit)
		if !ok {
			return
		}

		specs, err := s.ListSpecs(r.Context(), page)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, mapSlice(specs, newSpecResponse))
	})
}

func handleGetSpec(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		spec, err := s.GetSpec(r.Context(), id)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newSpecResponse(spec))
	})
}

func handleGetProductSpec(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		spec, err := s.GetProductSpec(r.Context(), productID)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newSpecResponse(spec))
	})
}

func handleCreateSpec(s catalogService, l logger.Logger) http.Handler {
	type request struct {
		ProductID      int64           `json:"product_id" validate:"required,gt=0"`
		Specifications json.RawMessage `json:"specifications" validate:"required"`
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

		spec, err := s.CreateSpec(r.Context(), actor, data.ProductID, data.Specifications)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.Created(w, newSpecResponse(spec))
	})
}

func handleUpdateSpec(s catalogService, l logger.Logger) http.Handler {
	type request struct {
		ProductID      *int64          `json:"product_id" validate:"omitempty,gt=0"`
		Specifications json.RawMessage `json:"specifications"`
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

		spec, err := s.UpdateSpec(r.Context(), actor, id, repository.UpdateProductSpecParams{
			ProductID:      data.ProductID,
			Specifications: data.Specifications,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newSpecResponse(spec))
	})
}

func handleDeleteSpec(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := s.DeleteSpec(r.Context(), actor, id); err != nil {
			render.Error(w, err, l)
			return
		}

		render.NoContent(w)
	})
}
