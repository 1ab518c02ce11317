package handlers

import (
	"net/http"

	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/repository"
)

func handleListProductImages(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		images, err := s.ListImages(r.Context(), productID)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, mapSlice(images, newImageResponse))
	})
}

func handleGetImage(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		image, err := s.GetImage(r.Context(), id)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newImageResponse(image))
	})
}

func handleCreateProductImage(s catalogService, l logger.Logger) http.Handler {
	type request struct {
		ImagePath string `json:"image_path" validate:"required,max=500"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		image, err := s.CreateImage(r.Context(), actor, productID, data.ImagePath)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.Created(w, newImageResponse(image))
	})
}

func handleUpdateImage(s catalogService, l logger.Logger) http.Handler {
	type request struct {
		ProductID *int64  `json:"product_id" validate:"omitempty,gt=0"`
		ImagePath *string `json:"image_path" validate:"omitempty,min=1,max=500"`
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

		image, err := s.UpdateImage(r.Context(), actor, id, repository.UpdateProductImageParams{
			ProductID: data.ProductID,
			ImagePath: data.ImagePath,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newImageResponse(image))
	})
}

func handleDeleteImage(s catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		if err := s.DeleteImage(r.Context(), actor, id); err != nil {
			render.Error(w, err, l)
			return
		}

		render.NoContent(w)
	})
}

func handleDeleteProductImages(s catalogService, l logger.Logger) http.Handler {
	type response struct {
		ProductID  int64   `json:"product_id"`
		DeletedIDs []int64 `json:"deleted_ids"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		productID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		ids, err := s.DeleteProductImages(r.Context(), actor, productID)
		if err != nil {
			render.Error(w, err, l)
			return
		}
		if ids == nil {
			ids = []int64{}
		}

		render.JSON(w, response{ProductID: productID, DeletedIDs: ids})
	})
}
