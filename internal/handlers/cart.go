package handlers

import (
	"net/http"

	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/logger"
)

func handleGetCart(s cartService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}

		cart, err := s.Get(r.Context(), actor)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newCartResponse(cart))
	})
}

func handleAddCartItem(s cartService, l logger.Logger) http.Handler {
	type request struct {
		ProductID int64 `json:"product_id" validate:"required,gt=0"`
		Quantity  *int  `json:"quantity" validate:"omitempty,gt=0,lte=1000000"`
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

		quantity := 1
		if data.Quantity != nil {
			quantity = *data.Quantity
		}

		cart, err := s.AddItem(r.Context(), actor, data.ProductID, quantity)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.Created(w, newCartResponse(cart))
	})
}

func handleUpdateCartItem(s cartService, l logger.Logger) http.Handler {
	type request struct {
		Quantity int `json:"quantity" validate:"required,gt=0,lte=1000000"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		itemID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		cart, err := s.UpdateItem(r.Context(), actor, itemID, data.Quantity)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newCartResponse(cart))
	})
}

func handleRemoveCartItem(s cartService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		itemID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		cart, err := s.RemoveItem(r.Context(), actor, itemID)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newCartResponse(cart))
	})
}

func handleClearCart(s cartService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}

		cart, err := s.Clear(r.Context(), actor)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newCartResponse(cart))
	})
}
