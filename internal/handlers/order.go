package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/shop/internal/handlers/render"
	"github.com/nkiryanov/shop/internal/logger"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/order"
)

func handleListOrders(s orderService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		page, ok := pageParams(w, r, defaultPageLimit)
		if !ok {
			return
		}

		orders, err := s.List(r.Context(), actor, page)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, mapSlice(orders, newOrderResponse))
	})
}

func handleGetOrder(s orderService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		o, err := s.Get(r.Context(), actor, id)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newOrderResponse(o))
	})
}

func handleCreateOrder(s orderService, l logger.Logger) http.Handler {
	type request struct {
		UserID          int64           `json:"user_id" validate:"required,gt=0"`
		OrderNumber     string          `json:"order_number" validate:"required,max=50"`
		Status          string          `json:"status" validate:"max=32"`
		TotalAmount     decimal.Decimal `json:"total_amount" validate:"gte=0,lt=10000000000"`
		ShippingAddress string          `json:"shipping_address" validate:"required"`
		PaymentMethod   string          `json:"payment_method" validate:"required,max=32"`
		PaymentStatus   string          `json:"payment_status" validate:"max=32"`
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

		o, err := s.Create(r.Context(), actor, repository.CreateOrderParams{
			UserID:          data.UserID,
			OrderNumber:     data.OrderNumber,
			Status:          data.Status,
			TotalAmount:     data.TotalAmount,
			ShippingAddress: data.ShippingAddress,
			PaymentMethod:   data.PaymentMethod,
			PaymentStatus:   data.PaymentStatus,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.Created(w, newOrderResponse(o))
	})
}

func handleUpdateOrder(s orderService, l logger.Logger) http.Handler {
	type request struct {
		Status          *string          `json:"status" validate:"omitempty,min=1,max=32"`
		TotalAmount     *decimal.Decimal `json:"total_amount" validate:"omitempty,gte=0,lt=10000000000"`
		ShippingAddress *string          `json:"shipping_address" validate:"omitempty,min=1"`
		PaymentMethod   *string          `json:"payment_method" validate:"omitempty,min=1,max=32"`
		PaymentStatus   *string          `json:"payment_status" validate:"omitempty,min=1,max=32"`
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

		o, err := s.Update(r.Context(), actor, id, repository.UpdateOrderParams{
			Status:          data.Status,
			TotalAmount:     data.TotalAmount,
			ShippingAddress: data.ShippingAddress,
			PaymentMethod:   data.PaymentMethod,
			PaymentStatus:   data.PaymentStatus,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newOrderResponse(o))
	})
}

func handleDeleteOrder(s orderService, l logger.Logger) http.Handler {
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

func handleListOrderItems(s orderService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		orderID, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		items, err := s.ListItems(r.Context(), actor, orderID)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, mapSlice(items, newOrderItemResponse))
	})
}

func handleGetOrderItem(s orderService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		orderID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		itemID, ok := pathID(w, r, "item_id")
		if !ok {
			return
		}

		item, err := s.GetItem(r.Context(), actor, orderID, itemID)
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newOrderItemResponse(item))
	})
}

func handleCreateOrderItem(s orderService, l logger.Logger) http.Handler {
	type request struct {
		OrderID   int64           `json:"order_id" validate:"omitempty,gt=0"`
		ProductID int64           `json:"product_id" validate:"required,gt=0"`
		Quantity  int             `json:"quantity" validate:"required,gt=0,lte=1000000"`
		UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0,lt=10000000000"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		orderID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		item, err := s.CreateItem(r.Context(), actor, orderID, repository.OrderItemParams{
			OrderID:   data.OrderID,
			ProductID: data.ProductID,
			Quantity:  data.Quantity,
			UnitPrice: data.UnitPrice,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.Created(w, newOrderItemResponse(item))
	})
}

func handleUpdateOrderItem(s orderService, l logger.Logger) http.Handler {
	type request struct {
		OrderID   *int64           `json:"order_id" validate:"omitempty,gt=0"`
		ProductID *int64           `json:"product_id" validate:"omitempty,gt=0"`
		Quantity  *int             `json:"quantity" validate:"omitempty,gt=0,lte=1000000"`
		UnitPrice *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0,lt=10000000000"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		orderID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		itemID, ok := pathID(w, r, "item_id")
		if !ok {
			return
		}
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		item, err := s.UpdateItem(r.Context(), actor, orderID, itemID, order.UpdateItemParams{
			OrderID:   data.OrderID,
			ProductID: data.ProductID,
			Quantity:  data.Quantity,
			UnitPrice: data.UnitPrice,
		})
		if err != nil {
			render.Error(w, err, l)
			return
		}

		render.JSON(w, newOrderItemResponse(item))
	})
}

func handleDeleteOrderItem(s orderService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := currentUser(w, r)
		if !ok {
			return
		}
		orderID, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		itemID, ok := pathID(w, r, "item_id")
		if !ok {
			return
		}

		if err := s.DeleteItem(r.Context(), actor, orderID, itemID); err != nil {
			render.Error(w, err, l)
			return
		}

		render.NoContent(w)
	})
}
