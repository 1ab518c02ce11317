package order

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/service/auth"
)

type eventRecorder interface {
	Record(ctx context.Context, e models.Event)
}

// Order item change. OrderID may be set to double check item is not moved to another order
type UpdateItemParams struct {
	OrderID   *int64
	ProductID *int64
	Quantity  *int
	UnitPrice *decimal.Decimal
}

// Order management, admins only
type Service struct {
	storage repository.Storage
	events  eventRecorder
}

func NewService(storage repository.Storage, events eventRecorder) *Service {
	return &Service{storage: storage, events: events}
}

func (s *Service) List(ctx context.Context, actor models.User, page repository.Page) ([]models.Order, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.storage.Order().List(ctx, page)
}

func (s *Service) Get(ctx context.Context, actor models.User, id int64) (models.Order, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return models.Order{}, err
	}
	return s.storage.Order().GetByID(ctx, id)
}

// Create order. Status and payment status are pending if not set
func (s *Service) Create(ctx context.Context, actor models.User, arg repository.CreateOrderParams) (models.Order, error) {
	var order models.Order

	if err := auth.RequireAdmin(actor); err != nil {
		return order, err
	}
	if arg.TotalAmount.IsNegative() {
		return order, apperrors.ErrPriceNegative
	}
	if _, err := s.storage.User().GetByID(ctx, arg.UserID); err != nil {
		return order, err
	}

	if arg.Status == "" {
		arg.Status = models.OrderStatusPending
	}
	if arg.PaymentStatus == "" {
		arg.PaymentStatus = models.PaymentStatusPending
	}

	order, err := s.storage.Order().Create(ctx, arg)
	if err != nil {
		return order, err
	}

	s.record(ctx, models.EventOrderCreated, actor.ID, fmt.Sprintf("Order %s created", order.OrderNumber))
	return order, nil
}

func (s *Service) Update(ctx context.Context, actor models.User, id int64, arg repository.UpdateOrderParams) (models.Order, error) {
	var order models.Order

	if err := auth.RequireAdmin(actor); err != nil {
		return order, err
	}
	if arg == (repository.UpdateOrderParams{}) {
		return order, apperrors.ErrNothingToUpdate
	}
	if arg.TotalAmount != nil && arg.TotalAmount.IsNegative() {
		return order, apperrors.ErrPriceNegative
	}

	order, err := s.storage.Order().Update(ctx, id, arg)
	if err != nil {
		return order, err
	}

	s.record(ctx, models.EventOrderUpdated, actor.ID, fmt.Sprintf("Order %s updated", order.OrderNumber))
	return order, nil
}

// Delete removes order with all its items
func (s *Service) Delete(ctx context.Context, actor models.User, id int64) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		if _, err := tx.Order().DeleteItemsByOrder(ctx, id); err != nil {
			return err
		}
		return tx.Order().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.record(ctx, models.EventOrderDeleted, actor.ID, fmt.Sprintf("Order %d deleted", id))
	return nil
}

func (s *Service) ListItems(ctx context.Context, actor models.User, orderID int64) ([]models.OrderItem, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.storage.Order().GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.storage.Order().ListItems(ctx, orderID)
}

func (s *Service) GetItem(ctx context.Context, actor models.User, orderID int64, itemID int64) (models.OrderItem, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return models.OrderItem{}, err
	}
	return s.getItem(ctx, orderID, itemID)
}

// CreateItem adds item to the order
// OrderID of arg may be zero, otherwise it has to match orderID
func (s *Service) CreateItem(ctx context.Context, actor models.User, orderID int64, arg repository.OrderItemParams) (models.OrderItem, error) {
	var item models.OrderItem

	if err := auth.RequireAdmin(actor); err != nil {
		return item, err
	}
	if arg.OrderID != 0 && arg.OrderID != orderID {
		return item, apperrors.ErrOrderMismatch
	}
	arg.OrderID = orderID

	if err := checkItem(&arg.Quantity, &arg.UnitPrice); err != nil {
		return item, err
	}
	if _, err := s.storage.Order().GetByID(ctx, orderID); err != nil {
		return item, err
	}
	if _, err := s.storage.Product().GetByID(ctx, arg.ProductID); err != nil {
		return item, err
	}

	item, err := s.storage.Order().CreateItem(ctx, arg)
	if err != nil {
		return item, err
	}

	s.record(ctx, models.EventOrderItemCreated, actor.ID, fmt.Sprintf("Item %d added to order %d", item.ID, orderID))
	return item, nil
}

// UpdateItem changes order item. Item can't be moved to another order
func (s *Service) UpdateItem(ctx context.Context, actor models.User, orderID int64, itemID int64, arg UpdateItemParams) (models.OrderItem, error) {
	var item models.OrderItem

	if err := auth.RequireAdmin(actor); err != nil {
		return item, err
	}
	if arg.OrderID != nil && *arg.OrderID != orderID {
		return item, apperrors.ErrOrderItemMove
	}
	if arg.ProductID == nil && arg.Quantity == nil && arg.UnitPrice == nil {
		return item, apperrors.ErrNothingToUpdate
	}
	if err := checkItem(arg.Quantity, arg.UnitPrice); err != nil {
		return item, err
	}

	if _, err := s.getItem(ctx, orderID, itemID); err != nil {
		return item, err
	}
	if arg.ProductID != nil {
		if _, err := s.storage.Product().GetByID(ctx, *arg.ProductID); err != nil {
			return item, err
		}
	}

	item, err := s.storage.Order().UpdateItem(ctx, itemID, repository.UpdateOrderItemParams{
		ProductID: arg.ProductID,
		Quantity:  arg.Quantity,
		UnitPrice: arg.UnitPrice,
	})
	if err != nil {
		return item, err
	}

	s.record(ctx, models.EventOrderItemUpdated, actor.ID, fmt.Sprintf("Item %d of order %d updated", itemID, orderID))
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, actor models.User, orderID int64, itemID int64) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}

	if _, err := s.getItem(ctx, orderID, itemID); err != nil {
		return err
	}
	if err := s.storage.Order().DeleteItem(ctx, itemID); err != nil {
		return err
	}

	s.record(ctx, models.EventOrderItemDeleted, actor.ID, fmt.Sprintf("Item %d of order %d deleted", itemID, orderID))
	return nil
}

// Item of other order is reported as not found
func (s *Service) getItem(ctx context.Context, orderID int64, itemID int64) (models.OrderItem, error) {
	item, err := s.storage.Order().GetItem(ctx, itemID)
	if err != nil {
		return item, err
	}
	if item.OrderID != orderID {
		return models.OrderItem{}, apperrors.ErrOrderItemNotFound
	}
	return item, nil
}

func checkItem(quantity *int, unitPrice *decimal.Decimal) error {
	if quantity != nil && *quantity <= 0 {
		return apperrors.ErrQuantityInvalid
	}
	if unitPrice != nil && unitPrice.IsNegative() {
		return apperrors.ErrPriceNegative
	}
	return nil
}

func (s *Service) record(ctx context.Context, eventType string, actorID int64, description string) {
	s.events.Record(ctx, models.Event{EventType: eventType, UserID: &actorID, Description: description})
}
