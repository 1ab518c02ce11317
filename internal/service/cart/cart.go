package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

type eventRecorder interface {
	Record(ctx context.Context, e models.Event)
}

// Shopping cart of the current user
// Every user has exactly one cart which is created on first access
type Service struct {
	storage repository.Storage
	events  eventRecorder
}

func NewService(storage repository.Storage, events eventRecorder) *Service {
	return &Service{storage: storage, events: events}
}

// Get returns cart with its items
func (s *Service) Get(ctx context.Context, actor models.User) (models.Cart, error) {
	return load(ctx, s.storage, actor.ID)
}

// AddItem puts product to the cart
// If product is in the cart already its quantity is increased
func (s *Service) AddItem(ctx context.Context, actor models.User, productID int64, quantity int) (models.Cart, error) {
	if quantity <= 0 {
		return models.Cart{}, apperrors.ErrQuantityInvalid
	}

	cart, err := s.mutate(ctx, actor, func(tx repository.Storage, cart models.Cart) error {
		product, err := tx.Product().GetByID(ctx, productID)
		if err != nil {
			return err
		}

		item, err := tx.Cart().GetItemByProduct(ctx, cart.ID, productID)
		switch {
		case errors.Is(err, apperrors.ErrCartItemNotFound):
			if quantity > product.Stock {
				return apperrors.ErrInsufficientStock
			}
			_, err = tx.Cart().CreateItem(ctx, cart.ID, productID, quantity)
			return err

		case err != nil:
			return err

		default:
			if item.Quantity+quantity > product.Stock {
				return apperrors.ErrInsufficientStock
			}
			return tx.Cart().SetItemQuantity(ctx, item.ID, item.Quantity+quantity)
		}
	})
	if err != nil {
		return cart, err
	}

	s.record(ctx, models.EventCartItemAdded, actor.ID, fmt.Sprintf("Product %d added to cart, quantity %d", productID, quantity))
	return cart, nil
}

// UpdateItem sets quantity of the cart line
func (s *Service) UpdateItem(ctx context.Context, actor models.User, itemID int64, quantity int) (models.Cart, error) {
	if quantity <= 0 {
		return models.Cart{}, apperrors.ErrQuantityInvalid
	}

	cart, err := s.mutate(ctx, actor, func(tx repository.Storage, cart models.Cart) error {
		item, err := tx.Cart().GetItem(ctx, cart.ID, itemID)
		if err != nil {
			return err
		}

		product, err := tx.Product().GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if quantity > product.Stock {
			return apperrors.ErrInsufficientStock
		}

		return tx.Cart().SetItemQuantity(ctx, item.ID, quantity)
	})
	if err != nil {
		return cart, err
	}

	s.record(ctx, models.EventCartItemUpdated, actor.ID, fmt.Sprintf("Cart item %d quantity set to %d", itemID, quantity))
	return cart, nil
}

func (s *Service) RemoveItem(ctx context.Context, actor models.User, itemID int64) (models.Cart, error) {
	cart, err := s.mutate(ctx, actor, func(tx repository.Storage, cart models.Cart) error {
		return tx.Cart().DeleteItem(ctx, cart.ID, itemID)
	})
	if err != nil {
		return cart, err
	}

	s.record(ctx, models.EventCartItemRemoved, actor.ID, fmt.Sprintf("Cart item %d removed", itemID))
	return cart, nil
}

func (s *Service) Clear(ctx context.Context, actor models.User) (models.Cart, error) {
	cart, err := s.mutate(ctx, actor, func(tx repository.Storage, cart models.Cart) error {
		return tx.Cart().Clear(ctx, cart.ID)
	})
	if err != nil {
		return cart, err
	}

	s.record(ctx, models.EventCartCleared, actor.ID, "Cart cleared")
	return cart, nil
}

// Run fn in transaction, recalculate cart total and return updated cart
func (s *Service) mutate(ctx context.Context, actor models.User, fn func(tx repository.Storage, cart models.Cart) error) (models.Cart, error) {
	var cart models.Cart

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		current, err := tx.Cart().GetOrCreate(ctx, actor.ID)
		if err != nil {
			return err
		}

		if err := fn(tx, current); err != nil {
			return err
		}

		if _, err := tx.Cart().RecalculateTotal(ctx, current.ID); err != nil {
			return err
		}

		cart, err = load(ctx, tx, actor.ID)
		return err
	})

	return cart, err
}

func load(ctx context.Context, storage repository.Storage, userID int64) (models.Cart, error) {
	cart, err := storage.Cart().GetOrCreate(ctx, userID)
	if err != nil {
		return cart, err
	}

	cart.Items, err = storage.Cart().ListItems(ctx, cart.ID)
	return cart, err
}

func (s *Service) record(ctx context.Context, eventType string, actorID int64, description string) {
	s.events.Record(ctx, models.Event{EventType: eventType, UserID: &actorID, Description: description})
}
