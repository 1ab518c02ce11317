package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
)

type CartRepo struct {
	DB DBTX
}

// Insert is skipped if the cart exists, then the cart is selected in any case
const getOrCreateCart = `-- name: GetOrCreateCart
WITH inserted AS (
	INSERT INTO carts (user_id) VALUES ($1)
	ON CONFLICT (user_id) DO NOTHING
	RETURNING id, user_id, total_amount, created_at
), cart AS (
	SELECT id, user_id, total_amount, created_at FROM inserted
	UNION ALL
	SELECT id, user_id, total_amount, created_at FROM carts WHERE user_id = $1
)
SELECT c.id, c.user_id, u.username, c.total_amount, c.created_at
FROM cart c JOIN users u ON u.id = c.user_id
LIMIT 1
`

func (r *CartRepo) GetOrCreate(ctx context.Context, userID int64) (models.Cart, error) {
	rows, _ := r.DB.Query(ctx, getOrCreateCart, userID)
	cart, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.Cart, error) {
		var c models.Cart
		err := row.Scan(&c.ID, &c.UserID, &c.Username, &c.TotalAmount, &c.CreatedAt)
		return c, err
	})
	if _, ok := isForeignKeyViolation(err); ok {
		return cart, apperrors.ErrUserNotFound
	}
	return cart, mapErr(err, apperrors.ErrUserNotFound)
}

const cartItemColumns = `ci.id, ci.cart_id, ci.product_id, ci.quantity, p.title, p.price, p.price * ci.quantity`

const listCartItems = `-- name: ListCartItems
SELECT ` + cartItemColumns + `
FROM cart_items ci JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.id
`

func (r *CartRepo) ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	rows, _ := r.DB.Query(ctx, listCartItems, cartID)
	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.CartItem])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

const getCartItem = `-- name: GetCartItem
SELECT ` + cartItemColumns + `
FROM cart_items ci JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1 AND ci.id = $2
`

func (r *CartRepo) GetItem(ctx context.Context, cartID int64, itemID int64) (models.CartItem, error) {
	rows, _ := r.DB.Query(ctx, getCartItem, cartID, itemID)
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.CartItem])
	return item, mapErr(err, apperrors.ErrCartItemNotFound)
}

const getCartItemByProduct = `-- name: GetCartItemByProduct
SELECT ` + cartItemColumns + `
FROM cart_items ci JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1 AND ci.product_id = $2
`

func (r *CartRepo) GetItemByProduct(ctx context.Context, cartID int64, productID int64) (models.CartItem, error) {
	rows, _ := r.DB.Query(ctx, getCartItemByProduct, cartID, productID)
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.CartItem])
	return item, mapErr(err, apperrors.ErrCartItemNotFound)
}

const createCartItem = `-- name: CreateCartItem
INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)
RETURNING id
`

func (r *CartRepo) CreateItem(ctx context.Context, cartID int64, productID int64, quantity int) (int64, error) {
	rows, _ := r.DB.Query(ctx, createCartItem, cartID, productID, quantity)
	id, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if _, ok := isForeignKeyViolation(err); ok {
		return 0, apperrors.ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

const setCartItemQuantity = `-- name: SetCartItemQuantity
UPDATE cart_items SET quantity = $2 WHERE id = $1
`

func (r *CartRepo) SetItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	tag, err := r.DB.Exec(ctx, setCartItemQuantity, itemID, quantity)
	return mustAffect(tag, err, apperrors.ErrCartItemNotFound)
}

const deleteCartItem = `-- name: DeleteCartItem
DELETE FROM cart_items WHERE cart_id = $1 AND id = $2
`

func (r *CartRepo) DeleteItem(ctx context.Context, cartID int64, itemID int64) error {
	tag, err := r.DB.Exec(ctx, deleteCartItem, cartID, itemID)
	return mustAffect(tag, err, apperrors.ErrCartItemNotFound)
}

const clearCart = `-- name: ClearCart
DELETE FROM cart_items WHERE cart_id = $1
`

func (r *CartRepo) Clear(ctx context.Context, cartID int64) error {
	_, err := r.DB.Exec(ctx, clearCart, cartID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const recalculateCartTotal = `-- name: RecalculateCartTotal
UPDATE carts SET total_amount = (
	SELECT COALESCE(SUM(p.price * ci.quantity), 0)
	FROM cart_items ci JOIN products p ON p.id = ci.product_id
	WHERE ci.cart_id = $1
)
WHERE id = $1
RETURNING total_amount
`

func (r *CartRepo) RecalculateTotal(ctx context.Context, cartID int64) (decimal.Decimal, error) {
	rows, _ := r.DB.Query(ctx, recalculateCartTotal, cartID)
	total, err := pgx.CollectOneRow(rows, pgx.RowTo[decimal.Decimal])
	return total, mapErr(err, apperrors.New(apperrors.ErrNotFound, "Cart not found"))
}
