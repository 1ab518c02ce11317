package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
)

type OrderRepo struct {
	DB DBTX
}

const orderColumns = `o.id, o.user_id, u.username, o.order_number, o.status, o.total_amount, o.shipping_address, o.payment_method, o.payment_status, o.created_at`

const listOrders = `-- name: ListOrders
SELECT ` + orderColumns + `
FROM orders o JOIN users u ON u.id = o.user_id
ORDER BY o.id
LIMIT $1 OFFSET $2
`

func (r *OrderRepo) List(ctx context.Context, page repository.Page) ([]models.Order, error) {
	rows, _ := r.DB.Query(ctx, listOrders, page.Limit, page.Offset)
	orders, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Order])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return orders, nil
}

const getOrder = `-- name: GetOrder
SELECT ` + orderColumns + `
FROM orders o JOIN users u ON u.id = o.user_id
WHERE o.id = $1
`

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (models.Order, error) {
	rows, _ := r.DB.Query(ctx, getOrder, id)
	order, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Order])
	return order, mapErr(err, apperrors.ErrOrderNotFound)
}

const createOrder = `-- name: CreateOrder
WITH o AS (
	INSERT INTO orders (user_id, order_number, status, total_amount, shipping_address, payment_method, payment_status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING *
)
SELECT ` + orderColumns + `
FROM o JOIN users u ON u.id = o.user_id
`

func (r *OrderRepo) Create(ctx context.Context, arg repository.CreateOrderParams) (models.Order, error) {
	rows, _ := r.DB.Query(ctx, createOrder,
		arg.UserID, arg.OrderNumber, arg.Status, arg.TotalAmount, arg.ShippingAddress, arg.PaymentMethod, arg.PaymentStatus,
	)
	order, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Order])
	if _, ok := isUniqueViolation(err); ok {
		return order, apperrors.ErrOrderNumberTaken
	}
	if _, ok := isForeignKeyViolation(err); ok {
		return order, apperrors.ErrUserNotFound
	}
	return order, mapErr(err, apperrors.ErrOrderNotFound)
}

const updateOrder = `-- name: UpdateOrder
WITH o AS (
	UPDATE orders SET
		status = COALESCE($2, status),
		total_amount = COALESCE($3, total_amount),
		shipping_address = COALESCE($4, shipping_address),
		payment_method = COALESCE($5, payment_method),
		payment_status = COALESCE($6, payment_status)
	WHERE id = $1
	RETURNING *
)
SELECT ` + orderColumns + `
FROM o JOIN users u ON u.id = o.user_id
`

func (r *OrderRepo) Update(ctx context.Context, id int64, arg repository.UpdateOrderParams) (models.Order, error) {
	rows, _ := r.DB.Query(ctx, updateOrder,
		id, arg.Status, arg.TotalAmount, arg.ShippingAddress, arg.PaymentMethod, arg.PaymentStatus,
	)
	order, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.Order])
	return order, mapErr(err, apperrors.ErrOrderNotFound)
}

const deleteOrder = `-- name: DeleteOrder
DELETE FROM orders WHERE id = $1
`

func (r *OrderRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, deleteOrder, id)
	return mustAffect(tag, err, apperrors.ErrOrderNotFound)
}

const orderItemColumns = `oi.id, oi.order_id, oi.product_id, p.title, oi.quantity, oi.unit_price`

const listOrderItems = `-- name: ListOrderItems
SELECT ` + orderItemColumns + `
FROM order_items oi JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = $1
ORDER BY oi.id
`

func (r *OrderRepo) ListItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, _ := r.DB.Query(ctx, listOrderItems, orderID)
	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.OrderItem])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

const getOrderItem = `-- name: GetOrderItem
SELECT ` + orderItemColumns + `
FROM order_items oi JOIN products p ON p.id = oi.product_id
WHERE oi.id = $1
`

func (r *OrderRepo) GetItem(ctx context.Context, id int64) (models.OrderItem, error) {
	rows, _ := r.DB.Query(ctx, getOrderItem, id)
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.OrderItem])
	return item, mapErr(err, apperrors.ErrOrderItemNotFound)
}

const createOrderItem = `-- name: CreateOrderItem
WITH oi AS (
	INSERT INTO order_items (order_id, product_id, quantity, unit_price)
	VALUES ($1, $2, $3, $4)
	RETURNING *
)
SELECT ` + orderItemColumns + `
FROM oi JOIN products p ON p.id = oi.product_id
`

func (r *OrderRepo) CreateItem(ctx context.Context, arg repository.OrderItemParams) (models.OrderItem, error) {
	rows, _ := r.DB.Query(ctx, createOrderItem, arg.OrderID, arg.ProductID, arg.Quantity, arg.UnitPrice)
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.OrderItem])
	return item, orderItemWriteErr(err)
}

const updateOrderItem = `-- name: UpdateOrderItem
WITH oi AS (
	UPDATE order_items SET
		product_id = COALESCE($2, product_id),
		quantity = COALESCE($3, quantity),
		unit_price = COALESCE($4, unit_price)
	WHERE id = $1
	RETURNING *
)
SELECT ` + orderItemColumns + `
FROM oi JOIN products p ON p.id = oi.product_id
`

func (r *OrderRepo) UpdateItem(ctx context.Context, id int64, arg repository.UpdateOrderItemParams) (models.OrderItem, error) {
	rows, _ := r.DB.Query(ctx, updateOrderItem, id, arg.ProductID, arg.Quantity, arg.UnitPrice)
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[models.OrderItem])
	return item, orderItemWriteErr(err)
}

const deleteOrderItem = `-- name: DeleteOrderItem
DELETE FROM order_items WHERE id = $1
`

func (r *OrderRepo) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, deleteOrderItem, id)
	return mustAffect(tag, err, apperrors.ErrOrderItemNotFound)
}

const deleteOrderItemsByOrder = `-- name: DeleteOrderItemsByOrder
DELETE FROM order_items WHERE order_id = $1
`

func (r *OrderRepo) DeleteItemsByOrder(ctx context.Context, orderID int64) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteOrderItemsByOrder, orderID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected(), nil
}

func orderItemWriteErr(err error) error {
	if constraint, ok := isForeignKeyViolation(err); ok {
		if constraint == "order_items_order_id_fkey" {
			return apperrors.ErrOrderNotFound
		}
		return apperrors.ErrProductNotFound
	}
	return mapErr(err, apperrors.ErrOrderItemNotFound)
}
