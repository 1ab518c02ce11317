package order

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/shop/internal/apperrors"
	"github.com/nkiryanov/shop/internal/models"
	"github.com/nkiryanov/shop/internal/repository"
	"github.com/nkiryanov/shop/internal/repository/postgres"
	"github.com/nkiryanov/shop/internal/testutil"
)

func ptr[T any](v T) *T {
	return &v
}

func TestOrder(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	type env struct {
		s        *Service
		storage  repository.Storage
		admin    models.User
		customer models.User
		product  models.Product
		events   *testutil.Recorder
	}

	inTx := func(t *testing.T, fn func(e env)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			events := &testutil.Recorder{}
			fn(env{
				s:        NewService(storage, events),
				storage:  storage,
				admin:    testutil.CreateUser(t, storage, "root", testutil.AdminRoleID),
				customer: testutil.CreateUser(t, storage, "alice", testutil.CustomerRoleID),
				product:  testutil.CreateProduct(t, storage, "Phone", "100", 10),
				events:   events,
			})
		})
	}

	newOrder := func(t *testing.T, e env, number string) models.Order {
		order, err := e.s.Create(t.Context(), e.admin, repository.CreateOrderParams{
			UserID:          e.customer.ID,
			OrderNumber:     number,
			TotalAmount:     decimal.NewFromInt(200),
			ShippingAddress: "Baker street 221b",
			PaymentMethod:   "card",
		})
		require.NoError(t, err)
		return order
	}

	t.Run("Orders", func(t *testing.T) {
		t.Run("create with defaults", func(t *testing.T) {
			inTx(t, func(e env) {
				order := newOrder(t, e, "ORD-1")

				assert.Equal(t, e.customer.ID, order.UserID)
				assert.Equal(t, "alice", order.Username)
				assert.Equal(t, models.OrderStatusPending, order.Status)
				assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
				assert.True(t, decimal.NewFromInt(200).Equal(order.TotalAmount))
				assert.Equal(t, []string{models.EventOrderCreated}, e.events.Types())
			})
		})

		t.Run("list get update", func(t *testing.T) {
			inTx(t, func(e env) {
				first := newOrder(t, e, "ORD-1")
				newOrder(t, e, "ORD-2")

				orders, err := e.s.List(t.Context(), e.admin, repository.Page{Limit: 10})
				require.NoError(t, err)
				require.Len(t, orders, 2)

				updated, err := e.s.Update(t.Context(), e.admin, first.ID, repository.UpdateOrderParams{Status: ptr("shipped")})
				require.NoError(t, err)
				require.Equal(t, "shipped", updated.Status)
				require.Equal(t, first.ShippingAddress, updated.ShippingAddress)

				got, err := e.s.Get(t.Context(), e.admin, first.ID)
				require.NoError(t, err)
				require.Equal(t, "shipped", got.Status)

				_, err = e.s.Update(t.Context(), e.admin, first.ID, repository.UpdateOrderParams{})
				require.ErrorIs(t, err, apperrors.ErrNothingToUpdate)

				_, err = e.s.Get(t.Context(), e.admin, 999999)
				require.ErrorIs(t, err, apperrors.ErrOrderNotFound)
			})
		})

		t.Run("unknown user", func(t *testing.T) {
			inTx(t, func(e env) {
				_, err := e.s.Create(t.Context(), e.admin, repository.CreateOrderParams{UserID: 999999, OrderNumber: "ORD-1"})

				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})

		t.Run("number taken", func(t *testing.T) {
			inTx(t, func(e env) {
				newOrder(t, e, "ORD-1")

				_, err := e.s.Create(t.Context(), e.admin, repository.CreateOrderParams{UserID: e.customer.ID, OrderNumber: "ORD-1"})

				require.ErrorIs(t, err, apperrors.ErrOrderNumberTaken)
			})
		})

		t.Run("delete with items", func(t *testing.T) {
			inTx(t, func(e env) {
				order := newOrder(t, e, "ORD-1")
				item, err := e.s.CreateItem(t.Context(), e.admin, order.ID, repository.OrderItemParams{ProductID: e.product.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(100)})
				require.NoError(t, err)

				err = e.s.Delete(t.Context(), e.admin, order.ID)
				require.NoError(t, err)

				_, err = e.storage.Order().GetItem(t.Context(), item.ID)
				require.ErrorIs(t, err, apperrors.ErrOrderItemNotFound)

				err = e.s.Delete(t.Context(), e.admin, order.ID)
				require.ErrorIs(t, err, apperrors.ErrOrderNotFound)
			})
		})

		t.Run("customer forbidden", func(t *testing.T) {
			inTx(t, func(e env) {
				_, err := e.s.List(t.Context(), e.customer, repository.Page{Limit: 10})
				require.ErrorIs(t, err, apperrors.ErrAdminRequired)

				_, err = e.s.Create(t.Context(), e.customer, repository.CreateOrderParams{UserID: e.customer.ID, OrderNumber: "ORD-1"})
				require.ErrorIs(t, err, apperrors.ErrAdminRequired)

				err = e.s.DeleteItem(t.Context(), e.customer, 1, 1)
				require.ErrorIs(t, err, apperrors.ErrAdminRequired)
			})
		})
	})

	t.Run("Items", func(t *testing.T) {
		t.Run("crud", func(t *testing.T) {
			inTx(t, func(e env) {
				order := newOrder(t, e, "ORD-1")

				item, err := e.s.CreateItem(t.Context(), e.admin, order.ID, repository.OrderItemParams{
					OrderID:   order.ID,
					ProductID: e.product.ID,
					Quantity:  2,
					UnitPrice: decimal.RequireFromString("99.90"),
				})
				require.NoError(t, err)
				assert.Equal(t, order.ID, item.OrderID)
				assert.Equal(t, "Phone", item.ProductTitle)

				item, err = e.s.UpdateItem(t.Context(), e.admin, order.ID, item.ID, UpdateItemParams{OrderID: &order.ID, Quantity: ptr(3)})
				require.NoError(t, err)
				assert.Equal(t, 3, item.Quantity)
				assert.True(t, decimal.RequireFromString("99.90").Equal(item.UnitPrice))

				items, err := e.s.ListItems(t.Context(), e.admin, order.ID)
				require.NoError(t, err)
				require.Len(t, items, 1)

				got, err := e.s.GetItem(t.Context(), e.admin, order.ID, item.ID)
				require.NoError(t, err)
				require.Equal(t, item.ID, got.ID)

				err = e.s.DeleteItem(t.Context(), e.admin, order.ID, item.ID)
				require.NoError(t, err)

				_, err = e.s.GetItem(t.Context(), e.admin, order.ID, item.ID)
				require.ErrorIs(t, err, apperrors.ErrOrderItemNotFound)
			})
		})

		t.Run("order id rules", func(t *testing.T) {
			inTx(t, func(e env) {
				first := newOrder(t, e, "ORD-1")
				second := newOrder(t, e, "ORD-2")
				item, err := e.s.CreateItem(t.Context(), e.admin, first.ID, repository.OrderItemParams{ProductID: e.product.ID, Quantity: 1})
				require.NoError(t, err)

				_, err = e.s.CreateItem(t.Context(), e.admin, first.ID, repository.OrderItemParams{OrderID: second.ID, ProductID: e.product.ID, Quantity: 1})
				require.ErrorIs(t, err, apperrors.ErrOrderMismatch)

				_, err = e.s.UpdateItem(t.Context(), e.admin, first.ID, item.ID, UpdateItemParams{OrderID: &second.ID, Quantity: ptr(2)})
				require.ErrorIs(t, err, apperrors.ErrOrderItemMove)

				_, err = e.s.GetItem(t.Context(), e.admin, second.ID, item.ID)
				require.ErrorIs(t, err, apperrors.ErrOrderItemNotFound, "item of other order should not be found")

				err = e.s.DeleteItem(t.Context(), e.admin, second.ID, item.ID)
				require.ErrorIs(t, err, apperrors.ErrOrderItemNotFound)
			})
		})

		t.Run("validation", func(t *testing.T) {
			inTx(t, func(e env) {
				order := newOrder(t, e, "ORD-1")
				item, err := e.s.CreateItem(t.Context(), e.admin, order.ID, repository.OrderItemParams{ProductID: e.product.ID, Quantity: 1})
				require.NoError(t, err)

				_, err = e.s.CreateItem(t.Context(), e.admin, order.ID, repository.OrderItemParams{ProductID: e.product.ID, Quantity: 0})
				require.ErrorIs(t, err, apperrors.ErrQuantityInvalid)

				_, err = e.s.CreateItem(t.Context(), e.admin, order.ID, repository.OrderItemParams{ProductID: 999999, Quantity: 1})
				require.ErrorIs(t, err, apperrors.ErrProductNotFound)

				_, err = e.s.CreateItem(t.Context(), e.admin, 999999, repository.OrderItemParams{ProductID: e.product.ID, Quantity: 1})
				require.ErrorIs(t, err, apperrors.ErrOrderNotFound)

				_, err = e.s.UpdateItem(t.Context(), e.admin, order.ID, item.ID, UpdateItemParams{})
				require.ErrorIs(t, err, apperrors.ErrNothingToUpdate)

				_, err = e.s.UpdateItem(t.Context(), e.admin, order.ID, item.ID, UpdateItemParams{UnitPrice: ptr(decimal.NewFromInt(-5))})
				require.ErrorIs(t, err, apperrors.ErrPriceNegative)

				_, err = e.s.UpdateItem(t.Context(), e.admin, order.ID, item.ID, UpdateItemParams{ProductID: ptr(int64(999999))})
				require.ErrorIs(t, err, apperrors.ErrProductNotFound)
			})
		})
	})
}
