package orderrepo_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
	"warehub/internal/repository/orderrepo"
)

var orderCols = []string{"id", "order_number", "customer_id", "warehouse_id", "subtotal", "tax", "shipping_cost", "total",
	"status", "payment_status", "payment_method", "shipping_address", "notes", "created_at", "updated_at"}

var itemCols = []string{"id", "order_id", "product_id", "sku", "product_name", "quantity", "unit_price", "line_total"}

func newRepo(t *testing.T) (*orderrepo.OrderRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return orderrepo.NewOrderRepository(db, time.Second, logger.NewLoggerWithWriter("error", io.Discard)), mock
}

func sampleOrder() domain.Order {
	now := time.Now()
	return domain.Order{
		ID:            "o1",
		OrderNumber:   "ORD-20250101-ABCDEF12",
		CustomerID:    "c1",
		Items:         []domain.OrderItem{{ID: "i1", ProductID: "p1", SKU: "SKU-1", ProductName: "Box", Quantity: 2, UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(20)}},
		Subtotal:      decimal.NewFromInt(20),
		Tax:           decimal.RequireFromString("3.6"),
		ShippingCost:  decimal.NewFromInt(50),
		Total:         decimal.RequireFromString("73.6"),
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestCreate_WritesOrderItemsAndCustomerAggregates(t *testing.T) {
	repo, mock := newRepo(t)
	order := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs("i1", "o1", "p1", "SKU-1", "Box", 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE customers").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, created.OrderNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UnknownCustomerRollsBack(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnError(&pq.Error{Code: "23503"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), sampleOrder())
	var validation *apperror.ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_LoadsItems(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = \\$1").
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow("o1", "ORD-20250101-ABCDEF12", "c1", nil, "20", "3.6", "50",
			"73.6", "confirmed", "paid", "upi", nil, "", now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id = ANY\\(\\$1\\)").
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow("i1", "o1", "p1", "SKU-1", "Box", 2, "10", "20"))

	o, err := repo.FindByID(context.Background(), "o1")
	require.NoError(t, err)
	assert.Nil(t, o.WarehouseID)
	assert.Nil(t, o.ShippingAddress)
	assert.Equal(t, domain.OrderConfirmed, o.Status)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "73.60", o.Total.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	shipped := domain.OrderShipped

	mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.UpdateStatus(context.Background(), "missing", domain.OrderStatusUpdate{Status: &shipped}, time.Now())
	var notFound *apperror.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestDelete_RevertsCustomerAggregates(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM orders WHERE id = \\$1 RETURNING customer_id, total").
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "total"}).AddRow("c1", "73.60"))
	mock.ExpectExec("UPDATE customers").WithArgs("73.60", "c1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "o1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
