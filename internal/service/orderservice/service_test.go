package orderservice_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
	"warehub/internal/pkg/validation"
	"warehub/internal/service/orderservice"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	args := m.Called(ctx, order)
	if fn, ok := args.Get(0).(func(domain.Order) domain.Order); ok {
		return fn(order), args.Error(1)
	}
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) Update(ctx context.Context, id string, req domain.UpdateOrderRequest, updatedAt time.Time) (domain.Order, error) {
	args := m.Called(ctx, id, req, updatedAt)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, upd domain.OrderStatusUpdate, updatedAt time.Time) (domain.Order, error) {
	args := m.Called(ctx, id, upd, updatedAt)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) FindByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

var pricing = domain.Pricing{
	TaxRate:               decimal.RequireFromString("0.18"),
	ShippingFee:           decimal.NewFromInt(50),
	FreeShippingThreshold: decimal.NewFromInt(500),
}

func newService() (*orderservice.Service, *MockOrderRepository, *MockProductReader) {
	repo := new(MockOrderRepository)
	products := new(MockProductReader)
	return orderservice.NewService(repo, products, pricing, validation.New(), logger.NewLogger("debug")), repo, products
}

func TestCreateOrder_ComputesTotalsFromProductPrices(t *testing.T) {
	svc, repo, products := newService()

	p1 := domain.Product{ID: uuid.New().String(), SKU: "SKU-1", Name: "Caneta", Price: decimal.RequireFromString("10.00"), IsActive: true}
	p2 := domain.Product{ID: uuid.New().String(), SKU: "SKU-2", Name: "Caderno", Price: decimal.RequireFromString("45.50"), IsActive: true}
	products.On("FindByID", mock.Anything, p1.ID).Return(p1, nil)
	products.On("FindByID", mock.Anything, p2.ID).Return(p2, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(func(o domain.Order) domain.Order { return o }, nil)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderRequest{
		CustomerID: uuid.New().String(),
		Items: []domain.OrderItemRequest{
			{ProductID: p1.ID, Quantity: 3},
			{ProductID: p2.ID, Quantity: 2},
		},
	})

	require.NoError(t, err)
	// 3*10 + 2*45.50 = 121; imposto 21.78; frete 50
	assert.Equal(t, "121", order.Subtotal.String())
	assert.Equal(t, "21.78", order.Tax.String())
	assert.Equal(t, "50", order.ShippingCost.String())
	assert.Equal(t, "192.78", order.Total.String())
	assert.Equal(t, "Caneta", order.Items[0].ProductName)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{8}$`), order.OrderNumber)
	repo.AssertExpectations(t)
}

func TestCreateOrder_FreeShippingAboveThreshold(t *testing.T) {
	svc, repo, products := newService()

	p := domain.Product{ID: uuid.New().String(), SKU: "SKU-9", Name: "Cadeira", Price: decimal.NewFromInt(500), IsActive: true}
	products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(func(o domain.Order) domain.Order { return o }, nil)

	order, err := svc.CreateOrder(context.Background(), domain.CreateOrderRequest{
		CustomerID: uuid.New().String(),
		Items:      []domain.OrderItemRequest{{ProductID: p.ID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.True(t, order.ShippingCost.IsZero())
	assert.Equal(t, "590", order.Total.String())
}

func TestCreateOrder_Fail_UnknownOrInactiveProduct(t *testing.T) {
	svc, repo, products := newService()

	unknown := uuid.New().String()
	inactive := domain.Product{ID: uuid.New().String(), Price: decimal.NewFromInt(1), IsActive: false}
	products.On("FindByID", mock.Anything, unknown).Return(domain.Product{}, apperror.NewNotFoundError("Produto não encontrado."))
	products.On("FindByID", mock.Anything, inactive.ID).Return(inactive, nil)

	_, err := svc.CreateOrder(context.Background(), domain.CreateOrderRequest{
		CustomerID: uuid.New().String(),
		Items: []domain.OrderItemRequest{
			{ProductID: unknown, Quantity: 1},
			{ProductID: inactive.ID, Quantity: 1},
		},
	})

	require.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	fields := apperror.FieldsOf(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "items[1].product_id", fields[1].Field)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_Fail_EmptyItems(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.CreateOrder(context.Background(), domain.CreateOrderRequest{CustomerID: uuid.New().String()})

	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOrder_Fail_UnknownCustomer(t *testing.T) {
	svc, repo, products := newService()

	p := domain.Product{ID: uuid.New().String(), Price: decimal.NewFromInt(5), IsActive: true}
	products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.Order{}, apperror.NewValidationError("Cliente inexistente."))

	_, err := svc.CreateOrder(context.Background(), domain.CreateOrderRequest{
		CustomerID: uuid.New().String(),
		Items:      []domain.OrderItemRequest{{ProductID: p.ID, Quantity: 1}},
	})

	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestNewOrderNumber(t *testing.T) {
	n := orderservice.NewOrderNumber(time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC))
	assert.Regexp(t, `^ORD-20260309-[0-9A-F]{8}$`, n)
	assert.NotEqual(t, n, orderservice.NewOrderNumber(time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)))
}

func TestUpdateOrderStatus_AnyValidValue(t *testing.T) {
	svc, repo, _ := newService()

	id := uuid.New().String()
	returned := domain.OrderReturned
	upd := domain.OrderStatusUpdate{Status: &returned}
	repo.On("UpdateStatus", mock.Anything, id, upd, mock.Anything).Return(domain.Order{ID: id, Status: returned}, nil)

	order, err := svc.UpdateOrderStatus(context.Background(), id, upd)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderReturned, order.Status)
}

func TestUpdateOrderStatus_Fail_Empty(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.UpdateOrderStatus(context.Background(), uuid.New().String(), domain.OrderStatusUpdate{})

	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_Fail_UnknownStatus(t *testing.T) {
	svc, _, _ := newService()

	bogus := domain.OrderStatus("lost")
	_, err := svc.UpdateOrderStatus(context.Background(), uuid.New().String(), domain.OrderStatusUpdate{Status: &bogus})

	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestListOrders_InvalidFilters(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.ListOrders(context.Background(), domain.OrderFilter{Status: "x", CustomerID: "y"})

	assert.Len(t, apperror.FieldsOf(err), 2)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestDeleteOrder(t *testing.T) {
	svc, repo, _ := newService()

	id := uuid.New().String()
	repo.On("Delete", mock.Anything, id).Return(nil)

	assert.NoError(t, svc.DeleteOrder(context.Background(), id))
	repo.AssertExpectations(t)
}
