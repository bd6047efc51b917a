package order_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"warehub/internal/api/order"
	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderService) GetOrderByID(ctx context.Context, id string) (domain.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) (domain.Page[domain.Order], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.Page[domain.Order]), args.Error(1)
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, id string, req domain.UpdateOrderRequest) (domain.Order, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, id string, upd domain.OrderStatusUpdate) (domain.Order, error) {
	args := m.Called(ctx, id, upd)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newMux(svc *MockOrderService) *http.ServeMux {
	h := order.NewHandler(svc, logger.NewLogger("debug"))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/orders", h.CreateOrderHandler)
	mux.HandleFunc("GET /v1/orders", h.ListOrdersHandler)
	mux.HandleFunc("GET /v1/orders/{id}", h.GetOrderByIDHandler)
	mux.HandleFunc("PUT /v1/orders/{id}", h.UpdateOrderHandler)
	mux.HandleFunc("PATCH /v1/orders/{id}/status", h.UpdateOrderStatusHandler)
	mux.HandleFunc("DELETE /v1/orders/{id}", h.DeleteOrderHandler)
	return mux
}

func TestCreateOrderHandler(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req domain.CreateOrderRequest) bool {
		return req.CustomerID == "c1" && len(req.Items) == 1 && req.Items[0].Quantity == 2
	})).Return(domain.Order{ID: "o1", OrderNumber: "ORD-20260101-ABCDEF12", Total: decimal.RequireFromString("236.00")}, nil)

	body := `{"customer_id":"c1","payment_method":"upi","items":[{"product_id":"p1","quantity":2}],
		"shipping_address":{"street":"1 MG Road","city":"Pune","state":"MH","pincode":"411001","country":"India"}}`
	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":"236"`)
	svc.AssertExpectations(t)
}

func TestCreateOrderHandler_UnknownProduct(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("CreateOrder", mock.Anything, mock.Anything).
		Return(domain.Order{}, apperror.NewFieldValidationError("Itens inválidos.", apperror.FieldError{Field: "items[0].product_id", Message: "produto inexistente"}))

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/orders",
		strings.NewReader(`{"customer_id":"c1","items":[{"product_id":"nope","quantity":1}]}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "items[0].product_id")
}

func TestListOrdersHandler_Filters(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("ListOrders", mock.Anything, mock.MatchedBy(func(f domain.OrderFilter) bool {
		return f.Status == domain.OrderStatus("shipped") &&
			f.PaymentStatus == domain.PaymentStatus("paid") &&
			f.CustomerID == "c9" &&
			f.Page == 2
	})).Return(domain.NewPage([]domain.Order{}, domain.ListParams{Page: 2, Limit: 10}, 0), nil)

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/orders?status=shipped&payment_status=paid&customer_id=c9&page=2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("UpdateOrderStatus", mock.Anything, "o1", mock.MatchedBy(func(u domain.OrderStatusUpdate) bool {
		return u.Status != nil && *u.Status == domain.OrderStatus("delivered") && u.PaymentStatus == nil
	})).Return(domain.Order{ID: "o1", Status: domain.OrderStatus("delivered")}, nil)

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/v1/orders/o1/status", strings.NewReader(`{"status":"delivered"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"delivered"`)
}

func TestUpdateOrderStatusHandler_UnknownField(t *testing.T) {
	svc := new(MockOrderService)

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/v1/orders/o1/status", strings.NewReader(`{"state":"delivered"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteOrderHandler_NotFound(t *testing.T) {
	svc := new(MockOrderService)
	svc.On("DeleteOrder", mock.Anything, "o404").Return(apperror.NewNotFoundError("Pedido"))

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/orders/o404", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
