package dashboard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"warehub/internal/api/dashboard"
	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetStats(ctx context.Context) (domain.DashboardStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DashboardStats), args.Error(1)
}

func (m *MockDashboardService) LowStock(ctx context.Context, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockDashboardService) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockDashboardService) Sales(ctx context.Context, days int) ([]domain.SalesPoint, error) {
	args := m.Called(ctx, days)
	return args.Get(0).([]domain.SalesPoint), args.Error(1)
}

func TestStatsHandler(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("GetStats", mock.Anything).Return(domain.DashboardStats{
		Warehouses: domain.WarehouseStats{Total: 3, Active: 2, Utilization: 33.33},
		Orders:     domain.OrderStats{Total: 10, Revenue: decimal.RequireFromString("1500.50")},
	}, nil)

	rec := httptest.NewRecorder()
	dashboard.NewHandler(svc, logger.NewLogger("debug")).StatsHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"utilization":33.33`)
	assert.Contains(t, rec.Body.String(), `"revenue":"1500.5"`)
}

func TestLowStockHandler_PassesLimit(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("LowStock", mock.Anything, 5).Return([]domain.Product{{ID: "p1"}}, nil)

	rec := httptest.NewRecorder()
	dashboard.NewHandler(svc, logger.NewLogger("debug")).LowStockHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard/low-stock?limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestRecentOrdersHandler_DefaultLimit(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("RecentOrders", mock.Anything, 0).Return([]domain.Order{}, nil)

	rec := httptest.NewRecorder()
	dashboard.NewHandler(svc, logger.NewLogger("debug")).RecentOrdersHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard/recent-orders", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSalesHandler_OutOfRange(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("Sales", mock.Anything, 400).Return([]domain.SalesPoint(nil),
		apperror.NewFieldValidationError("Parâmetro inválido.", apperror.FieldError{Field: "days", Message: "deve estar entre 1 e 365"}))

	rec := httptest.NewRecorder()
	dashboard.NewHandler(svc, logger.NewLogger("debug")).SalesHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard/sales?days=400", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"days"`)
}
