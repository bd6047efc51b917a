package customer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"warehub/internal/api/customer"
	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerService) GetCustomerByID(ctx context.Context, id string) (domain.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, filter domain.CustomerFilter) (domain.Page[domain.Customer], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.Page[domain.Customer]), args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, id string, c domain.Customer) (domain.Customer, error) {
	args := m.Called(ctx, id, c)
	return args.Get(0).(domain.Customer), args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newMux(svc *MockCustomerService) *http.ServeMux {
	h := customer.NewHandler(svc, logger.NewLogger("debug"))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/customers", h.CreateCustomerHandler)
	mux.HandleFunc("GET /v1/customers", h.ListCustomersHandler)
	mux.HandleFunc("GET /v1/customers/{id}", h.GetCustomerByIDHandler)
	mux.HandleFunc("PUT /v1/customers/{id}", h.UpdateCustomerHandler)
	mux.HandleFunc("DELETE /v1/customers/{id}", h.DeleteCustomerHandler)
	return mux
}

func TestCreateCustomerHandler_DuplicateEmail(t *testing.T) {
	svc := new(MockCustomerService)
	svc.On("CreateCustomer", mock.Anything, mock.Anything).Return(domain.Customer{}, apperror.NewConflictError("email em uso"))

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/customers",
		strings.NewReader(`{"name":"Ravi","email":"ravi@x.in","phone":"+919800000000"}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListCustomersHandler_SegmentFilter(t *testing.T) {
	svc := new(MockCustomerService)
	svc.On("ListCustomers", mock.Anything, mock.MatchedBy(func(f domain.CustomerFilter) bool {
		return f.Segment == domain.SegmentPremium
	})).Return(domain.NewPage([]domain.Customer{{ID: "c1"}}, domain.ListParams{Page: 1, Limit: 10}, 1), nil)

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/customers?segment=premium", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDeleteCustomerHandler_HasOrders(t *testing.T) {
	svc := new(MockCustomerService)
	svc.On("DeleteCustomer", mock.Anything, "c1").Return(apperror.NewConflictError("O cliente possui pedidos e não pode ser removido."))

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/customers/c1", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "possui pedidos")
}
