package warehouseservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
	"warehub/internal/pkg/validation"
	"warehub/internal/service/warehouseservice"
)

// MockWarehouseRepository é uma implementação mock da interface WarehouseRepository
type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) Create(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	args := m.Called(ctx, warehouse)
	if fn, ok := args.Get(0).(func(context.Context, domain.Warehouse) domain.Warehouse); ok {
		return fn(ctx, warehouse), args.Error(1)
	}
	return args.Get(0).(domain.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindByID(ctx context.Context, id string) (domain.Warehouse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) List(ctx context.Context, filter domain.WarehouseFilter) ([]domain.Warehouse, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Warehouse), args.Int(1), args.Error(2)
}

func (m *MockWarehouseRepository) Update(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	args := m.Called(ctx, warehouse)
	if fn, ok := args.Get(0).(func(context.Context, domain.Warehouse) domain.Warehouse); ok {
		return fn(ctx, warehouse), args.Error(1)
	}
	return args.Get(0).(domain.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(repo *MockWarehouseRepository) *warehouseservice.Service {
	return warehouseservice.NewService(repo, validation.New(), logger.NewLogger("debug"))
}

func validWarehouse() domain.Warehouse {
	return domain.Warehouse{
		Name:     "Armazém Central",
		Code:     "wh-blr-01",
		Address:  domain.Address{Street: "MG Road 1", City: "Bengaluru", State: "Karnataka", Pincode: "560001"},
		Capacity: 1000,
		Occupied: 250,
	}
}

// --- Testes para CreateWarehouse ---

func TestCreateWarehouse_Success(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(w domain.Warehouse) bool {
		_, err := uuid.Parse(w.ID)
		return err == nil && w.Code == "WH-BLR-01" && w.Status == domain.WarehouseActive && w.Address.Country == "India"
	})).Return(func(_ context.Context, w domain.Warehouse) domain.Warehouse { return w }, nil)

	result, err := svc.CreateWarehouse(context.Background(), validWarehouse())

	require.NoError(t, err)
	assert.Equal(t, "WH-BLR-01", result.Code)
	assert.False(t, result.CreatedAt.IsZero())
	mockRepo.AssertExpectations(t)
}

func TestCreateWarehouse_Fail_OccupiedAboveCapacity(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	w := validWarehouse()
	w.Occupied = 1001

	_, err := svc.CreateWarehouse(context.Background(), w)

	require.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	fields := apperror.FieldsOf(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "occupied", fields[0].Field)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateWarehouse_Fail_InvalidCode(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	w := validWarehouse()
	w.Code = "wh 01"

	_, err := svc.CreateWarehouse(context.Background(), w)

	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateWarehouse_Fail_InvalidPincode(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	w := validWarehouse()
	w.Address.Pincode = "012345"

	_, err := svc.CreateWarehouse(context.Background(), w)

	require.Error(t, err)
	assert.Equal(t, "address.pincode", apperror.FieldsOf(err)[0].Field)
}

func TestCreateWarehouse_Fail_DuplicateCode(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(domain.Warehouse{}, apperror.NewConflictError("Já existe um armazém com o código WH-BLR-01."))

	_, err := svc.CreateWarehouse(context.Background(), validWarehouse())

	var conflict *apperror.ConflictError
	assert.True(t, errors.As(err, &conflict))
	mockRepo.AssertExpectations(t)
}

// --- Testes para GetWarehouseByID ---

func TestGetWarehouseByID_Success(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).Return(domain.Warehouse{ID: id, Name: "Armazém Gamma"}, nil)

	result, err := svc.GetWarehouseByID(context.Background(), id)

	assert.NoError(t, err)
	assert.Equal(t, id, result.ID)
	mockRepo.AssertExpectations(t)
}

func TestGetWarehouseByID_Fail_InvalidID(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	_, err := svc.GetWarehouseByID(context.Background(), "invalid-uuid")

	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "UUID válido")
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetWarehouseByID_Fail_NotFound(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).Return(domain.Warehouse{}, apperror.NewNotFoundError("Armazém não encontrado."))

	_, err := svc.GetWarehouseByID(context.Background(), id)

	assert.IsType(t, &apperror.NotFoundError{}, err)
}

// --- Testes para ListWarehouses ---

func TestListWarehouses_AppliesPagination(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(f domain.WarehouseFilter) bool {
		return f.Page == 1 && f.Limit == domain.MaxLimit && f.Order == domain.SortDesc
	})).Return([]domain.Warehouse{{Name: "A"}, {Name: "B"}}, 250, nil)

	page, err := svc.ListWarehouses(context.Background(), domain.WarehouseFilter{ListParams: domain.ListParams{Limit: 1000}})

	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	mockRepo.AssertExpectations(t)
}

func TestListWarehouses_Fail_InvalidStatus(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	_, err := svc.ListWarehouses(context.Background(), domain.WarehouseFilter{Status: "closed"})

	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

// --- Testes para UpdateWarehouse ---

func TestUpdateWarehouse_Success(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	id := uuid.New().String()
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(w domain.Warehouse) bool {
		return w.ID == id && !w.UpdatedAt.IsZero()
	})).Return(func(_ context.Context, w domain.Warehouse) domain.Warehouse { return w }, nil)

	result, err := svc.UpdateWarehouse(context.Background(), id, validWarehouse())

	assert.NoError(t, err)
	assert.Equal(t, id, result.ID)
	mockRepo.AssertExpectations(t)
}

func TestUpdateWarehouse_Fail_RepoError(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	repoError := apperror.NewDBError("failed to update", errors.New("connection reset"))
	mockRepo.On("Update", mock.Anything, mock.Anything).Return(domain.Warehouse{}, repoError)

	_, err := svc.UpdateWarehouse(context.Background(), uuid.New().String(), validWarehouse())

	assert.IsType(t, &apperror.InternalError{}, err)
}

// --- Testes para DeleteWarehouse ---

func TestDeleteWarehouse_Success(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	id := uuid.New().String()
	mockRepo.On("Delete", mock.Anything, id).Return(nil)

	assert.NoError(t, svc.DeleteWarehouse(context.Background(), id))
	mockRepo.AssertExpectations(t)
}

func TestDeleteWarehouse_Fail_HasStock(t *testing.T) {
	mockRepo := new(MockWarehouseRepository)
	svc := newTestService(mockRepo)

	id := uuid.New().String()
	mockRepo.On("Delete", mock.Anything, id).Return(apperror.NewConflictError("Armazém possui estoque."))

	err := svc.DeleteWarehouse(context.Background(), id)

	assert.IsType(t, &apperror.ConflictError{}, err)
}
