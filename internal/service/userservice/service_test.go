package userservice_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/cache"
	"warehub/internal/pkg/logger"
	"warehub/internal/pkg/token"
	"warehub/internal/pkg/validation"
	"warehub/internal/repository/sessionrepo"
	"warehub/internal/service/userservice"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(domain.User) domain.User); ok {
		return fn(user), args.Error(1)
	}
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newService(repo *MockUserRepository) *userservice.UserService {
	log := logger.NewLoggerWithWriter("error", io.Discard)
	sessions := sessionrepo.NewSessionRepository(cache.NewMemoryClient(), time.Second, log)
	tokens := token.NewService("test-secret", 15*time.Minute, time.Hour)
	return userservice.NewService(repo, sessions, tokens, validation.New(), log)
}

func activeUser(t *testing.T, password string) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return domain.User{
		ID:           uuid.New().String(),
		Name:         "Ana",
		Email:        "ana@warehub.io",
		PasswordHash: string(hash),
		Role:         domain.RoleManager,
		IsActive:     true,
	}
}

func TestRegister_HashesPasswordAndForcesUserRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	repo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleUser && u.IsActive && u.Email == "novo@warehub.io" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("senha-forte")) == nil
	})).Return(func(u domain.User) domain.User { return u }, nil)

	user, err := svc.Register(context.Background(), domain.UserRegistration{
		Name: "Novo", Email: "Novo@Warehub.io", Password: "senha-forte",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	repo.AssertExpectations(t)
}

func TestRegister_Fail_ShortPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	_, err := svc.Register(context.Background(), domain.UserRegistration{Name: "Novo", Email: "n@warehub.io", Password: "1234567"})

	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Equal(t, "password", apperror.FieldsOf(err)[0].Field)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := activeUser(t, "correta123")

	repo.On("FindByEmail", mock.Anything, "ana@warehub.io").Return(user, nil)

	pair, err := svc.Login(context.Background(), " ANA@warehub.io", "correta123")

	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, user.ID, pair.User.ID)
}

func TestLogin_Fail_WrongPasswordOrUnknownEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	repo.On("FindByEmail", mock.Anything, "ana@warehub.io").Return(activeUser(t, "correta123"), nil)
	repo.On("FindByEmail", mock.Anything, "x@warehub.io").Return(domain.User{}, apperror.NewNotFoundError("não encontrado"))

	_, err := svc.Login(context.Background(), "ana@warehub.io", "errada")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)

	_, err = svc.Login(context.Background(), "x@warehub.io", "qualquer")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

func TestLogin_Fail_Inactive(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := activeUser(t, "correta123")
	user.IsActive = false

	repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	_, err := svc.Login(context.Background(), user.Email, "correta123")

	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

func TestRefresh_RotatesAndRejectsReuse(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := activeUser(t, "correta123")

	repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	first, err := svc.Login(context.Background(), user.Email, "correta123")
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

func TestRefresh_Fail_AccessTokenGiven(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := activeUser(t, "correta123")
	repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	pair, err := svc.Login(context.Background(), user.Email, "correta123")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)
	user := activeUser(t, "correta123")
	repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	pair, err := svc.Login(context.Background(), user.Email, "correta123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestListUsers_InvalidRole(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	_, err := svc.ListUsers(context.Background(), domain.UserFilter{Role: "root"})

	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestUpdateUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	id := uuid.New().String()
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.ID == id && u.Role == domain.RoleAdmin && !u.IsActive
	})).Return(domain.User{ID: id, Role: domain.RoleAdmin}, nil)

	_, err := svc.UpdateUser(context.Background(), id, domain.UserUpdate{Name: "Ana", Role: domain.RoleAdmin})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteUser_CannotDeleteSelf(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	id := uuid.New().String()
	err := svc.DeleteUser(context.Background(), id, id)

	assert.IsType(t, &apperror.ConflictError{}, err)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
