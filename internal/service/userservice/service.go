package userservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
	"warehub/internal/pkg/token"
)

// UserRepository é o contrato de persistência de usuários.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id string) error
}

// SessionStore guarda os JTIs dos refresh tokens em uso.
type SessionStore interface {
	Store(ctx context.Context, jti, userID string, ttl time.Duration) error
	Consume(ctx context.Context, jti string) (string, error)
	Revoke(ctx context.Context, jti string) error
}

// TokenService é o contrato da camada de token (internal/pkg/token)
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
	GenerateRefreshToken(userID string) (string, string, error)
	ValidateRefreshToken(tokenString string) (*token.CustomClaims, error)
	AccessExpiry() time.Duration
	RefreshExpiry() time.Duration
}

// Validator valida as regras de formato declaradas nas tags do payload.
type Validator interface {
	Struct(s interface{}) error
}

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	UserRepo  UserRepository
	Sessions  SessionStore
	TokenSvc  TokenService
	validator Validator
	logger    logger.Logger
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(repo UserRepository, sessions SessionStore, tokenSvc TokenService, validator Validator, logger logger.Logger) *UserService {
	return &UserService{
		UserRepo:  repo,
		Sessions:  sessions,
		TokenSvc:  tokenSvc,
		validator: validator,
		logger:    logger,
	}
}

// Register registra um novo usuário no sistema com o papel "user".
// Ele faz o hashing da senha e lida com validações básicas.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	// 1. Validação
	registration.Name = strings.TrimSpace(registration.Name)
	registration.Email = strings.ToLower(strings.TrimSpace(registration.Email))
	if err := s.validator.Struct(registration); err != nil {
		return domain.User{}, err
	}

	// 2. Hashing da Senha
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	// 3. Criação do Objeto User
	now := time.Now().UTC()
	newUser := domain.User{
		ID:           uuid.New().String(),
		Name:         registration.Name,
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 4. Persistência (email duplicado vira ConflictError no repositório)
	user, err := s.UserRepo.Save(ctx, newUser)
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

// Login autentica um usuário, verifica a senha e gera o par de tokens.
func (s *UserService) Login(ctx context.Context, email string, password string) (domain.TokenPair, error) {
	// 1. Validação Básica
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.TokenPair{}, apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	// 2. Buscar Usuário pelo Email
	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		// NotFound vira Unauthorized para não revelar quais emails existem.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.TokenPair{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return domain.TokenPair{}, err
	}

	// 3. Comparar Senhas (Hashing)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Tentativa de login com senha incorreta.", map[string]interface{}{"user_id": user.ID})
		return domain.TokenPair{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}
	if !user.IsActive {
		return domain.TokenPair{}, apperror.NewUnauthorizedError("Usuário inativo.")
	}

	// 4. Gerar tokens
	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return domain.TokenPair{}, err
	}

	s.logger.Info("Login realizado.", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return pair, nil
}

// Refresh troca um refresh token válido por um novo par. O token usado é invalidado.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	claims, err := s.TokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return domain.TokenPair{}, apperror.NewUnauthorizedError("Refresh token inválido ou expirado.")
	}

	// Uso único: o JTI precisa existir e é removido aqui.
	owner, err := s.Sessions.Consume(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("Refresh token reutilizado ou revogado.", map[string]interface{}{"user_id": claims.UserID})
		return domain.TokenPair{}, err
	}
	if owner != claims.UserID {
		return domain.TokenPair{}, apperror.NewUnauthorizedError("Refresh token inválido.")
	}

	user, err := s.UserRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.TokenPair{}, apperror.NewUnauthorizedError("Usuário não existe mais.")
		}
		return domain.TokenPair{}, err
	}
	if !user.IsActive {
		return domain.TokenPair{}, apperror.NewUnauthorizedError("Usuário inativo.")
	}

	return s.issueTokens(ctx, user)
}

// Logout revoga o refresh token informado.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.TokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return apperror.NewUnauthorizedError("Refresh token inválido ou expirado.")
	}
	if err := s.Sessions.Revoke(ctx, claims.ID); err != nil {
		return err
	}
	s.logger.Info("Logout realizado.", map[string]interface{}{"user_id": claims.UserID})
	return nil
}

func (s *UserService) issueTokens(ctx context.Context, user domain.User) (domain.TokenPair, error) {
	access, err := s.TokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return domain.TokenPair{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}
	refresh, jti, err := s.TokenSvc.GenerateRefreshToken(user.ID)
	if err != nil {
		return domain.TokenPair{}, apperror.NewInternalError("Falha ao gerar refresh token.", err)
	}
	if err := s.Sessions.Store(ctx, jti, user.ID, s.TokenSvc.RefreshExpiry()); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.TokenSvc.AccessExpiry().Seconds()),
		User:         &user,
	}, nil
}

// GetUserByID busca um usuário. Usado por /auth/me e pelo middleware de autenticação.
func (s *UserService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.User{}, apperror.NewValidationError("O ID do usuário deve ser um UUID válido.")
	}
	return s.UserRepo.FindByID(ctx, id)
}

// ListUsers retorna a página de usuários.
func (s *UserService) ListUsers(ctx context.Context, filter domain.UserFilter) (domain.Page[domain.User], error) {
	filter.ListParams.Normalize()
	if filter.Role != "" && !filter.Role.IsValid() {
		return domain.Page[domain.User]{}, apperror.NewFieldValidationError("Filtro inválido.",
			apperror.FieldError{Field: "role", Message: "deve ser um de: admin, manager, user, guest"})
	}

	users, total, err := s.UserRepo.List(ctx, filter)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.NewPage(users, filter.ListParams, total), nil
}

// UpdateUser altera nome, papel e situação de um usuário.
func (s *UserService) UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) (domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.User{}, apperror.NewValidationError("O ID do usuário deve ser um UUID válido.")
	}
	upd.Name = strings.TrimSpace(upd.Name)
	if err := s.validator.Struct(upd); err != nil {
		return domain.User{}, err
	}

	updated, err := s.UserRepo.Update(ctx, domain.User{
		ID:        id,
		Name:      upd.Name,
		Role:      upd.Role,
		IsActive:  upd.IsActive,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário atualizado.", map[string]interface{}{"user_id": id, "role": updated.Role, "is_active": updated.IsActive})
	return updated, nil
}

// DeleteUser remove um usuário. Um administrador não pode remover a si mesmo.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do usuário deve ser um UUID válido.")
	}
	if actorID == id {
		return apperror.NewConflictError("Não é possível remover o próprio usuário.")
	}
	if err := s.UserRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Usuário removido.", map[string]interface{}{"user_id": id, "by": actorID})
	return nil
}

// Roles retorna o catálogo estático de papéis e permissões.
func (s *UserService) Roles() []domain.Role {
	return domain.Roles()
}
