package user

import (
	"context"
	"net/http"

	"warehub/internal/api/response"
	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
	"warehub/internal/pkg/middleware"
)

// UserService define o contrato para autenticação e gestão de usuários.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email string, password string) (domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	ListUsers(ctx context.Context, filter domain.UserFilter) (domain.Page[domain.User], error)
	UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) (domain.User, error)
	DeleteUser(ctx context.Context, actorID, id string) error
	Roles() []domain.Role
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// RegisterUserHandler lida com a requisição POST /v1/auth/register.
// @Summary Registra um novo usuário
// @Description Cria um novo usuário com a role "user", hasheia a senha e salva no banco de dados.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Nome, email e senha"
// @Success 201 {object} domain.User "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido (JSON malformado ou campos obrigatórios ausentes)"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /auth/register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := response.Decode(w, r, &reg); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	// O PasswordHash não é serializado (json:"-").
	newUser, err := h.Service.Register(r.Context(), reg)
	response.Handle(w, r, h.Logger, newUser, err, http.StatusCreated)
}

// LoginUserHandler lida com a requisição POST /v1/auth/login.
// @Summary Autentica um usuário e retorna o par de tokens
// @Description Recebe email/senha, verifica a validade e emite access e refresh tokens.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body domain.LoginRequest true "Credenciais do usuário (email e senha)"
// @Success 200 {object} domain.TokenPair "Tokens emitidos"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /auth/login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var loginReq domain.LoginRequest
	if err := response.Decode(w, r, &loginReq); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	pair, err := h.Service.Login(r.Context(), loginReq.Email, loginReq.Password)
	response.Handle(w, r, h.Logger, pair, err, http.StatusOK)
}

// RefreshTokenHandler lida com a requisição POST /v1/auth/refresh.
// @Summary Troca o refresh token por um novo par
// @Description O refresh token é de uso único. Reutilizá-lo retorna 401.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body domain.RefreshRequest true "Refresh token"
// @Success 200 {object} domain.TokenPair
// @Failure 401 {object} domain.ErrorResponse "Refresh token inválido, expirado ou já usado"
// @Router /auth/refresh [post]
func (h *Handler) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	if req.RefreshToken == "" {
		response.Error(w, r, h.Logger, apperror.NewFieldValidationError("Refresh token obrigatório.",
			apperror.FieldError{Field: "refresh_token", Message: "é obrigatório"}))
		return
	}

	pair, err := h.Service.Refresh(r.Context(), req.RefreshToken)
	response.Handle(w, r, h.Logger, pair, err, http.StatusOK)
}

// LogoutHandler lida com a requisição POST /v1/auth/logout.
// @Summary Revoga o refresh token
// @Tags auth
// @Accept json
// @Param refresh body domain.RefreshRequest true "Refresh token"
// @Success 204 "Sessão encerrada"
// @Failure 401 {object} domain.ErrorResponse "Refresh token inválido"
// @Router /auth/logout [post]
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	err := h.Service.Logout(r.Context(), req.RefreshToken)
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}

// MeHandler lida com a requisição GET /v1/auth/me.
// @Summary Retorna o usuário autenticado
// @Tags auth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Autorização necessária."))
		return
	}

	u, err := h.Service.GetUserByID(r.Context(), claims.UserID)
	response.Handle(w, r, h.Logger, u, err, http.StatusOK)
}

// ListUsersHandler lida com a requisição GET /v1/users.
// @Summary Lista usuários
// @Tags users
// @Produce json
// @Param page query int false "Página" default(1)
// @Param limit query int false "Itens por página (máx. 100)" default(10)
// @Param search query string false "Busca por nome ou email"
// @Param sortBy query string false "name, email, role, created_at"
// @Param order query string false "asc ou desc" default(desc)
// @Param role query string false "admin, manager, user ou guest"
// @Success 200 {object} domain.Page[domain.User]
// @Failure 403 {object} domain.ErrorResponse "Apenas administradores"
// @Security ApiKeyAuth
// @Router /users [get]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	filter := domain.UserFilter{
		ListParams: response.ListParams(r),
		Role:       domain.UserRole(r.URL.Query().Get("role")),
	}
	page, err := h.Service.ListUsers(r.Context(), filter)
	response.Handle(w, r, h.Logger, page, err, http.StatusOK)
}

// GetUserByIDHandler lida com a requisição GET /v1/users/{id}.
// @Summary Obtém um usuário por ID
// @Tags users
// @Produce json
// @Param id path string true "ID do Usuário"
// @Success 200 {object} domain.User
// @Failure 404 {object} domain.ErrorResponse "Usuário não encontrado"
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (h *Handler) GetUserByIDHandler(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.GetUserByID(r.Context(), r.PathValue("id"))
	response.Handle(w, r, h.Logger, u, err, http.StatusOK)
}

// UpdateUserHandler lida com a requisição PUT /v1/users/{id}.
// @Summary Altera nome, role e status de um usuário
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "ID do Usuário"
// @Param user body domain.UserUpdate true "Novos dados"
// @Success 200 {object} domain.User
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Usuário não encontrado"
// @Security ApiKeyAuth
// @Router /users/{id} [put]
func (h *Handler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	var upd domain.UserUpdate
	if err := response.Decode(w, r, &upd); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	u, err := h.Service.UpdateUser(r.Context(), r.PathValue("id"), upd)
	response.Handle(w, r, h.Logger, u, err, http.StatusOK)
}

// DeleteUserHandler lida com a requisição DELETE /v1/users/{id}.
// @Summary Remove um usuário
// @Description Um administrador não pode remover a própria conta.
// @Tags users
// @Param id path string true "ID do Usuário"
// @Success 204 "Removido"
// @Failure 409 {object} domain.ErrorResponse "Tentativa de remover a própria conta"
// @Security ApiKeyAuth
// @Router /users/{id} [delete]
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Autorização necessária."))
		return
	}

	err := h.Service.DeleteUser(r.Context(), claims.UserID, r.PathValue("id"))
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}

// ListRolesHandler lida com a requisição GET /v1/roles.
// @Summary Lista os papéis e suas permissões
// @Tags users
// @Produce json
// @Success 200 {array} domain.Role
// @Security ApiKeyAuth
// @Router /roles [get]
func (h *Handler) ListRolesHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, h.Logger, http.StatusOK, h.Service.Roles())
}
