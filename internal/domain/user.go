package domain

import "time"

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleUser    UserRole = "user"
	RoleGuest   UserRole = "guest"
)

// Role descreve um papel e as permissões que ele concede.
type Role struct {
	Name        UserRole `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

var roleCatalog = []Role{
	{
		Name:        RoleAdmin,
		Description: "Acesso total, incluindo gestão de usuários e exclusões.",
		Permissions: []string{"*:read", "*:write", "*:delete", "users:manage"},
	},
	{
		Name:        RoleManager,
		Description: "Gerencia armazéns, produtos, estoque, clientes e pedidos.",
		Permissions: []string{"*:read", "*:write", "orders:delete", "customers:delete", "products:delete"},
	},
	{
		Name:        RoleUser,
		Description: "Consulta os cadastros e o painel.",
		Permissions: []string{"*:read"},
	},
	{
		Name:        RoleGuest,
		Description: "Acesso somente ao painel.",
		Permissions: []string{"dashboard:read"},
	},
}

// Roles retorna o catálogo estático de papéis.
func Roles() []Role {
	out := make([]Role, len(roleCatalog))
	copy(out, roleCatalog)
	return out
}

// IsValid indica se o papel pertence ao catálogo.
func (r UserRole) IsValid() bool {
	for _, role := range roleCatalog {
		if role.Name == r {
			return true
		}
	}
	return false
}

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UserUpdate é o payload de atualização administrativa de um usuário.
type UserUpdate struct {
	Name     string   `json:"name" validate:"required,min=2,max=100"`
	Role     UserRole `json:"role" validate:"required,oneof=admin manager user guest"`
	IsActive bool     `json:"is_active"`
}

// UserFilter define os filtros da listagem de usuários.
type UserFilter struct {
	ListParams
	Role UserRole
}

// TokenPair é a resposta de login e refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user,omitempty"`
}

// LoginRequest é o payload de autenticação.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carrega o refresh token usado em /auth/refresh e /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
