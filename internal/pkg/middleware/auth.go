package middleware

import (
	"context"
	"net/http"
	"strings"

	"warehub/internal/api/response"
	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
	"warehub/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote (não exportado em valores, único em tipo).
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário extraídos do token JWT,
// que serão anexados ao contexto.
type UserClaims struct {
	UserID string
	Role   domain.UserRole
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// UserLookup permite recusar tokens de usuários desativados ou removidos após a emissão.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

// Auth agrupa os middlewares de autenticação (AuthN) e permissão (AuthZ).
type Auth struct {
	tokens TokenService
	users  UserLookup
	log    logger.Logger
}

// NewAuth cria o middleware de autenticação. users pode ser nil para pular a verificação de conta ativa.
func NewAuth(tokens TokenService, users UserLookup, log logger.Logger) *Auth {
	return &Auth{tokens: tokens, users: users, log: log}
}

// Authenticate valida o JWT (Authorization: Bearer <token>) e anexa as claims ao contexto.
func (a *Auth) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			response.Error(w, r, a.log, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado."))
			return
		}

		claims, err := a.tokens.ValidateToken(strings.TrimSpace(authHeader[7:]))
		if err != nil {
			response.Error(w, r, a.log, apperror.NewUnauthorizedError("Token inválido ou expirado."))
			return
		}

		userClaims := UserClaims{
			UserID: claims.UserID,
			Role:   domain.UserRole(claims.Role),
		}

		if a.users != nil {
			user, err := a.users.GetUserByID(r.Context(), claims.UserID)
			if err != nil || !user.IsActive {
				response.Error(w, r, a.log, apperror.NewUnauthorizedError("Conta inexistente ou desativada."))
				return
			}
			// A role atual do banco prevalece sobre a role gravada no token.
			userClaims.Role = user.Role
		}

		ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireRoles permite o acesso apenas às roles informadas. Deve ser aplicado após Authenticate.
func (a *Auth) RequireRoles(requiredRoles ...domain.UserRole) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, r, a.log, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Error(w, r, a.log, apperror.NewForbiddenError("Você não tem a permissão necessária."))
		}
	}
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// WithUserClaims anexa claims ao contexto (usado em testes de handlers).
func WithUserClaims(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}
