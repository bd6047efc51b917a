// Package sessionrepo guarda os refresh tokens emitidos (pelo JTI) no cache,
// permitindo rotação e revogação.
package sessionrepo

import (
	"context"
	"fmt"
	"time"

	"warehub/internal/errors"
	"warehub/internal/pkg/cache"
	"warehub/internal/pkg/logger"
)

const refreshKey = "refresh:%s"

// SessionRepository implementa o armazenamento de refresh tokens.
type SessionRepository struct {
	Cache   cache.Client
	Timeout time.Duration
	logger  logger.Logger
}

// NewSessionRepository cria o repositório de sessões sobre o cliente de cache.
func NewSessionRepository(c cache.Client, timeout time.Duration, logger logger.Logger) *SessionRepository {
	return &SessionRepository{Cache: c, Timeout: timeout, logger: logger}
}

// Store registra o JTI de um refresh token válido por ttl.
func (r *SessionRepository) Store(ctx context.Context, jti, userID string, ttl time.Duration) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	if err := r.Cache.Set(ctxTimeout, fmt.Sprintf(refreshKey, jti), userID, ttl); err != nil {
		r.logger.Error("Falha ao registrar refresh token.", err)
		return errors.NewInternalError("Falha ao registrar sessão.", err)
	}
	return nil
}

// Consume valida e remove o JTI (uso único). Retorna o usuário dono da sessão.
func (r *SessionRepository) Consume(ctx context.Context, jti string) (string, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	// GETDEL: de duas renovações simultâneas com o mesmo token, só uma encontra o JTI.
	userID, err := r.Cache.GetDel(ctxTimeout, fmt.Sprintf(refreshKey, jti))
	if err == cache.ErrCacheMiss {
		return "", errors.NewUnauthorizedError("Sessão expirada ou revogada.")
	}
	if err != nil {
		r.logger.Error("Falha ao consumir refresh token.", err)
		return "", errors.NewInternalError("Falha ao consultar sessão.", err)
	}
	return userID, nil
}

// Revoke remove o JTI. Revogar uma sessão inexistente não é erro.
func (r *SessionRepository) Revoke(ctx context.Context, jti string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	if err := r.Cache.Delete(ctxTimeout, fmt.Sprintf(refreshKey, jti)); err != nil {
		r.logger.Error("Falha ao revogar refresh token.", err)
		return errors.NewInternalError("Falha ao revogar sessão.", err)
	}
	return nil
}
