package sessionrepo_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperror "warehub/internal/errors"
	"warehub/internal/pkg/cache"
	"warehub/internal/pkg/logger"
	"warehub/internal/repository/sessionrepo"
)

func TestConsume_IsSingleUse(t *testing.T) {
	repo := sessionrepo.NewSessionRepository(cache.NewMemoryClient(), time.Second, logger.NewLoggerWithWriter("error", io.Discard))
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, "jti-1", "u1", time.Hour))

	userID, err := repo.Consume(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	_, err = repo.Consume(ctx, "jti-1")
	var unauthorized *apperror.UnauthorizedError
	assert.True(t, errors.As(err, &unauthorized))
}

func TestRevoke(t *testing.T) {
	repo := sessionrepo.NewSessionRepository(cache.NewMemoryClient(), time.Second, logger.NewLoggerWithWriter("error", io.Discard))
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, "jti-2", "u1", time.Hour))
	require.NoError(t, repo.Revoke(ctx, "jti-2"))
	require.NoError(t, repo.Revoke(ctx, "never-issued"))

	_, err := repo.Consume(ctx, "jti-2")
	assert.Error(t, err)
}

// slowReads atrasa o Get simples, abrindo a janela entre ler e apagar a chave.
type slowReads struct {
	*cache.MemoryClient
}

func (s slowReads) Get(ctx context.Context, key string) (string, error) {
	v, err := s.MemoryClient.Get(ctx, key)
	time.Sleep(20 * time.Millisecond)
	return v, err
}

func TestConsume_ConcurrentRefreshesOnlyOneWins(t *testing.T) {
	repo := sessionrepo.NewSessionRepository(slowReads{cache.NewMemoryClient()}, time.Second, logger.NewLoggerWithWriter("error", io.Discard))
	ctx := context.Background()
	require.NoError(t, repo.Store(ctx, "jti-3", "u1", time.Hour))

	const workers = 16
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		wins  int
		start = make(chan struct{})
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := repo.Consume(ctx, "jti-3"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, wins)
}
