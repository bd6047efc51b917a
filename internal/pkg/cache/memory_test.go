package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemoryClient()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "product:1", []byte(`{"id":"1"}`), time.Minute))
	v, err := m.Get(ctx, "product:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, v)

	now = now.Add(time.Minute)
	_, err = m.Get(ctx, "product:1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_IncrWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewMemoryClient()
	m.now = func() time.Time { return now }

	for want := int64(1); want <= 3; want++ {
		n, err := m.IncrWindow(ctx, "rate-limit:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
		now = now.Add(10 * time.Second)
	}

	// A janela conta a partir do primeiro incremento, não do último.
	now = now.Add(30 * time.Second)
	n, err := m.IncrWindow(ctx, "rate-limit:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryClient_GetDel(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryClient()
	require.NoError(t, m.Set(ctx, "refresh:abc", "u1", time.Hour))

	v, err := m.GetDel(ctx, "refresh:abc")
	require.NoError(t, err)
	assert.Equal(t, "u1", v)

	_, err = m.GetDel(ctx, "refresh:abc")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, m.Delete(ctx, "refresh:abc", "absent"))
}
