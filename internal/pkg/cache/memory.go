package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryClient é um Client em memória, usado em desenvolvimento quando o Redis
// está indisponível e nos testes. Não é compartilhado entre instâncias da API.
type MemoryClient struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	now  func() time.Time
}

// NewMemoryClient cria um cache em memória vazio.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{data: make(map[string]memoryEntry), now: time.Now}
}

// get deve ser chamado com o lock adquirido.
func (m *MemoryClient) get(key string) (string, bool) {
	e, ok := m.data[key]
	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.data, key)
		return "", false
	}
	return e.value, true
}

func (m *MemoryClient) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.get(key)
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (m *MemoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	default:
		s = fmt.Sprint(v)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: s}
	if expiration > 0 {
		e.expiresAt = m.now().Add(expiration)
	}
	m.data[key] = e
	return nil
}

func (m *MemoryClient) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *MemoryClient) GetDel(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.get(key)
	if !ok {
		return "", ErrCacheMiss
	}
	delete(m.data, key)
	return v, nil
}

// IncrWindow segue o INCR do Redis; o TTL da janela é definido no primeiro incremento.
func (m *MemoryClient) IncrWindow(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	e := m.data[key]
	if v, ok := m.get(key); ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("valor da chave %s não é inteiro", key)
		}
		n = parsed
	} else {
		e = memoryEntry{}
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	if e.expiresAt.IsZero() && window > 0 {
		e.expiresAt = m.now().Add(window)
	}
	m.data[key] = e
	return n, nil
}

func (m *MemoryClient) Ping(context.Context) error { return nil }
func (m *MemoryClient) Close() error               { return nil }
