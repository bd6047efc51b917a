// Package apiclient é o cliente Go tipado da API WareHub.
//
// Requisições autenticadas que recebem 401 disparam uma única renovação via
// /v1/auth/refresh e são repetidas uma vez. Se a renovação falhar, os tokens
// são descartados e o 401 original é devolvido.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"warehub/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	apiPrefix      = "/v1"
)

// TokenStore guarda o par de tokens da sessão.
type TokenStore interface {
	Tokens() (access, refresh string)
	SetTokens(access, refresh string)
	Clear()
}

// MemoryTokenStore é um TokenStore seguro para uso concorrente.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func NewMemoryTokenStore() *MemoryTokenStore { return &MemoryTokenStore{} }

func (s *MemoryTokenStore) Tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.refresh
}

func (s *MemoryTokenStore) SetTokens(access, refresh string) {
	s.mu.Lock()
	s.access, s.refresh = access, refresh
	s.mu.Unlock()
}

func (s *MemoryTokenStore) Clear() { s.SetTokens("", "") }

// APIError é a resposta de erro padronizada da API.
type APIError struct {
	Status   int                   `json:"code"`
	Category string                `json:"category"`
	Message  string                `json:"message"`
	Errors   []FieldError `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("warehub: %d %s: %s", e.Status, e.Category, e.Message)
}

// IsStatus indica se err é um *APIError com o status informado.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Option configura o Client.
type Option func(*Client)

// WithHTTPClient substitui o http.Client padrão (instrumentado com otelhttp).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenStore define onde os tokens da sessão são guardados.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) {
		if ts != nil {
			c.tokens = ts
		}
	}
}

// Client fala com a API WareHub.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	refresh singleflight.Group
}

// New cria o cliente. baseURL é a raiz do servidor (ex.: http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens: NewMemoryTokenStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens expõe o armazenamento de tokens em uso.
func (c *Client) Tokens() TokenStore { return c.tokens }

// ListOptions são os parâmetros comuns das listagens. Filters carrega os filtros
// específicos de cada recurso (status, segment, category...).
type ListOptions struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	Order   string
	Filters map[string]string
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Search != "" {
		v.Set("search", o.Search)
	}
	if o.SortBy != "" {
		v.Set("sortBy", o.SortBy)
	}
	if o.Order != "" {
		v.Set("order", o.Order)
	}
	for k, val := range o.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, apiPrefix+"/auth/") && path != apiPrefix+"/auth/me"
}

// do executa a requisição e decodifica a resposta em out (quando não nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("warehub: codificar payload: %w", err)
		}
		payload = b
	}

	access, refresh := c.tokens.Tokens()
	resp, err := c.send(ctx, method, path, query, payload, access)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !isAuthPath(path) && refresh != "" {
		first := decodeError(resp)
		if rerr := c.renew(ctx, refresh); rerr != nil {
			c.tokens.Clear()
			return first
		}
		access, _ = c.tokens.Tokens()
		if resp, err = c.send(ctx, method, path, query, payload, access); err != nil {
			return err
		}
	}

	return decodeResponse(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, access string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("warehub: montar requisição: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" && !isAuthPath(path) {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("warehub: %s %s: %w", method, path, err)
	}
	return resp, nil
}

// renew troca o refresh token. Chamadas concorrentes com o mesmo token
// compartilham uma única renovação.
func (c *Client) renew(ctx context.Context, refresh string) error {
	_, err, _ := c.refresh.Do(refresh, func() (interface{}, error) {
		if _, current := c.tokens.Tokens(); current != refresh {
			// Outra goroutine já renovou.
			return nil, nil
		}
		payload, _ := json.Marshal(domain.RefreshRequest{RefreshToken: refresh})
		resp, err := c.send(ctx, http.MethodPost, apiPrefix+"/auth/refresh", nil, payload, "")
		if err != nil {
			return nil, err
		}
		var pair TokenPair
		if err := decodeResponse(resp, &pair); err != nil {
			return nil, err
		}
		c.tokens.SetTokens(pair.AccessToken, pair.RefreshToken)
		return nil, nil
	})
	return err
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("warehub: decodificar resposta: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	defer resp.Body.Close()
	apiErr := &APIError{}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	apiErr.Status = resp.StatusCode
	return apiErr
}
