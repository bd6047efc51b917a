package domain

import (
	"math"
	"strings"
)

// Address é o endereço postal usado por armazéns, clientes e pedidos.
type Address struct {
	Street  string `json:"street" validate:"required,max=200"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"required,max=100"`
	Pincode string `json:"pincode" validate:"required,pincode"`
	Country string `json:"country" validate:"max=100"`
}

// Normalize remove espaços e aplica o país padrão.
func (a *Address) Normalize() {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Pincode = strings.TrimSpace(a.Pincode)
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = "India"
	}
}

// Limites de paginação aplicados a todas as listagens.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage mantém (Page-1)*Limit dentro de um OFFSET de 32 bits.
	MaxPage      = math.MaxInt32 / MaxLimit
)

// SortOrder é a direção de ordenação de uma listagem.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListParams reúne os parâmetros de busca e paginação comuns a todas as listagens
// (query params page, limit, search, sortBy, order).
type ListParams struct {
	Page   int
	Limit  int
	Search string
	SortBy string
	Order  SortOrder
}

// Normalize aplica os valores padrão e os limites de paginação.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	p.Search = strings.TrimSpace(p.Search)
	switch SortOrder(strings.ToLower(string(p.Order))) {
	case SortAsc:
		p.Order = SortAsc
	default:
		p.Order = SortDesc
	}
}

// Offset retorna o deslocamento SQL correspondente à página atual.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination descreve a página retornada ao cliente.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page é o envelope padrão das listagens paginadas.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPage monta o envelope de paginação a partir dos itens e do total de registros.
func NewPage[T any](items []T, params ListParams, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}
	return Page[T]{
		Data: items,
		Pagination: Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
