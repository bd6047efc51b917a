package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa o item principal do catálogo (a Entidade).
type Product struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku" validate:"required,min=3,max=64"` // Stock Keeping Unit (código único de produto)
	Name         string          `json:"name" validate:"required,min=2,max=200"`
	Description  string          `json:"description" validate:"max=2000"`
	Category     string          `json:"category" validate:"max=100"`
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	Stock        int             `json:"stock" validate:"gte=0"`
	ReorderLevel int             `json:"reorder_level" validate:"gte=0"`
	Unit         string          `json:"unit" validate:"max=20"`
	IsActive     bool            `json:"is_active"`
	IsLowStock   bool            `json:"is_low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Normalize aplica as convenções de formato antes da validação.
func (p *Product) Normalize() {
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Unit == "" {
		p.Unit = "pcs"
	}
}

// ComputeLowStock marca o produto quando o estoque atinge o nível de reposição.
func (p *Product) ComputeLowStock() {
	p.IsLowStock = p.Stock <= p.ReorderLevel
}

// ProductFilter define os parâmetros de busca e paginação de produtos.
type ProductFilter struct {
	ListParams
	Category     string
	LowStockOnly bool
	ActiveOnly   bool
}

// StockLevel representa o nível de estoque de um produto específico em um armazém.
// Inclui uma coluna 'version' para controle de concorrência otimista.
type StockLevel struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int       `json:"quantity"`
	Version     int       `json:"version"` // Para Controle de Concorrência Otimista (OCC)
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockAdjustmentRequest é o payload esperado para a requisição de ajuste de estoque.
type StockAdjustmentRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Delta       int    `json:"delta" validate:"required"` // Quantidade a ser adicionada/removida
	Reason      string `json:"reason,omitempty" validate:"max=200"`
}

// StockFilter filtra a consulta de níveis de estoque.
type StockFilter struct {
	ProductID   string
	WarehouseID string
}
