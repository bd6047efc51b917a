package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats agrega os números exibidos na página inicial.
type DashboardStats struct {
	Warehouses  WarehouseStats `json:"warehouses"`
	Orders      OrderStats     `json:"orders"`
	Customers   CustomerStats  `json:"customers"`
	Products    ProductStats   `json:"products"`
	GeneratedAt time.Time      `json:"generated_at"`
}

type WarehouseStats struct {
	Total       int     `json:"total"`
	Active      int     `json:"active"`
	Capacity    int64   `json:"capacity"`
	Occupied    int64   `json:"occupied"`
	Utilization float64 `json:"utilization"`
}

type OrderStats struct {
	Total   int             `json:"total"`
	Pending int             `json:"pending"`
	Revenue decimal.Decimal `json:"revenue"`
}

type CustomerStats struct {
	Total     int                     `json:"total"`
	BySegment map[CustomerSegment]int `json:"by_segment"`
}

type ProductStats struct {
	Total    int `json:"total"`
	LowStock int `json:"low_stock"`
}

// SalesPoint é a receita de um dia na série de vendas.
type SalesPoint struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}
