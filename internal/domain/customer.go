package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CustomerSegment classifica clientes para fins comerciais.
type CustomerSegment string

const (
	SegmentPremium CustomerSegment = "premium"
	SegmentRegular CustomerSegment = "regular"
	SegmentNew     CustomerSegment = "new"
)

// Customer representa um cliente. TotalOrders, TotalRevenue e LastOrderAt são
// mantidos pelo backend ao registrar pedidos e não podem ser alterados pela API.
type Customer struct {
	ID           string          `json:"id"`
	Name         string          `json:"name" validate:"required,min=2,max=100"`
	Email        string          `json:"email" validate:"required,email,max=255"`
	Phone        string          `json:"phone" validate:"required,phone"`
	Company      string          `json:"company,omitempty" validate:"max=150"`
	Address      *Address        `json:"address,omitempty" validate:"omitempty"`
	Segment      CustomerSegment `json:"segment" validate:"required,oneof=premium regular new"`
	TotalOrders  int             `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	LastOrderAt  *time.Time      `json:"last_order_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Normalize aplica as convenções de formato antes da validação.
func (c *Customer) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Company = strings.TrimSpace(c.Company)
	if c.Segment == "" {
		c.Segment = SegmentNew
	}
	if c.Address != nil {
		c.Address.Normalize()
	}
}

// CustomerFilter define os filtros da listagem de clientes.
type CustomerFilter struct {
	ListParams
	Segment CustomerSegment
}
