package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus é o estado logístico de um pedido. Qualquer valor válido pode ser
// atribuído a qualquer momento; não há máquina de transições.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderReturned   OrderStatus = "returned"
)

// PaymentStatus é o estado financeiro de um pedido.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order é um pedido de cliente com itens e totais calculados no servidor.
type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"order_number"`
	CustomerID      string          `json:"customer_id"`
	WarehouseID     *string         `json:"warehouse_id,omitempty"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	ShippingAddress *Address        `json:"shipping_address,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem é uma linha do pedido. SKU, ProductName e UnitPrice são copiados do
// produto no momento da criação.
type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CreateOrderRequest é o payload de criação de pedido.
type CreateOrderRequest struct {
	CustomerID      string             `json:"customer_id" validate:"required,uuid"`
	WarehouseID     *string            `json:"warehouse_id,omitempty" validate:"omitempty,uuid"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
	PaymentMethod   string             `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card upi netbanking cod"`
	PaymentStatus   PaymentStatus      `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid failed refunded"`
	ShippingAddress *Address           `json:"shipping_address,omitempty" validate:"omitempty"`
	Notes           string             `json:"notes,omitempty" validate:"max=1000"`
}

// OrderItemRequest é uma linha do payload de criação.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=10000"`
}

// UpdateOrderRequest substitui os campos editáveis de um pedido. Itens e totais são imutáveis.
type UpdateOrderRequest struct {
	Status          OrderStatus   `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled returned"`
	PaymentStatus   PaymentStatus `json:"payment_status" validate:"required,oneof=pending paid failed refunded"`
	PaymentMethod   string        `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card upi netbanking cod"`
	ShippingAddress *Address      `json:"shipping_address,omitempty" validate:"omitempty"`
	Notes           string        `json:"notes,omitempty" validate:"max=1000"`
}

// OrderStatusUpdate altera apenas os status do pedido (PATCH). Ao menos um deve ser informado.
type OrderStatusUpdate struct {
	Status        *OrderStatus   `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed processing shipped delivered cancelled returned"`
	PaymentStatus *PaymentStatus `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid failed refunded"`
}

// OrderFilter define os filtros da listagem de pedidos.
type OrderFilter struct {
	ListParams
	Status        OrderStatus
	PaymentStatus PaymentStatus
	CustomerID    string
}

// Pricing contém as regras de cálculo dos totais do pedido.
type Pricing struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// ApplyTotals calcula line_total, subtotal, tax, shipping e total do pedido.
func (p Pricing) ApplyTotals(o *Order) {
	subtotal := decimal.Zero
	for i := range o.Items {
		item := &o.Items[i]
		item.LineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		subtotal = subtotal.Add(item.LineTotal)
	}

	o.Subtotal = subtotal
	o.Tax = subtotal.Mul(p.TaxRate).Round(2)
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		o.ShippingCost = decimal.Zero
	} else {
		o.ShippingCost = p.ShippingFee.Round(2)
	}
	o.Total = o.Subtotal.Add(o.Tax).Add(o.ShippingCost)
}
