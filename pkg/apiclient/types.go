package apiclient

import (
	"warehub/internal/domain"
	apperror "warehub/internal/errors"
)

// Tipos de requisição e resposta da API, reexportados para quem usa o cliente fora deste módulo.
type (
	Address       = domain.Address
	Pagination    = domain.Pagination
	Page[T any]   = domain.Page[T]
	FieldError    = apperror.FieldError
	ErrorResponse = domain.ErrorResponse

	Warehouse       = domain.Warehouse
	WarehouseStatus = domain.WarehouseStatus

	Product                = domain.Product
	StockLevel             = domain.StockLevel
	StockAdjustmentRequest = domain.StockAdjustmentRequest

	Customer        = domain.Customer
	CustomerSegment = domain.CustomerSegment

	Order              = domain.Order
	OrderItem          = domain.OrderItem
	OrderStatus        = domain.OrderStatus
	PaymentStatus      = domain.PaymentStatus
	CreateOrderRequest = domain.CreateOrderRequest
	OrderItemRequest   = domain.OrderItemRequest
	UpdateOrderRequest = domain.UpdateOrderRequest
	OrderStatusUpdate  = domain.OrderStatusUpdate

	User             = domain.User
	UserRole         = domain.UserRole
	UserRegistration = domain.UserRegistration
	TokenPair        = domain.TokenPair

	DashboardStats = domain.DashboardStats
	WarehouseStats = domain.WarehouseStats
	OrderStats     = domain.OrderStats
	CustomerStats  = domain.CustomerStats
	ProductStats   = domain.ProductStats
	SalesPoint     = domain.SalesPoint
)

const (
	WarehouseActive      = domain.WarehouseActive
	WarehouseInactive    = domain.WarehouseInactive
	WarehouseMaintenance = domain.WarehouseMaintenance

	SegmentPremium = domain.SegmentPremium
	SegmentRegular = domain.SegmentRegular
	SegmentNew     = domain.SegmentNew

	OrderPending    = domain.OrderPending
	OrderConfirmed  = domain.OrderConfirmed
	OrderProcessing = domain.OrderProcessing
	OrderShipped    = domain.OrderShipped
	OrderDelivered  = domain.OrderDelivered
	OrderCancelled  = domain.OrderCancelled
	OrderReturned   = domain.OrderReturned

	PaymentPending  = domain.PaymentPending
	PaymentPaid     = domain.PaymentPaid
	PaymentFailed   = domain.PaymentFailed
	PaymentRefunded = domain.PaymentRefunded
)
