package order

import (
	"context"
	"net/http"

	"warehub/internal/api/response"
	"warehub/internal/domain"
	"warehub/internal/pkg/logger"
)

// OrderService define o contrato que o Handler espera da camada de Serviço.
type OrderService interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	GetOrderByID(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) (domain.Page[domain.Order], error)
	UpdateOrder(ctx context.Context, id string, req domain.UpdateOrderRequest) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, upd domain.OrderStatusUpdate) (domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// Handler agrupa os handlers de pedidos.
type Handler struct {
	Service OrderService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc OrderService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateOrderHandler lida com a requisição POST /v1/orders.
// @Summary Cria um pedido
// @Description Preços são lidos dos produtos; subtotal, imposto, frete e total são calculados no servidor.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body domain.CreateOrderRequest true "Pedido"
// @Success 201 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse "Payload inválido, produto ou cliente inexistente"
// @Security ApiKeyAuth
// @Router /orders [post]
func (h *Handler) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateOrder(r.Context(), req)
	response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
}

// GetOrderByIDHandler lida com a requisição GET /v1/orders/{id}.
// @Summary Obtém um pedido com seus itens
// @Tags orders
// @Produce json
// @Param id path string true "ID do Pedido"
// @Success 200 {object} domain.Order
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Security ApiKeyAuth
// @Router /orders/{id} [get]
func (h *Handler) GetOrderByIDHandler(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.GetOrderByID(r.Context(), r.PathValue("id"))
	response.Handle(w, r, h.Logger, o, err, http.StatusOK)
}

// ListOrdersHandler lida com a requisição GET /v1/orders.
// @Summary Lista pedidos
// @Tags orders
// @Produce json
// @Param page query int false "Página" default(1)
// @Param limit query int false "Itens por página (máx. 100)" default(10)
// @Param search query string false "Busca por número do pedido ou observações"
// @Param sortBy query string false "created_at, total, order_number"
// @Param order query string false "asc ou desc" default(desc)
// @Param status query string false "Status do pedido"
// @Param payment_status query string false "Status do pagamento"
// @Param customer_id query string false "ID do cliente"
// @Success 200 {object} domain.Page[domain.Order]
// @Security ApiKeyAuth
// @Router /orders [get]
func (h *Handler) ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.OrderFilter{
		ListParams:    response.ListParams(r),
		Status:        domain.OrderStatus(q.Get("status")),
		PaymentStatus: domain.PaymentStatus(q.Get("payment_status")),
		CustomerID:    q.Get("customer_id"),
	}
	page, err := h.Service.ListOrders(r.Context(), filter)
	response.Handle(w, r, h.Logger, page, err, http.StatusOK)
}

// UpdateOrderHandler lida com a requisição PUT /v1/orders/{id}.
// @Summary Atualiza um pedido
// @Description Substitui status, pagamento, endereço e observações. Itens são imutáveis.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID do Pedido"
// @Param order body domain.UpdateOrderRequest true "Campos editáveis"
// @Success 200 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Security ApiKeyAuth
// @Router /orders/{id} [put]
func (h *Handler) UpdateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateOrderRequest
	if err := response.Decode(w, r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.UpdateOrder(r.Context(), r.PathValue("id"), req)
	response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
}

// UpdateOrderStatusHandler lida com a requisição PATCH /v1/orders/{id}/status.
// @Summary Altera o status do pedido
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "ID do Pedido"
// @Param status body domain.OrderStatusUpdate true "status e/ou payment_status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} domain.ErrorResponse "Status inválido"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Security ApiKeyAuth
// @Router /orders/{id}/status [patch]
func (h *Handler) UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	var upd domain.OrderStatusUpdate
	if err := response.Decode(w, r, &upd); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.UpdateOrderStatus(r.Context(), r.PathValue("id"), upd)
	response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
}

// DeleteOrderHandler lida com a requisição DELETE /v1/orders/{id}.
// @Summary Remove um pedido
// @Description Os agregados do cliente são recalculados.
// @Tags orders
// @Param id path string true "ID do Pedido"
// @Success 204 "Removido"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Security ApiKeyAuth
// @Router /orders/{id} [delete]
func (h *Handler) DeleteOrderHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteOrder(r.Context(), r.PathValue("id"))
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}
