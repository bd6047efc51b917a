package customer

import (
	"context"
	"net/http"

	"warehub/internal/api/response"
	"warehub/internal/domain"
	"warehub/internal/pkg/logger"
)

// CustomerService define o contrato que o Handler espera da camada de Serviço.
type CustomerService interface {
	CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error)
	GetCustomerByID(ctx context.Context, id string) (domain.Customer, error)
	ListCustomers(ctx context.Context, filter domain.CustomerFilter) (domain.Page[domain.Customer], error)
	UpdateCustomer(ctx context.Context, id string, c domain.Customer) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

// Handler agrupa os handlers de clientes.
type Handler struct {
	Service CustomerService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CustomerService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateCustomerHandler lida com a requisição POST /v1/customers.
// @Summary Cadastra um cliente
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body domain.Customer true "Dados do cliente"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Security ApiKeyAuth
// @Router /customers [post]
func (h *Handler) CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := response.Decode(w, r, &c); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateCustomer(r.Context(), c)
	response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
}

// GetCustomerByIDHandler lida com a requisição GET /v1/customers/{id}.
// @Summary Obtém um cliente por ID
// @Tags customers
// @Produce json
// @Param id path string true "ID do Cliente"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} domain.ErrorResponse "Cliente não encontrado"
// @Security ApiKeyAuth
// @Router /customers/{id} [get]
func (h *Handler) GetCustomerByIDHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetCustomerByID(r.Context(), r.PathValue("id"))
	response.Handle(w, r, h.Logger, c, err, http.StatusOK)
}

// ListCustomersHandler lida com a requisição GET /v1/customers.
// @Summary Lista clientes
// @Tags customers
// @Produce json
// @Param page query int false "Página" default(1)
// @Param limit query int false "Itens por página (máx. 100)" default(10)
// @Param search query string false "Busca por nome, email, telefone ou empresa"
// @Param sortBy query string false "Campo de ordenação"
// @Param order query string false "asc ou desc" default(desc)
// @Param segment query string false "premium, regular ou new"
// @Success 200 {object} domain.Page[domain.Customer]
// @Security ApiKeyAuth
// @Router /customers [get]
func (h *Handler) ListCustomersHandler(w http.ResponseWriter, r *http.Request) {
	filter := domain.CustomerFilter{
		ListParams: response.ListParams(r),
		Segment:    domain.CustomerSegment(r.URL.Query().Get("segment")),
	}
	page, err := h.Service.ListCustomers(r.Context(), filter)
	response.Handle(w, r, h.Logger, page, err, http.StatusOK)
}

// UpdateCustomerHandler lida com a requisição PUT /v1/customers/{id}.
// @Summary Atualiza um cliente
// @Description total_orders, total_revenue e last_order_at são ignorados.
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "ID do Cliente"
// @Param customer body domain.Customer true "Novos dados"
// @Success 200 {object} domain.Customer
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Cliente não encontrado"
// @Security ApiKeyAuth
// @Router /customers/{id} [put]
func (h *Handler) UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := response.Decode(w, r, &c); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.UpdateCustomer(r.Context(), r.PathValue("id"), c)
	response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
}

// DeleteCustomerHandler lida com a requisição DELETE /v1/customers/{id}.
// @Summary Remove um cliente
// @Tags customers
// @Param id path string true "ID do Cliente"
// @Success 204 "Removido"
// @Failure 409 {object} domain.ErrorResponse "Cliente possui pedidos"
// @Security ApiKeyAuth
// @Router /customers/{id} [delete]
func (h *Handler) DeleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteCustomer(r.Context(), r.PathValue("id"))
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}
