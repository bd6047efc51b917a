package warehouse

import (
	"context"
	"net/http"

	"warehub/internal/api/response"
	"warehub/internal/domain"
	"warehub/internal/pkg/logger"
)

// WarehouseService define o contrato que o Handler espera da camada de Serviço.
type WarehouseService interface {
	CreateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error)
	GetWarehouseByID(ctx context.Context, id string) (domain.Warehouse, error)
	ListWarehouses(ctx context.Context, filter domain.WarehouseFilter) (domain.Page[domain.Warehouse], error)
	UpdateWarehouse(ctx context.Context, id string, warehouse domain.Warehouse) (domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id string) error
}

// Handler agrupa todos os métodos de Handler de armazéns.
type Handler struct {
	Service WarehouseService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc WarehouseService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// CreateWarehouseHandler lida com a requisição POST /v1/warehouses.
// @Summary Cria um novo armazém
// @Description Cria um novo armazém no sistema. O código é convertido para maiúsculas.
// @Tags warehouses
// @Accept json
// @Produce json
// @Param warehouse body domain.Warehouse true "Dados do armazém para criação"
// @Success 201 {object} domain.Warehouse "Armazém criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Código já existente"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /warehouses [post]
func (h *Handler) CreateWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	var warehouse domain.Warehouse
	if err := response.Decode(w, r, &warehouse); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateWarehouse(r.Context(), warehouse)
	response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
}

// GetWarehouseByIDHandler lida com a requisição GET /v1/warehouses/{id}.
// @Summary Obtém um armazém por ID
// @Description Busca um armazém específico pelo seu ID.
// @Tags warehouses
// @Produce json
// @Param id path string true "ID do Armazém"
// @Success 200 {object} domain.Warehouse "Armazém encontrado"
// @Failure 400 {object} domain.ErrorResponse "ID inválido"
// @Failure 404 {object} domain.ErrorResponse "Armazém não encontrado"
// @Security ApiKeyAuth
// @Router /warehouses/{id} [get]
func (h *Handler) GetWarehouseByIDHandler(w http.ResponseWriter, r *http.Request) {
	warehouse, err := h.Service.GetWarehouseByID(r.Context(), r.PathValue("id"))
	response.Handle(w, r, h.Logger, warehouse, err, http.StatusOK)
}

// ListWarehousesHandler lida com a requisição GET /v1/warehouses.
// @Summary Lista armazéns
// @Description Lista paginada com busca por nome, código ou cidade.
// @Tags warehouses
// @Produce json
// @Param page query int false "Página" default(1)
// @Param limit query int false "Itens por página (máx. 100)" default(10)
// @Param search query string false "Busca por nome, código ou cidade"
// @Param sortBy query string false "name, code, city, capacity, occupied, created_at"
// @Param order query string false "asc ou desc" default(desc)
// @Param status query string false "active, inactive ou maintenance"
// @Success 200 {object} domain.Page[domain.Warehouse]
// @Failure 400 {object} domain.ErrorResponse "Filtro inválido"
// @Security ApiKeyAuth
// @Router /warehouses [get]
func (h *Handler) ListWarehousesHandler(w http.ResponseWriter, r *http.Request) {
	filter := domain.WarehouseFilter{
		ListParams: response.ListParams(r),
		Status:     domain.WarehouseStatus(r.URL.Query().Get("status")),
	}
	page, err := h.Service.ListWarehouses(r.Context(), filter)
	response.Handle(w, r, h.Logger, page, err, http.StatusOK)
}

// UpdateWarehouseHandler lida com a requisição PUT /v1/warehouses/{id}.
// @Summary Atualiza um armazém
// @Tags warehouses
// @Accept json
// @Produce json
// @Param id path string true "ID do Armazém"
// @Param warehouse body domain.Warehouse true "Novos dados do armazém"
// @Success 200 {object} domain.Warehouse
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Armazém não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Código já existente"
// @Security ApiKeyAuth
// @Router /warehouses/{id} [put]
func (h *Handler) UpdateWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	var warehouse domain.Warehouse
	if err := response.Decode(w, r, &warehouse); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.UpdateWarehouse(r.Context(), r.PathValue("id"), warehouse)
	response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
}

// DeleteWarehouseHandler lida com a requisição DELETE /v1/warehouses/{id}.
// @Summary Remove um armazém
// @Description Apenas administradores. Armazéns com saldo de estoque não podem ser removidos.
// @Tags warehouses
// @Param id path string true "ID do Armazém"
// @Success 204 "Removido"
// @Failure 404 {object} domain.ErrorResponse "Armazém não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Armazém possui estoque"
// @Security ApiKeyAuth
// @Router /warehouses/{id} [delete]
func (h *Handler) DeleteWarehouseHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteWarehouse(r.Context(), r.PathValue("id"))
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}
