package stock

import (
	"context"
	"net/http"

	"warehub/internal/api/response"
	"warehub/internal/domain"
	"warehub/internal/pkg/logger"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	AdjustStock(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error)
	GetStockLevels(ctx context.Context, filter domain.StockFilter) ([]domain.StockLevel, error)
}

// Handler agrupa todos os métodos de Handler de estoque.
type Handler struct {
	Service StockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StockService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// AdjustStockHandler lida com a requisição POST /v1/inventory/adjust.
// @Summary Ajusta o estoque de um produto em um armazém
// @Description Soma delta (positivo ou negativo) ao saldo do armazém e ao estoque total do produto.
// @Tags inventory
// @Accept json
// @Produce json
// @Param adjustment body domain.StockAdjustmentRequest true "Ajuste de estoque"
// @Success 200 {object} domain.StockLevel "Nível de estoque atualizado"
// @Failure 400 {object} domain.ErrorResponse "Delta zero ou saldo negativo"
// @Failure 409 {object} domain.ErrorResponse "Conflito de concorrência"
// @Security ApiKeyAuth
// @Router /inventory/adjust [post]
func (h *Handler) AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	var adjustment domain.StockAdjustmentRequest
	if err := response.Decode(w, r, &adjustment); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	level, err := h.Service.AdjustStock(r.Context(), adjustment)
	response.Handle(w, r, h.Logger, level, err, http.StatusOK)
}

// GetStockLevelsHandler lida com a requisição GET /v1/inventory.
// @Summary Consulta saldos de estoque
// @Tags inventory
// @Produce json
// @Param product_id query string false "ID do produto"
// @Param warehouse_id query string false "ID do armazém"
// @Success 200 {array} domain.StockLevel
// @Failure 400 {object} domain.ErrorResponse "Filtro inválido"
// @Security ApiKeyAuth
// @Router /inventory [get]
func (h *Handler) GetStockLevelsHandler(w http.ResponseWriter, r *http.Request) {
	filter := domain.StockFilter{
		ProductID:   r.URL.Query().Get("product_id"),
		WarehouseID: r.URL.Query().Get("warehouse_id"),
	}
	levels, err := h.Service.GetStockLevels(r.Context(), filter)
	response.Handle(w, r, h.Logger, levels, err, http.StatusOK)
}
