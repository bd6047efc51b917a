package dashboard

import (
	"context"
	"net/http"

	"warehub/internal/api/response"
	"warehub/internal/domain"
	"warehub/internal/pkg/logger"
)

// DashboardService define as consultas agregadas do painel.
type DashboardService interface {
	GetStats(ctx context.Context) (domain.DashboardStats, error)
	LowStock(ctx context.Context, limit int) ([]domain.Product, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.Order, error)
	Sales(ctx context.Context, days int) ([]domain.SalesPoint, error)
}

type Handler struct {
	Service DashboardService
	Logger  logger.Logger
}

func NewHandler(svc DashboardService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// StatsHandler lida com a requisição GET /v1/dashboard/stats.
// @Summary Indicadores gerais
// @Description Armazéns, pedidos, clientes e produtos. O resultado fica em cache por alguns segundos.
// @Tags dashboard
// @Produce json
// @Success 200 {object} domain.DashboardStats
// @Security ApiKeyAuth
// @Router /dashboard/stats [get]
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.GetStats(r.Context())
	response.Handle(w, r, h.Logger, stats, err, http.StatusOK)
}

// LowStockHandler lida com a requisição GET /v1/dashboard/low-stock.
// @Summary Produtos no ponto de reposição
// @Tags dashboard
// @Produce json
// @Param limit query int false "Quantidade (1 a 50)" default(10)
// @Success 200 {array} domain.Product
// @Failure 400 {object} domain.ErrorResponse "Limite fora da faixa"
// @Security ApiKeyAuth
// @Router /dashboard/low-stock [get]
func (h *Handler) LowStockHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.LowStock(r.Context(), response.IntQuery(r, "limit", 0))
	response.Handle(w, r, h.Logger, products, err, http.StatusOK)
}

// RecentOrdersHandler lida com a requisição GET /v1/dashboard/recent-orders.
// @Summary Pedidos mais recentes
// @Tags dashboard
// @Produce json
// @Param limit query int false "Quantidade (1 a 50)" default(10)
// @Success 200 {array} domain.Order
// @Failure 400 {object} domain.ErrorResponse "Limite fora da faixa"
// @Security ApiKeyAuth
// @Router /dashboard/recent-orders [get]
func (h *Handler) RecentOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Service.RecentOrders(r.Context(), response.IntQuery(r, "limit", 0))
	response.Handle(w, r, h.Logger, orders, err, http.StatusOK)
}

// SalesHandler lida com a requisição GET /v1/dashboard/sales.
// @Summary Receita diária
// @Description Série contínua; dias sem vendas aparecem com zero.
// @Tags dashboard
// @Produce json
// @Param days query int false "Janela em dias (1 a 365)" default(30)
// @Success 200 {array} domain.SalesPoint
// @Failure 400 {object} domain.ErrorResponse "Janela fora da faixa"
// @Security ApiKeyAuth
// @Router /dashboard/sales [get]
func (h *Handler) SalesHandler(w http.ResponseWriter, r *http.Request) {
	points, err := h.Service.Sales(r.Context(), response.IntQuery(r, "days", 0))
	response.Handle(w, r, h.Logger, points, err, http.StatusOK)
}
