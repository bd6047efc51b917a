package product

import (
	"context"
	"net/http"

	"warehub/internal/api/response"
	"warehub/internal/domain"
	"warehub/internal/pkg/logger"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	GetProducts(ctx context.Context, filter domain.ProductFilter) (domain.Page[domain.Product], error)
	UpdateProduct(ctx context.Context, id string, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Handler agrupa todos os métodos de Handler do produto.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// CreateProductHandler lida com a requisição POST /v1/products.
// @Summary Cria um novo produto
// @Description Cadastra um produto. O SKU é único e convertido para maiúsculas.
// @Tags products
// @Accept json
// @Produce json
// @Param product body domain.Product true "Dados do produto"
// @Success 201 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "SKU já existente"
// @Security ApiKeyAuth
// @Router /products [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := response.Decode(w, r, &p); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateProduct(r.Context(), p)
	response.Handle(w, r, h.Logger, created, err, http.StatusCreated)
}

// GetProductByIDHandler lida com a requisição GET /v1/products/{id}.
// @Summary Obtém um produto por ID
// @Tags products
// @Produce json
// @Param id path string true "ID do Produto"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse "ID inválido"
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Security ApiKeyAuth
// @Router /products/{id} [get]
func (h *Handler) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetProductByID(r.Context(), r.PathValue("id"))
	response.Handle(w, r, h.Logger, p, err, http.StatusOK)
}

// GetProductsHandler lida com a requisição GET /v1/products.
// @Summary Lista produtos
// @Tags products
// @Produce json
// @Param page query int false "Página" default(1)
// @Param limit query int false "Itens por página (máx. 100)" default(10)
// @Param search query string false "Busca por nome, SKU ou descrição"
// @Param sortBy query string false "name, sku, price, stock, category, created_at"
// @Param order query string false "asc ou desc" default(desc)
// @Param category query string false "Categoria"
// @Param low_stock query bool false "Somente produtos no nível de reposição"
// @Param active query bool false "Somente produtos ativos"
// @Success 200 {object} domain.Page[domain.Product]
// @Security ApiKeyAuth
// @Router /products [get]
func (h *Handler) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProductFilter{
		ListParams:   response.ListParams(r),
		Category:     r.URL.Query().Get("category"),
		LowStockOnly: response.BoolQuery(r, "low_stock"),
		ActiveOnly:   response.BoolQuery(r, "active"),
	}
	page, err := h.Service.GetProducts(r.Context(), filter)
	response.Handle(w, r, h.Logger, page, err, http.StatusOK)
}

// UpdateProductHandler lida com a requisição PUT /v1/products/{id}.
// @Summary Atualiza um produto
// @Description O estoque não é alterado por esta rota; use /inventory/adjust.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "ID do Produto"
// @Param product body domain.Product true "Novos dados do produto"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Security ApiKeyAuth
// @Router /products/{id} [put]
func (h *Handler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := response.Decode(w, r, &p); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.UpdateProduct(r.Context(), r.PathValue("id"), p)
	response.Handle(w, r, h.Logger, updated, err, http.StatusOK)
}

// DeleteProductHandler lida com a requisição DELETE /v1/products/{id}.
// @Summary Remove um produto
// @Tags products
// @Param id path string true "ID do Produto"
// @Success 204 "Removido"
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Produto referenciado por pedidos"
// @Security ApiKeyAuth
// @Router /products/{id} [delete]
func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteProduct(r.Context(), r.PathValue("id"))
	response.Handle(w, r, h.Logger, nil, err, http.StatusNoContent)
}
