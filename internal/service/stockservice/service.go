package stockservice

import (
	"context"

	"github.com/google/uuid"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
)

// StockRepository define o contrato que o Serviço de Estoque espera da camada de Persistência.
type StockRepository interface {
	ListStockLevels(ctx context.Context, filter domain.StockFilter) ([]domain.StockLevel, error)
	UpdateStockLevel(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error)
}

// ProductCache remove a cópia em cache do produto cujo estoque mudou.
type ProductCache interface {
	Invalidate(ctx context.Context, id string)
}

// Validator valida as regras de formato declaradas nas tags do payload.
type Validator interface {
	Struct(s interface{}) error
}

// Service implementa os ajustes de inventário.
type Service struct {
	repo      StockRepository
	products  ProductCache
	validator Validator
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo StockRepository, products ProductCache, validator Validator, logger logger.Logger) *Service {
	return &Service{repo: repo, products: products, validator: validator, logger: logger}
}

// AdjustStock aplica um ajuste ao nível de estoque de um produto em um armazém.
func (s *Service) AdjustStock(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error) {
	s.logger.Debug("Iniciando ajuste de estoque no serviço.", map[string]interface{}{
		"product_id":   adjustment.ProductID,
		"warehouse_id": adjustment.WarehouseID,
		"delta":        adjustment.Delta,
	})

	if adjustment.Delta == 0 {
		return domain.StockLevel{}, apperror.NewFieldValidationError("O ajuste de estoque (delta) não pode ser zero.",
			apperror.FieldError{Field: "delta", Message: "não pode ser zero"})
	}
	if err := s.validator.Struct(adjustment); err != nil {
		return domain.StockLevel{}, err
	}

	stockLevel, err := s.repo.UpdateStockLevel(ctx, adjustment)
	if err != nil {
		// Conflict (versão concorrente), Validation (saldo negativo) ou DBError seguem sem tradução.
		s.logger.Warn("Falha ao ajustar estoque no repositório.", map[string]interface{}{"product_id": adjustment.ProductID, "error": err.Error()})
		return domain.StockLevel{}, err
	}

	s.products.Invalidate(ctx, adjustment.ProductID)

	s.logger.Info("Estoque ajustado com sucesso.", map[string]interface{}{
		"product_id":   stockLevel.ProductID,
		"warehouse_id": stockLevel.WarehouseID,
		"new_quantity": stockLevel.Quantity,
		"new_version":  stockLevel.Version,
		"reason":       adjustment.Reason,
	})
	return stockLevel, nil
}

// GetStockLevels lista os saldos, opcionalmente filtrados por produto e/ou armazém.
func (s *Service) GetStockLevels(ctx context.Context, filter domain.StockFilter) ([]domain.StockLevel, error) {
	var fields []apperror.FieldError
	if filter.ProductID != "" {
		if _, err := uuid.Parse(filter.ProductID); err != nil {
			fields = append(fields, apperror.FieldError{Field: "product_id", Message: "deve ser um UUID válido"})
		}
	}
	if filter.WarehouseID != "" {
		if _, err := uuid.Parse(filter.WarehouseID); err != nil {
			fields = append(fields, apperror.FieldError{Field: "warehouse_id", Message: "deve ser um UUID válido"})
		}
	}
	if len(fields) > 0 {
		return nil, apperror.NewFieldValidationError("Filtro inválido.", fields...)
	}

	return s.repo.ListStockLevels(ctx, filter)
}
