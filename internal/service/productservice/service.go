package productservice

import (
	"context"
	"time"

	"github.com/google/uuid"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
)

// ProductRepository define o contrato (interface) que este Serviço espera
// da camada de Persistência (DB, Cache).
type ProductRepository interface {
	Save(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// Validator valida as regras de formato declaradas nas tags da entidade.
type Validator interface {
	Struct(s interface{}) error
}

// Service é a estrutura que implementa as regras de catálogo.
type Service struct {
	repo      ProductRepository
	validator Validator
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository, validator Validator, logger logger.Logger) *Service {
	return &Service{repo: repo, validator: validator, logger: logger}
}

// CreateProduct cadastra um produto. O produto nasce ativo.
func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	s.logger.Debug("Iniciando criação de produto.", map[string]interface{}{"sku": product.SKU})

	// 1. Validação de formato e de regras de preço
	if err := s.validate(&product); err != nil {
		s.logger.Warn("Produto inválido.", map[string]interface{}{"sku": product.SKU, "error": err.Error()})
		return domain.Product{}, err
	}

	// 2. Preenchimento de ID, IsActive, CreatedAt/UpdatedAt.
	// O saldo nasce zerado: estoque só entra por ajuste em um armazém (stock_levels).
	now := time.Now().UTC()
	product.ID = uuid.New().String()
	product.IsActive = true
	product.Stock = 0
	product.CreatedAt = now
	product.UpdatedAt = now

	// 3. Delegação para a Camada de Persistência
	created, err := s.repo.Save(ctx, product)
	if err != nil {
		s.logger.Error("Falha ao salvar produto no repositório.", err)
		return domain.Product{}, err
	}

	s.logger.Info("Produto criado.", map[string]interface{}{"product_id": created.ID, "sku": created.SKU})
	return created, nil
}

// GetProductByID busca um produto (cache-aside no repositório).
func (s *Service) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	if err := validateID(id); err != nil {
		return domain.Product{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// GetProducts retorna a página de produtos conforme filtros.
func (s *Service) GetProducts(ctx context.Context, filter domain.ProductFilter) (domain.Page[domain.Product], error) {
	filter.ListParams.Normalize()

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Falha ao listar produtos.", err)
		return domain.Page[domain.Product]{}, err
	}
	return domain.NewPage(products, filter.ListParams, total), nil
}

// UpdateProduct substitui os dados cadastrais. O estoque só muda por ajuste de inventário.
func (s *Service) UpdateProduct(ctx context.Context, id string, product domain.Product) (domain.Product, error) {
	if err := validateID(id); err != nil {
		return domain.Product{}, err
	}
	if err := s.validate(&product); err != nil {
		return domain.Product{}, err
	}

	product.ID = id
	product.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		s.logger.Error("Falha ao atualizar produto.", err)
		return domain.Product{}, err
	}

	s.logger.Info("Produto atualizado.", map[string]interface{}{"product_id": id})
	return updated, nil
}

// DeleteProduct remove um produto. Produtos referenciados por pedidos não podem ser removidos.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover produto.", err)
		return err
	}
	s.logger.Info("Produto removido.", map[string]interface{}{"product_id": id})
	return nil
}

func (s *Service) validate(product *domain.Product) error {
	product.Normalize()
	if err := s.validator.Struct(*product); err != nil {
		return err
	}

	var fields []apperror.FieldError
	if !product.Price.IsPositive() {
		fields = append(fields, apperror.FieldError{Field: "price", Message: "deve ser maior que 0"})
	}
	if product.CostPrice.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "cost_price", Message: "deve ser maior ou igual a 0"})
	}
	if len(fields) > 0 {
		return apperror.NewFieldValidationError("Um ou mais campos são inválidos.", fields...)
	}
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}
	return nil
}
