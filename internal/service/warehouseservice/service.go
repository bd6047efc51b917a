package warehouseservice

import (
	"context"
	"time"

	"github.com/google/uuid"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
)

// WarehouseRepository define o contrato que o Serviço de Armazéns espera da camada de Persistência.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error)
	FindByID(ctx context.Context, id string) (domain.Warehouse, error)
	List(ctx context.Context, filter domain.WarehouseFilter) ([]domain.Warehouse, int, error)
	Update(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error)
	Delete(ctx context.Context, id string) error
}

// Validator valida as regras de formato declaradas nas tags da entidade.
type Validator interface {
	Struct(s interface{}) error
}

// Service implementa as regras de negócio de armazéns.
type Service struct {
	repo      WarehouseRepository
	validator Validator
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Armazéns.
func NewService(repo WarehouseRepository, validator Validator, logger logger.Logger) *Service {
	return &Service{repo: repo, validator: validator, logger: logger}
}

// CreateWarehouse cria um novo armazém após validações de negócio.
func (s *Service) CreateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	s.logger.Debug("Iniciando criação de armazém no serviço.", map[string]interface{}{"name": warehouse.Name})

	// 1. Normaliza e valida o payload (inclui occupied <= capacity)
	warehouse.Normalize()
	if err := s.validator.Struct(warehouse); err != nil {
		s.logger.Warn("Falha na validação do armazém.", map[string]interface{}{"code": warehouse.Code, "error": err.Error()})
		return domain.Warehouse{}, err
	}

	// 2. Gera identidade e timestamps
	now := time.Now().UTC()
	warehouse.ID = uuid.New().String()
	warehouse.CreatedAt = now
	warehouse.UpdatedAt = now

	// 3. Persiste
	created, err := s.repo.Create(ctx, warehouse)
	if err != nil {
		s.logger.Error("Falha ao criar armazém no repositório.", err)
		return domain.Warehouse{}, err // Conflict (código duplicado) ou DBError
	}

	s.logger.Info("Armazém criado com sucesso.", map[string]interface{}{"id": created.ID, "code": created.Code})
	return created, nil
}

// GetWarehouseByID busca um armazém pelo ID após validações de formato.
func (s *Service) GetWarehouseByID(ctx context.Context, id string) (domain.Warehouse, error) {
	if err := validateID(id); err != nil {
		s.logger.Warn("ID de armazém inválido fornecido.", map[string]interface{}{"id": id})
		return domain.Warehouse{}, err
	}

	warehouse, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Warehouse{}, err // Erros do repositório já são NotFoundError ou DBError
	}
	return warehouse, nil
}

// ListWarehouses retorna a página de armazéns conforme filtros e paginação.
func (s *Service) ListWarehouses(ctx context.Context, filter domain.WarehouseFilter) (domain.Page[domain.Warehouse], error) {
	filter.ListParams.Normalize()

	if filter.Status != "" {
		switch filter.Status {
		case domain.WarehouseActive, domain.WarehouseInactive, domain.WarehouseMaintenance:
		default:
			return domain.Page[domain.Warehouse]{}, apperror.NewFieldValidationError("Filtro inválido.",
				apperror.FieldError{Field: "status", Message: "deve ser um de: active, inactive, maintenance"})
		}
	}

	warehouses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Falha ao listar armazéns no repositório.", err)
		return domain.Page[domain.Warehouse]{}, err
	}

	s.logger.Debug("Armazéns listados.", map[string]interface{}{"count": len(warehouses), "total": total})
	return domain.NewPage(warehouses, filter.ListParams, total), nil
}

// UpdateWarehouse substitui os dados de um armazém existente.
func (s *Service) UpdateWarehouse(ctx context.Context, id string, warehouse domain.Warehouse) (domain.Warehouse, error) {
	s.logger.Debug("Iniciando atualização de armazém no serviço.", map[string]interface{}{"id": id})

	if err := validateID(id); err != nil {
		return domain.Warehouse{}, err
	}

	warehouse.Normalize()
	if err := s.validator.Struct(warehouse); err != nil {
		s.logger.Warn("Falha na validação do armazém para atualização.", map[string]interface{}{"id": id, "error": err.Error()})
		return domain.Warehouse{}, err
	}

	warehouse.ID = id
	warehouse.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, warehouse)
	if err != nil {
		s.logger.Error("Falha ao atualizar armazém no repositório.", err)
		return domain.Warehouse{}, err
	}

	s.logger.Info("Armazém atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteWarehouse remove um armazém.
func (s *Service) DeleteWarehouse(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao deletar armazém no repositório.", err)
		return err // NotFound, Conflict (possui estoque) ou DBError
	}

	s.logger.Info("Armazém deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do armazém deve ser um UUID válido.")
	}
	return nil
}
