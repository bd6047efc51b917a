package customerservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
)

// CustomerRepository define o contrato esperado da camada de Persistência.
type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	FindByID(ctx context.Context, id string) (domain.Customer, error)
	List(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, int, error)
	Update(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

// Validator valida as regras de formato declaradas nas tags da entidade.
type Validator interface {
	Struct(s interface{}) error
}

// Service implementa o cadastro de clientes.
type Service struct {
	repo      CustomerRepository
	validator Validator
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Clientes.
func NewService(repo CustomerRepository, validator Validator, logger logger.Logger) *Service {
	return &Service{repo: repo, validator: validator, logger: logger}
}

// CreateCustomer cadastra um cliente com os contadores zerados.
func (s *Service) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	customer.Normalize()
	if err := s.validator.Struct(customer); err != nil {
		s.logger.Warn("Cliente inválido.", map[string]interface{}{"email": customer.Email, "error": err.Error()})
		return domain.Customer{}, err
	}

	now := time.Now().UTC()
	customer.ID = uuid.New().String()
	customer.TotalOrders = 0
	customer.TotalRevenue = decimal.Zero
	customer.LastOrderAt = nil
	customer.CreatedAt = now
	customer.UpdatedAt = now

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		s.logger.Error("Falha ao criar cliente.", err)
		return domain.Customer{}, err
	}

	s.logger.Info("Cliente criado.", map[string]interface{}{"customer_id": created.ID, "segment": created.Segment})
	return created, nil
}

// GetCustomerByID busca um cliente pelo ID.
func (s *Service) GetCustomerByID(ctx context.Context, id string) (domain.Customer, error) {
	if err := validateID(id); err != nil {
		return domain.Customer{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// ListCustomers retorna a página de clientes.
func (s *Service) ListCustomers(ctx context.Context, filter domain.CustomerFilter) (domain.Page[domain.Customer], error) {
	filter.ListParams.Normalize()

	switch filter.Segment {
	case "", domain.SegmentPremium, domain.SegmentRegular, domain.SegmentNew:
	default:
		return domain.Page[domain.Customer]{}, apperror.NewFieldValidationError("Filtro inválido.",
			apperror.FieldError{Field: "segment", Message: "deve ser um de: premium, regular, new"})
	}

	customers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Falha ao listar clientes.", err)
		return domain.Page[domain.Customer]{}, err
	}
	return domain.NewPage(customers, filter.ListParams, total), nil
}

// UpdateCustomer altera os dados cadastrais. Os contadores enviados no payload são ignorados.
func (s *Service) UpdateCustomer(ctx context.Context, id string, customer domain.Customer) (domain.Customer, error) {
	if err := validateID(id); err != nil {
		return domain.Customer{}, err
	}

	customer.Normalize()
	if err := s.validator.Struct(customer); err != nil {
		return domain.Customer{}, err
	}

	customer.ID = id
	customer.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		s.logger.Error("Falha ao atualizar cliente.", err)
		return domain.Customer{}, err
	}

	s.logger.Info("Cliente atualizado.", map[string]interface{}{"customer_id": id})
	return updated, nil
}

// DeleteCustomer remove um cliente que ainda não possui pedidos.
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover cliente.", err)
		return err
	}
	s.logger.Info("Cliente removido.", map[string]interface{}{"customer_id": id})
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}
	return nil
}
