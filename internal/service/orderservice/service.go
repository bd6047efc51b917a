package orderservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
	"warehub/internal/pkg/telemetry"
)

// OrderRepository define o contrato esperado da camada de Persistência.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	FindByID(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error)
	Update(ctx context.Context, id string, req domain.UpdateOrderRequest, updatedAt time.Time) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, upd domain.OrderStatusUpdate, updatedAt time.Time) (domain.Order, error)
	Delete(ctx context.Context, id string) error
}

// ProductReader resolve os produtos referenciados pelos itens.
type ProductReader interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

// Validator valida as regras de formato declaradas nas tags do payload.
type Validator interface {
	Struct(s interface{}) error
}

// Service implementa o ciclo de vida dos pedidos.
type Service struct {
	repo      OrderRepository
	products  ProductReader
	pricing   domain.Pricing
	validator Validator
	logger    logger.Logger
	now       func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Pedidos.
func NewService(repo OrderRepository, products ProductReader, pricing domain.Pricing, validator Validator, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		pricing:   pricing,
		validator: validator,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder resolve os itens, calcula os totais e grava o pedido.
func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "orderservice.CreateOrder",
		attribute.String("customer_id", req.CustomerID),
		attribute.Int("items", len(req.Items)),
	)
	defer span.End()

	// 1. Formato do payload
	if req.ShippingAddress != nil {
		req.ShippingAddress.Normalize()
	}
	if err := s.validator.Struct(req); err != nil {
		s.logger.Warn("Pedido inválido.", map[string]interface{}{"customer_id": req.CustomerID, "error": err.Error()})
		return domain.Order{}, err
	}

	now := s.now()
	order := domain.Order{
		ID:              uuid.New().String(),
		OrderNumber:     NewOrderNumber(now),
		CustomerID:      req.CustomerID,
		WarehouseID:     req.WarehouseID,
		Status:          domain.OrderPending,
		PaymentStatus:   req.PaymentStatus,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = domain.PaymentPending
	}

	// 2. Resolve os produtos: preço, SKU e nome são copiados no momento da criação
	items, err := s.resolveItems(ctx, order.ID, req.Items)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return domain.Order{}, err
	}
	order.Items = items

	// 3. Totais
	s.pricing.ApplyTotals(&order)

	// 4. Pedido, itens e agregados do cliente em uma transação
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "falha ao gravar pedido")
		s.logger.Error("Falha ao gravar pedido.", err)
		return domain.Order{}, err
	}

	span.SetAttributes(attribute.String("order_number", created.OrderNumber), attribute.String("total", created.Total.StringFixed(2)))
	s.logger.Info("Pedido criado com sucesso.", map[string]interface{}{
		"order_id":     created.ID,
		"order_number": created.OrderNumber,
		"total":        created.Total.StringFixed(2),
	})
	return created, nil
}

func (s *Service) resolveItems(ctx context.Context, orderID string, reqs []domain.OrderItemRequest) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(reqs))
	var fields []apperror.FieldError

	for i, it := range reqs {
		field := fmt.Sprintf("items[%d].product_id", i)

		product, err := s.products.FindByID(ctx, it.ProductID)
		if err != nil {
			var notFound *apperror.NotFoundError
			if errors.As(err, &notFound) {
				fields = append(fields, apperror.FieldError{Field: field, Message: "produto inexistente"})
				continue
			}
			return nil, err
		}
		if !product.IsActive {
			fields = append(fields, apperror.FieldError{Field: field, Message: "produto inativo"})
			continue
		}

		items = append(items, domain.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     orderID,
			ProductID:   product.ID,
			SKU:         product.SKU,
			ProductName: product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   product.Price,
		})
	}

	if len(fields) > 0 {
		return nil, apperror.NewFieldValidationError("Um ou mais itens são inválidos.", fields...)
	}
	return items, nil
}

// NewOrderNumber gera o número legível do pedido: ORD-YYYYMMDD-XXXXXXXX.
func NewOrderNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", t.UTC().Format("20060102"), suffix)
}

// GetOrderByID busca um pedido com seus itens.
func (s *Service) GetOrderByID(ctx context.Context, id string) (domain.Order, error) {
	if err := validateID(id); err != nil {
		return domain.Order{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// ListOrders retorna a página de pedidos.
func (s *Service) ListOrders(ctx context.Context, filter domain.OrderFilter) (domain.Page[domain.Order], error) {
	filter.ListParams.Normalize()

	var fields []apperror.FieldError
	switch filter.Status {
	case "", domain.OrderPending, domain.OrderConfirmed, domain.OrderProcessing, domain.OrderShipped,
		domain.OrderDelivered, domain.OrderCancelled, domain.OrderReturned:
	default:
		fields = append(fields, apperror.FieldError{Field: "status", Message: "status de pedido inválido"})
	}
	switch filter.PaymentStatus {
	case "", domain.PaymentPending, domain.PaymentPaid, domain.PaymentFailed, domain.PaymentRefunded:
	default:
		fields = append(fields, apperror.FieldError{Field: "payment_status", Message: "status de pagamento inválido"})
	}
	if filter.CustomerID != "" {
		if _, err := uuid.Parse(filter.CustomerID); err != nil {
			fields = append(fields, apperror.FieldError{Field: "customer_id", Message: "deve ser um UUID válido"})
		}
	}
	if len(fields) > 0 {
		return domain.Page[domain.Order]{}, apperror.NewFieldValidationError("Filtro inválido.", fields...)
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Falha ao listar pedidos.", err)
		return domain.Page[domain.Order]{}, err
	}
	return domain.NewPage(orders, filter.ListParams, total), nil
}

// UpdateOrder substitui os campos editáveis. Itens e totais não mudam.
func (s *Service) UpdateOrder(ctx context.Context, id string, req domain.UpdateOrderRequest) (domain.Order, error) {
	if err := validateID(id); err != nil {
		return domain.Order{}, err
	}
	if req.ShippingAddress != nil {
		req.ShippingAddress.Normalize()
	}
	req.Notes = strings.TrimSpace(req.Notes)
	if err := s.validator.Struct(req); err != nil {
		return domain.Order{}, err
	}

	updated, err := s.repo.Update(ctx, id, req, s.now())
	if err != nil {
		s.logger.Error("Falha ao atualizar pedido.", err)
		return domain.Order{}, err
	}
	s.logger.Info("Pedido atualizado.", map[string]interface{}{"order_id": id, "status": updated.Status})
	return updated, nil
}

// UpdateOrderStatus altera status e/ou payment_status. Qualquer valor válido é aceito.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, upd domain.OrderStatusUpdate) (domain.Order, error) {
	if err := validateID(id); err != nil {
		return domain.Order{}, err
	}
	if upd.Status == nil && upd.PaymentStatus == nil {
		return domain.Order{}, apperror.NewValidationError("Informe status e/ou payment_status.")
	}
	if err := s.validator.Struct(upd); err != nil {
		return domain.Order{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, upd, s.now())
	if err != nil {
		s.logger.Error("Falha ao atualizar status do pedido.", err)
		return domain.Order{}, err
	}
	return updated, nil
}

// DeleteOrder remove o pedido e desfaz seus efeitos nos agregados do cliente.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover pedido.", err)
		return err
	}
	s.logger.Info("Pedido removido.", map[string]interface{}{"order_id": id})
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do pedido deve ser um UUID válido.")
	}
	return nil
}
