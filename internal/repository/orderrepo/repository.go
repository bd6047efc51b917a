package orderrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"warehub/internal/domain"
	"warehub/internal/errors"
	"warehub/internal/pkg/database"
	"warehub/internal/pkg/logger"
)

const orderColumns = `id, order_number, customer_id, warehouse_id, subtotal, tax, shipping_cost, total, status,
       payment_status, payment_method, shipping_address, notes, created_at, updated_at`

const itemColumns = `id, order_id, product_id, sku, product_name, quantity, unit_price, line_total`

var sortable = map[string]string{
	"created_at":   "created_at",
	"total":        "total",
	"order_number": "order_number",
	"status":       "status",
}

// OrderRepository persiste pedidos e seus itens.
type OrderRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewOrderRepository cria uma nova instância do OrderRepository.
func NewOrderRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *OrderRepository {
	return &OrderRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	var warehouseID sql.NullString
	var address []byte
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &warehouseID,
		&o.Subtotal, &o.Tax, &o.ShippingCost, &o.Total,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &address, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}
	if warehouseID.Valid {
		id := warehouseID.String
		o.WarehouseID = &id
	}
	if err := database.ScanJSONB(address, &o.ShippingAddress); err != nil {
		return domain.Order{}, err
	}
	o.Items = []domain.OrderItem{}
	return o, nil
}

func scanItem(row rowScanner) (domain.OrderItem, error) {
	var it domain.OrderItem
	err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.SKU, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.LineTotal)
	return it, err
}

// Create grava o pedido, os itens e atualiza os agregados do cliente em uma única transação.
func (r *OrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	address, err := database.JSONB(order.ShippingAddress)
	if err != nil {
		return domain.Order{}, errors.NewInternalError("Falha ao serializar endereço de entrega.", err)
	}

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Order{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	// 1. Cabeçalho do pedido
	_, err = tx.ExecContext(ctxTimeout, `
        INSERT INTO orders (id, order_number, customer_id, warehouse_id, subtotal, tax, shipping_cost, total, status,
                            payment_status, payment_method, shipping_address, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		order.ID, order.OrderNumber, order.CustomerID, order.WarehouseID,
		order.Subtotal, order.Tax, order.ShippingCost, order.Total,
		order.Status, order.PaymentStatus, order.PaymentMethod, address, order.Notes,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		switch {
		case database.IsForeignKeyViolation(err):
			return domain.Order{}, errors.NewValidationError("Cliente ou armazém inexistente.")
		case database.IsUniqueViolation(err):
			return domain.Order{}, errors.NewConflictError(fmt.Sprintf("O número de pedido %s já existe.", order.OrderNumber))
		}
		r.logger.Error("Falha ao inserir pedido.", err)
		return domain.Order{}, errors.NewDBError("Falha ao inserir pedido", err)
	}

	// 2. Itens
	for _, it := range order.Items {
		_, err = tx.ExecContext(ctxTimeout, `
            INSERT INTO order_items (id, order_id, product_id, sku, product_name, quantity, unit_price, line_total)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, order.ID, it.ProductID, it.SKU, it.ProductName, it.Quantity, it.UnitPrice, it.LineTotal)
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return domain.Order{}, errors.NewValidationError(fmt.Sprintf("Produto %s inexistente.", it.ProductID))
			}
			r.logger.Error("Falha ao inserir item do pedido.", err)
			return domain.Order{}, errors.NewDBError("Falha ao inserir item do pedido", err)
		}
	}

	// 3. Agregados do cliente
	res, err := tx.ExecContext(ctxTimeout, `
        UPDATE customers
        SET total_orders = total_orders + 1, total_revenue = total_revenue + $1, last_order_at = $2, updated_at = $2
        WHERE id = $3`,
		order.Total, order.CreatedAt, order.CustomerID)
	if err != nil {
		r.logger.Error("Falha ao atualizar agregados do cliente.", err)
		return domain.Order{}, errors.NewDBError("Falha ao atualizar cliente", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return domain.Order{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	} else if n == 0 {
		return domain.Order{}, errors.NewValidationError("Cliente inexistente.")
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar pedido.", err)
		return domain.Order{}, errors.NewDBError("Falha ao commitar transação", err)
	}

	r.logger.Info("Pedido criado.", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total.StringFixed(2),
	})
	return order, nil
}

// FindByID busca o pedido com seus itens.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	o, err := scanOrder(r.DB.QueryRowContext(ctxTimeout, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return domain.Order{}, errors.NewNotFoundError(fmt.Sprintf("Pedido com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar pedido.", err)
		return domain.Order{}, errors.NewDBError("Falha ao buscar pedido", err)
	}

	orders := []domain.Order{o}
	if err := r.attachItems(ctxTimeout, orders); err != nil {
		return domain.Order{}, err
	}
	return orders[0], nil
}

// List retorna a página de pedidos (com itens) e o total de registros.
func (r *OrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var q database.ListQuery
	if filter.Status != "" {
		q.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CustomerID != "" {
		q.Where("customer_id = ?", filter.CustomerID)
	}
	q.Search(filter.Search, "order_number", "notes")

	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM orders`+q.WhereClause(), q.Args()...).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar pedidos.", err)
		return nil, 0, errors.NewDBError("Falha ao listar pedidos", err)
	}

	page, args := q.PageClause(filter.ListParams, sortable, "created_at")
	orders, err := r.query(ctxTimeout, `SELECT `+orderColumns+` FROM orders`+q.WhereClause()+page, args...)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctxTimeout, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Recent retorna os pedidos mais recentes (sem itens), usados no painel.
func (r *OrderRepository) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()
	return r.query(ctxTimeout, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *OrderRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar pedidos.", err)
		return nil, errors.NewDBError("Falha ao listar pedidos", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao ler pedido", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar pedidos", err)
	}
	return orders, nil
}

// attachItems carrega os itens de todos os pedidos com uma única consulta.
func (r *OrderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT `+itemColumns+` FROM order_items WHERE order_id = ANY($1) ORDER BY sku`, pq.Array(ids))
	if err != nil {
		r.logger.Error("Falha ao buscar itens dos pedidos.", err)
		return errors.NewDBError("Falha ao buscar itens dos pedidos", err)
	}
	defer rows.Close()

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return errors.NewDBError("Falha ao ler item do pedido", err)
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.NewDBError("Falha ao iterar itens dos pedidos", err)
	}
	return nil
}

// Update substitui status, pagamento, endereço e observações. Itens e totais são imutáveis.
func (r *OrderRepository) Update(ctx context.Context, id string, req domain.UpdateOrderRequest, updatedAt time.Time) (domain.Order, error) {
	address, err := database.JSONB(req.ShippingAddress)
	if err != nil {
		return domain.Order{}, errors.NewInternalError("Falha ao serializar endereço de entrega.", err)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctxTimeout, `
        UPDATE orders
        SET status = $2, payment_status = $3, payment_method = $4, shipping_address = $5, notes = $6, updated_at = $7
        WHERE id = $1`,
		id, req.Status, req.PaymentStatus, req.PaymentMethod, address, req.Notes, updatedAt)
	if err != nil {
		r.logger.Error("Falha ao atualizar pedido.", err)
		return domain.Order{}, errors.NewDBError("Falha ao atualizar pedido", err)
	}
	if err := notFoundIfNone(res, id); err != nil {
		return domain.Order{}, err
	}
	return r.FindByID(ctx, id)
}

// UpdateStatus altera status e/ou payment_status. Campos nulos mantêm o valor atual.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, upd domain.OrderStatusUpdate, updatedAt time.Time) (domain.Order, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var status, payment sql.NullString
	if upd.Status != nil {
		status = sql.NullString{String: string(*upd.Status), Valid: true}
	}
	if upd.PaymentStatus != nil {
		payment = sql.NullString{String: string(*upd.PaymentStatus), Valid: true}
	}

	res, err := r.DB.ExecContext(ctxTimeout, `
        UPDATE orders
        SET status = COALESCE($2, status), payment_status = COALESCE($3, payment_status), updated_at = $4
        WHERE id = $1`,
		id, status, payment, updatedAt)
	if err != nil {
		r.logger.Error("Falha ao atualizar status do pedido.", err)
		return domain.Order{}, errors.NewDBError("Falha ao atualizar status do pedido", err)
	}
	if err := notFoundIfNone(res, id); err != nil {
		return domain.Order{}, err
	}

	r.logger.Info("Status do pedido atualizado.", map[string]interface{}{"order_id": id})
	return r.FindByID(ctx, id)
}

// Delete remove o pedido (itens em cascata) e desfaz sua contribuição nos agregados do cliente.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	var customerID string
	var total sql.NullString
	err = tx.QueryRowContext(ctxTimeout, `DELETE FROM orders WHERE id = $1 RETURNING customer_id, total`, id).Scan(&customerID, &total)
	if err == sql.ErrNoRows {
		return errors.NewNotFoundError(fmt.Sprintf("Pedido com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao remover pedido.", err)
		return errors.NewDBError("Falha ao remover pedido", err)
	}

	_, err = tx.ExecContext(ctxTimeout, `
        UPDATE customers
        SET total_orders = GREATEST(total_orders - 1, 0),
            total_revenue = GREATEST(total_revenue - $1::numeric, 0),
            last_order_at = (SELECT MAX(created_at) FROM orders WHERE customer_id = $2)
        WHERE id = $2`,
		total.String, customerID)
	if err != nil {
		r.logger.Error("Falha ao reverter agregados do cliente.", err)
		return errors.NewDBError("Falha ao atualizar cliente", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDBError("Falha ao commitar transação", err)
	}

	r.logger.Info("Pedido removido.", map[string]interface{}{"order_id": id, "customer_id": customerID})
	return nil
}

func notFoundIfNone(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if n == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Pedido com ID %s não encontrado.", id))
	}
	return nil
}
