package customerrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"warehub/internal/domain"
	"warehub/internal/errors"
	"warehub/internal/pkg/database"
	"warehub/internal/pkg/logger"
)

const customerColumns = `id, name, email, phone, company, address, segment, total_orders, total_revenue,
       last_order_at, created_at, updated_at`

var sortable = map[string]string{
	"name":          "name",
	"email":         "email",
	"segment":       "segment",
	"total_orders":  "total_orders",
	"total_revenue": "total_revenue",
	"last_order_at": "last_order_at",
	"created_at":    "created_at",
}

// CustomerRepository persiste clientes no PostgreSQL.
type CustomerRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCustomerRepository cria uma nova instância do CustomerRepository.
func NewCustomerRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CustomerRepository {
	return &CustomerRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var c domain.Customer
	var address []byte
	var lastOrder sql.NullTime
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &address, &c.Segment,
		&c.TotalOrders, &c.TotalRevenue, &lastOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Customer{}, err
	}
	if err := database.ScanJSONB(address, &c.Address); err != nil {
		return domain.Customer{}, err
	}
	if lastOrder.Valid {
		t := lastOrder.Time
		c.LastOrderAt = &t
	}
	return c, nil
}

// Create insere um novo cliente. Os contadores começam zerados.
func (r *CustomerRepository) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	address, err := database.JSONB(c.Address)
	if err != nil {
		return domain.Customer{}, errors.NewInternalError("Falha ao serializar endereço.", err)
	}

	query := `
        INSERT INTO customers (id, name, email, phone, company, address, segment, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + customerColumns

	created, err := scanCustomer(r.DB.QueryRowContext(ctxTimeout, query,
		c.ID, c.Name, c.Email, c.Phone, c.Company, address, c.Segment, c.CreatedAt, c.UpdatedAt))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Customer{}, errors.NewConflictError(fmt.Sprintf("O email '%s' já pertence a outro cliente.", c.Email))
		}
		r.logger.Error("Falha ao inserir cliente.", err)
		return domain.Customer{}, errors.NewDBError("Falha ao criar cliente", err)
	}

	r.logger.Info("Cliente criado.", map[string]interface{}{"customer_id": created.ID})
	return created, nil
}

// FindByID busca um cliente pelo ID.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	c, err := scanCustomer(r.DB.QueryRowContext(ctxTimeout, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return domain.Customer{}, errors.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar cliente.", err)
		return domain.Customer{}, errors.NewDBError("Falha ao buscar cliente", err)
	}
	return c, nil
}

// List retorna a página de clientes e o total de registros.
func (r *CustomerRepository) List(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var q database.ListQuery
	if filter.Segment != "" {
		q.Where("segment = ?", filter.Segment)
	}
	q.Search(filter.Search, "name", "email", "phone", "company")

	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM customers`+q.WhereClause(), q.Args()...).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar clientes.", err)
		return nil, 0, errors.NewDBError("Falha ao listar clientes", err)
	}

	page, args := q.PageClause(filter.ListParams, sortable, "created_at")
	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+customerColumns+` FROM customers`+q.WhereClause()+page, args...)
	if err != nil {
		r.logger.Error("Falha ao listar clientes.", err)
		return nil, 0, errors.NewDBError("Falha ao listar clientes", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, filter.Limit)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, errors.NewDBError("Falha ao ler cliente", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewDBError("Falha ao iterar clientes", err)
	}
	return customers, total, nil
}

// Update altera os dados cadastrais. total_orders, total_revenue e last_order_at não são tocados.
func (r *CustomerRepository) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	address, err := database.JSONB(c.Address)
	if err != nil {
		return domain.Customer{}, errors.NewInternalError("Falha ao serializar endereço.", err)
	}

	query := `
        UPDATE customers
        SET name = $2, email = $3, phone = $4, company = $5, address = $6, segment = $7, updated_at = $8
        WHERE id = $1
        RETURNING ` + customerColumns

	updated, err := scanCustomer(r.DB.QueryRowContext(ctxTimeout, query,
		c.ID, c.Name, c.Email, c.Phone, c.Company, address, c.Segment, c.UpdatedAt))
	if err == sql.ErrNoRows {
		return domain.Customer{}, errors.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", c.ID))
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Customer{}, errors.NewConflictError(fmt.Sprintf("O email '%s' já pertence a outro cliente.", c.Email))
		}
		r.logger.Error("Falha ao atualizar cliente.", err)
		return domain.Customer{}, errors.NewDBError("Falha ao atualizar cliente", err)
	}
	return updated, nil
}

// Delete remove um cliente sem pedidos.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return errors.NewConflictError("O cliente possui pedidos e não pode ser removido.")
		}
		r.logger.Error("Falha ao remover cliente.", err)
		return errors.NewDBError("Falha ao remover cliente", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
	}

	r.logger.Info("Cliente removido.", map[string]interface{}{"customer_id": id})
	return nil
}
