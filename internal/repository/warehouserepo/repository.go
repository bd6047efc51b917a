package warehouserepo

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

const warehouseColumns = `id, name, code, street, city, state, pincode, country, contact_phone, contact_email,
       capacity, occupied, status, is_verified, amenities, created_at, updated_at`

// Colunas aceitas em sortBy.
var sortable = map[string]string{
	"name":       "name",
	"code":       "code",
	"city":       "city",
	"capacity":   "capacity",
	"occupied":   "occupied",
	"created_at": "created_at",
}

// WarehouseRepository implementa a persistência de armazéns no PostgreSQL.
type WarehouseRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewWarehouseRepository cria e retorna uma nova instância do Repositório de Armazéns.
func NewWarehouseRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *WarehouseRepository {
	return &WarehouseRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWarehouse(row rowScanner) (domain.Warehouse, error) {
	var w domain.Warehouse
	var amenities pq.StringArray
	err := row.Scan(
		&w.ID, &w.Name, &w.Code,
		&w.Address.Street, &w.Address.City, &w.Address.State, &w.Address.Pincode, &w.Address.Country,
		&w.ContactPhone, &w.ContactEmail,
		&w.Capacity, &w.Occupied, &w.Status, &w.IsVerified, &amenities,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return domain.Warehouse{}, err
	}
	w.Amenities = []string(amenities)
	if w.Amenities == nil {
		w.Amenities = []string{}
	}
	w.ComputeUtilization()
	return w, nil
}

// Create insere um novo armazém.
func (r *WarehouseRepository) Create(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO warehouses (id, name, code, street, city, state, pincode, country, contact_phone, contact_email,
                                capacity, occupied, status, is_verified, amenities, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING ` + warehouseColumns

	created, err := scanWarehouse(r.DB.QueryRowContext(ctxTimeout, query,
		w.ID, w.Name, w.Code,
		w.Address.Street, w.Address.City, w.Address.State, w.Address.Pincode, w.Address.Country,
		w.ContactPhone, w.ContactEmail,
		w.Capacity, w.Occupied, w.Status, w.IsVerified, pq.Array(w.Amenities),
		w.CreatedAt, w.UpdatedAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			r.logger.Warn("Código de armazém duplicado.", map[string]interface{}{"code": w.Code})
			return domain.Warehouse{}, errors.NewConflictError(fmt.Sprintf("Já existe um armazém com o código %s.", w.Code))
		}
		r.logger.Error("Falha ao inserir armazém no DB.", err)
		return domain.Warehouse{}, errors.NewDBError("Falha ao criar armazém", err)
	}

	r.logger.Info("Armazém criado com sucesso.", map[string]interface{}{"warehouse_id": created.ID, "code": created.Code})
	return created, nil
}

// FindByID busca um armazém pelo ID.
func (r *WarehouseRepository) FindByID(ctx context.Context, id string) (domain.Warehouse, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE id = $1`

	w, err := scanWarehouse(r.DB.QueryRowContext(ctxTimeout, query, id))
	if err == sql.ErrNoRows {
		return domain.Warehouse{}, errors.NewNotFoundError(fmt.Sprintf("Armazém com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar armazém por ID.", err)
		return domain.Warehouse{}, errors.NewDBError("Falha ao buscar armazém", err)
	}
	return w, nil
}

// List retorna a página de armazéns que atende ao filtro e o total de registros.
func (r *WarehouseRepository) List(ctx context.Context, filter domain.WarehouseFilter) ([]domain.Warehouse, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var q database.ListQuery
	if filter.Status != "" {
		q.Where("status = ?", filter.Status)
	}
	q.Search(filter.Search, "name", "code", "city")

	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM warehouses`+q.WhereClause(), q.Args()...).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar armazéns.", err)
		return nil, 0, errors.NewDBError("Falha ao listar armazéns", err)
	}

	page, args := q.PageClause(filter.ListParams, sortable, "created_at")
	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+warehouseColumns+` FROM warehouses`+q.WhereClause()+page, args...)
	if err != nil {
		r.logger.Error("Falha ao listar armazéns.", err)
		return nil, 0, errors.NewDBError("Falha ao listar armazéns", err)
	}
	defer rows.Close()

	warehouses := make([]domain.Warehouse, 0, filter.Limit)
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, 0, errors.NewDBError("Falha ao ler armazém", err)
		}
		warehouses = append(warehouses, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewDBError("Falha ao iterar armazéns", err)
	}

	r.logger.Debug("Armazéns listados.", map[string]interface{}{"count": len(warehouses), "total": total})
	return warehouses, total, nil
}

// Update substitui os campos editáveis de um armazém.
func (r *WarehouseRepository) Update(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE warehouses
        SET name = $2, code = $3, street = $4, city = $5, state = $6, pincode = $7, country = $8,
            contact_phone = $9, contact_email = $10, capacity = $11, occupied = $12, status = $13,
            is_verified = $14, amenities = $15, updated_at = $16
        WHERE id = $1
        RETURNING ` + warehouseColumns

	updated, err := scanWarehouse(r.DB.QueryRowContext(ctxTimeout, query,
		w.ID, w.Name, w.Code,
		w.Address.Street, w.Address.City, w.Address.State, w.Address.Pincode, w.Address.Country,
		w.ContactPhone, w.ContactEmail,
		w.Capacity, w.Occupied, w.Status, w.IsVerified, pq.Array(w.Amenities),
		w.UpdatedAt,
	))
	if err == sql.ErrNoRows {
		return domain.Warehouse{}, errors.NewNotFoundError(fmt.Sprintf("Armazém com ID %s não encontrado.", w.ID))
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Warehouse{}, errors.NewConflictError(fmt.Sprintf("Já existe um armazém com o código %s.", w.Code))
		}
		r.logger.Error("Falha ao atualizar armazém.", err)
		return domain.Warehouse{}, errors.NewDBError("Falha ao atualizar armazém", err)
	}

	r.logger.Info("Armazém atualizado.", map[string]interface{}{"warehouse_id": w.ID})
	return updated, nil
}

// Delete remove um armazém. Armazéns com saldo de estoque não podem ser removidos.
func (r *WarehouseRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM warehouses WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return errors.NewConflictError("O armazém possui estoque registrado e não pode ser removido.")
		}
		r.logger.Error("Falha ao remover armazém.", err)
		return errors.NewDBError("Falha ao remover armazém", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Armazém com ID %s não encontrado.", id))
	}

	r.logger.Info("Armazém removido.", map[string]interface{}{"warehouse_id": id})
	return nil
}
