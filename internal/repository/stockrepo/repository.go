package stockrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"warehub/internal/domain"
	"warehub/internal/errors"
	"warehub/internal/pkg/database"
	"warehub/internal/pkg/logger"
)

const stockColumns = `id, product_id, warehouse_id, quantity, version, created_at, updated_at`

// StockRepository persiste os saldos por produto e armazém.
type StockRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// NewStockRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewStockRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *StockRepository {
	return &StockRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStockLevel(row rowScanner) (domain.StockLevel, error) {
	var sl domain.StockLevel
	err := row.Scan(&sl.ID, &sl.ProductID, &sl.WarehouseID, &sl.Quantity, &sl.Version, &sl.CreatedAt, &sl.UpdatedAt)
	return sl, err
}

// GetStockLevel busca o nível de estoque de um produto em um armazém.
func (r *StockRepository) GetStockLevel(ctx context.Context, productID, warehouseID string) (domain.StockLevel, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + stockColumns + ` FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2`

	sl, err := scanStockLevel(r.DB.QueryRowContext(ctxTimeout, query, productID, warehouseID))
	if err == sql.ErrNoRows {
		return domain.StockLevel{}, errors.NewNotFoundError(fmt.Sprintf("Estoque do produto %s no armazém %s não encontrado.", productID, warehouseID))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar nível de estoque no DB.", err)
		return domain.StockLevel{}, errors.NewDBError("Falha ao buscar nível de estoque", err)
	}
	return sl, nil
}

// ListStockLevels retorna os saldos filtrados por produto e/ou armazém.
func (r *StockRepository) ListStockLevels(ctx context.Context, filter domain.StockFilter) ([]domain.StockLevel, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var q database.ListQuery
	if filter.ProductID != "" {
		q.Where("product_id = ?", filter.ProductID)
	}
	if filter.WarehouseID != "" {
		q.Where("warehouse_id = ?", filter.WarehouseID)
	}

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT `+stockColumns+` FROM stock_levels`+q.WhereClause()+` ORDER BY updated_at DESC LIMIT 500`, q.Args()...)
	if err != nil {
		r.logger.Error("Falha ao listar níveis de estoque.", err)
		return nil, errors.NewDBError("Falha ao listar estoque", err)
	}
	defer rows.Close()

	levels := []domain.StockLevel{}
	for rows.Next() {
		sl, err := scanStockLevel(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao ler nível de estoque", err)
		}
		levels = append(levels, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar níveis de estoque", err)
	}
	return levels, nil
}

// UpdateStockLevel aplica um ajuste ao estoque, utilizando transação e controle de concorrência otimista (OCC).
// O saldo agregado em products.stock recebe o mesmo delta na mesma transação.
func (r *StockRepository) UpdateStockLevel(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error) {
	fields := map[string]interface{}{
		"product_id":   adjustment.ProductID,
		"warehouse_id": adjustment.WarehouseID,
		"delta":        adjustment.Delta,
	}
	r.logger.Debug("Iniciando atualização de estoque no repositório.", fields)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação para atualização de estoque.", err)
		return domain.StockLevel{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	now := r.now()

	// 1. Obter o nível atual (a version lida aqui é a condição do UPDATE).
	current, err := scanStockLevel(tx.QueryRowContext(ctxTimeout,
		`SELECT `+stockColumns+` FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2`,
		adjustment.ProductID, adjustment.WarehouseID))

	var result domain.StockLevel
	switch {
	case err == sql.ErrNoRows:
		// 2a. Sem registro: inserção inicial.
		if adjustment.Delta < 0 {
			r.logger.Warn("Tentativa de criar estoque com quantidade negativa.", fields)
			return domain.StockLevel{}, errors.NewValidationError("Não é possível criar estoque com quantidade negativa.")
		}
		result, err = scanStockLevel(tx.QueryRowContext(ctxTimeout, `
            INSERT INTO stock_levels (id, product_id, warehouse_id, quantity, version, created_at, updated_at)
            VALUES ($1, $2, $3, $4, 1, $5, $5)
            RETURNING `+stockColumns,
			uuid.New().String(), adjustment.ProductID, adjustment.WarehouseID, adjustment.Delta, now,
		))
		if err != nil {
			if database.IsForeignKeyViolation(err) {
				return domain.StockLevel{}, errors.NewValidationError("Produto ou armazém inexistente.")
			}
			if database.IsUniqueViolation(err) {
				// Outra transação criou o registro entre o SELECT e o INSERT.
				return domain.StockLevel{}, errors.NewConflictError("O estoque foi modificado por outra operação. Tente novamente.")
			}
			r.logger.Error("Falha ao inserir novo nível de estoque.", err)
			return domain.StockLevel{}, errors.NewDBError("Falha ao inserir novo nível de estoque", err)
		}

	case err != nil:
		r.logger.Error("Falha ao selecionar nível de estoque para atualização.", err)
		return domain.StockLevel{}, errors.NewDBError("Falha ao buscar estoque para atualização", err)

	default:
		// 2b. Aplicar o ajuste e verificar se a quantidade resultará em negativo.
		newQuantity := current.Quantity + adjustment.Delta
		if newQuantity < 0 {
			r.logger.Warn("Tentativa de ajustar estoque para quantidade negativa.", fields)
			return domain.StockLevel{}, errors.NewValidationError("Ajuste resultaria em quantidade de estoque negativa.")
		}

		res, err := tx.ExecContext(ctxTimeout, `
            UPDATE stock_levels
            SET quantity = $1, version = version + 1, updated_at = $2
            WHERE id = $3 AND version = $4`,
			newQuantity, now, current.ID, current.Version)
		if err != nil {
			r.logger.Error("Falha ao atualizar nível de estoque.", err)
			return domain.StockLevel{}, errors.NewDBError("Falha ao atualizar estoque", err)
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return domain.StockLevel{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
		}
		if rowsAffected == 0 {
			r.logger.Warn("Falha no controle de concorrência otimista (OCC).", map[string]interface{}{
				"stock_level_id":   current.ID,
				"expected_version": current.Version,
			})
			return domain.StockLevel{}, errors.NewConflictError("O estoque foi modificado por outra operação. Tente novamente.")
		}

		result = current
		result.Quantity = newQuantity
		result.Version = current.Version + 1
		result.UpdatedAt = now
	}

	// 3. Refletir o delta no saldo agregado do produto.
	res, err := tx.ExecContext(ctxTimeout,
		`UPDATE products SET stock = stock + $1, updated_at = $2 WHERE id = $3 AND stock + $1 >= 0`,
		adjustment.Delta, now, adjustment.ProductID)
	if err != nil {
		r.logger.Error("Falha ao atualizar estoque agregado do produto.", err)
		return domain.StockLevel{}, errors.NewDBError("Falha ao atualizar estoque do produto", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return domain.StockLevel{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	} else if n == 0 {
		return domain.StockLevel{}, errors.NewValidationError("Ajuste resultaria em estoque total negativo para o produto.")
	}

	// 4. Commitar a transação
	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação de atualização de estoque.", err)
		return domain.StockLevel{}, errors.NewDBError("Falha ao commitar transação", err)
	}

	r.logger.Info("Nível de estoque atualizado com sucesso.", map[string]interface{}{
		"product_id":   result.ProductID,
		"warehouse_id": result.WarehouseID,
		"new_quantity": result.Quantity,
		"new_version":  result.Version,
	})
	return result, nil
}
