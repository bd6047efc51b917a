package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"warehub/internal/domain"
	"warehub/internal/errors"
	"warehub/internal/pkg/cache"
	"warehub/internal/pkg/database"
	"warehub/internal/pkg/logger"
)

// Define a chave de cache para produtos.
const productCacheKey = "product:%s"

const productColumns = `id, sku, name, description, category, price, cost_price, stock, reorder_level, unit,
       is_active, created_at, updated_at`

var sortable = map[string]string{
	"name":       "name",
	"sku":        "sku",
	"price":      "price",
	"stock":      "stock",
	"category":   "category",
	"created_at": "created_at",
}

// ProductRepository contém as conexões necessárias para acessar dados de produtos.
type ProductRepository struct {
	DB        *sql.DB      // Conexão principal com o banco de dados (PostgreSQL)
	Cache     cache.Client // Cliente para operações de cache (Redis)
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
// Aqui injetamos as dependências de Infraestrutura (DB e Cache).
func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.Category,
		&p.Price, &p.CostPrice, &p.Stock, &p.ReorderLevel, &p.Unit,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	p.ComputeLowStock()
	return p, nil
}

// Save persiste um novo Produto.
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO products (id, sku, name, description, category, price, cost_price, stock, reorder_level, unit,
                              is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING ` + productColumns

	created, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query,
		product.ID, product.SKU, product.Name, product.Description, product.Category,
		product.Price, product.CostPrice, product.Stock, product.ReorderLevel, product.Unit,
		product.IsActive, product.CreatedAt, product.UpdatedAt,
	))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Product{}, errors.NewConflictError(fmt.Sprintf("Já existe um produto com o SKU %s.", product.SKU))
		}
		r.logger.Error("Falha ao inserir produto.", err)
		return domain.Product{}, errors.NewDBError("failed to insert product", err)
	}

	r.logger.Info("Produto criado.", map[string]interface{}{"product_id": created.ID, "sku": created.SKU})
	return created, nil
}

// FindByID busca um produto pelo ID, utilizando a estratégia Cache-Aside.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		var cached domain.Product
		if json.Unmarshal([]byte(cachedData), &cached) == nil {
			r.logger.Debug("Produto servido do cache.", map[string]interface{}{"product_id": id})
			return cached, nil
		}
		r.logger.Warn("Entrada de cache de produto corrompida.", map[string]interface{}{"key": key})
	} else if err != cache.ErrCacheMiss {
		// Falha real de cache (ex: conexão perdida): seguimos para o DB.
		r.logger.Warn("Falha ao ler do cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	// 2. Busca no Banco de Dados (PostgreSQL)
	product, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar produto no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao buscar produto no DB", err)
	}

	// 3. Popular o cache para as próximas leituras
	if productJSON, marshalErr := json.Marshal(product); marshalErr == nil {
		if setErr := r.Cache.Set(ctxTimeout, key, productJSON, r.CacheTTL); setErr != nil {
			r.logger.Warn("Falha ao gravar produto no cache.", map[string]interface{}{"key": key, "error": setErr.Error()})
		}
	}

	return product, nil
}

// List retorna a página de produtos que atende ao filtro e o total de registros.
func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var q database.ListQuery
	if filter.Category != "" {
		q.Where("category = ?", filter.Category)
	}
	if filter.LowStockOnly {
		q.Where("stock <= reorder_level")
	}
	if filter.ActiveOnly {
		q.Where("is_active = TRUE")
	}
	q.Search(filter.Search, "name", "sku", "description")

	var total int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM products`+q.WhereClause(), q.Args()...).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar produtos.", err)
		return nil, 0, errors.NewDBError("Falha ao listar produtos", err)
	}

	page, args := q.PageClause(filter.ListParams, sortable, "created_at")
	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+productColumns+` FROM products`+q.WhereClause()+page, args...)
	if err != nil {
		r.logger.Error("Falha ao listar produtos.", err)
		return nil, 0, errors.NewDBError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, filter.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, errors.NewDBError("Falha ao ler produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewDBError("Falha ao iterar produtos", err)
	}
	return products, total, nil
}

// Update substitui os campos editáveis do produto e invalida o cache.
// O estoque agregado (stock) só é alterado pelos ajustes de inventário.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE products
        SET sku = $2, name = $3, description = $4, category = $5, price = $6, cost_price = $7,
            reorder_level = $8, unit = $9, is_active = $10, updated_at = $11
        WHERE id = $1
        RETURNING ` + productColumns

	updated, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query,
		product.ID, product.SKU, product.Name, product.Description, product.Category,
		product.Price, product.CostPrice, product.ReorderLevel, product.Unit, product.IsActive, product.UpdatedAt,
	))
	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", product.ID))
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.Product{}, errors.NewConflictError(fmt.Sprintf("Já existe um produto com o SKU %s.", product.SKU))
		}
		r.logger.Error("Falha ao atualizar produto.", err)
		return domain.Product{}, errors.NewDBError("Falha ao atualizar produto", err)
	}

	r.Invalidate(ctx, product.ID)
	return updated, nil
}

// Delete remove o produto e invalida o cache. Produtos referenciados por pedidos não podem ser removidos.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return errors.NewConflictError("O produto está associado a pedidos e não pode ser removido.")
		}
		r.logger.Error("Falha ao remover produto.", err)
		return errors.NewDBError("Falha ao remover produto", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", id))
	}

	r.Invalidate(ctx, id)
	return nil
}

// Invalidate remove o produto do cache. Falhas são apenas registradas: a entrada expira pelo TTL.
func (r *ProductRepository) Invalidate(ctx context.Context, id string) {
	if err := r.Cache.Delete(ctx, fmt.Sprintf(productCacheKey, id)); err != nil {
		r.logger.Warn("Falha ao invalidar cache de produto.", map[string]interface{}{"product_id": id, "error": err.Error()})
	}
}
