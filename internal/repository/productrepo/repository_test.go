package productrepo_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/cache"
	"warehub/internal/pkg/logger"
	"warehub/internal/repository/productrepo"
)

const productID = "0b9f5a64-3c2d-4f8e-a1b7-6d2e9c4f1a20"

var columns = []string{"id", "sku", "name", "description", "category", "price", "cost_price", "stock",
	"reorder_level", "unit", "is_active", "created_at", "updated_at"}

func newRepo(t *testing.T) (*productrepo.ProductRepository, sqlmock.Sqlmock, *cache.MemoryClient) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mem := cache.NewMemoryClient()
	repo := productrepo.NewProductRepository(db, mem, time.Second, time.Minute, logger.NewLoggerWithWriter("error", io.Discard))
	return repo, mock, mem
}

func productRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(columns).
		AddRow(productID, "SKU-100", "Pallet Jack", "Manual", "equipment", "1499.00", "999.50", 3, 5, "pcs", true, now, now)
}

func TestFindByID_CacheAside(t *testing.T) {
	repo, mock, mem := newRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id = \\$1").
		WithArgs(productID).
		WillReturnRows(productRow())

	// Primeira leitura: DB + escrita no cache.
	p, err := repo.FindByID(ctx, productID)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1499")))
	assert.True(t, p.IsLowStock)

	cached, err := mem.Get(ctx, "product:"+productID)
	require.NoError(t, err)
	assert.Contains(t, cached, "SKU-100")

	// Segunda leitura: nenhum acesso ao DB.
	again, err := repo.FindByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, p.SKU, again.SKU)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_InvalidatesCache(t *testing.T) {
	repo, mock, mem := newRepo(t)
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "product:"+productID, `{"id":"stale"}`, time.Minute))

	mock.ExpectQuery("UPDATE products").WillReturnRows(productRow())

	_, err := repo.Update(ctx, domain.Product{ID: productID, SKU: "SKU-100"})
	require.NoError(t, err)

	_, err = mem.Get(ctx, "product:"+productID)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestSave_DuplicateSKU(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("INSERT INTO products").WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Save(context.Background(), domain.Product{SKU: "SKU-100"})
	var conflict *apperror.ConflictError
	assert.True(t, errors.As(err, &conflict))
}

func TestList_LowStockFilter(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM products WHERE category = \\$1 AND stock <= reorder_level AND is_active = TRUE").
		WithArgs("equipment").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("ORDER BY created_at DESC LIMIT \\$2 OFFSET \\$3").
		WithArgs("equipment", 10, 0).
		WillReturnRows(productRow())

	filter := domain.ProductFilter{
		ListParams:   domain.ListParams{Page: 1, Limit: 10, Order: domain.SortDesc},
		Category:     "equipment",
		LowStockOnly: true,
		ActiveOnly:   true,
	}
	items, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsLowStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_ReferencedByOrders(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectExec("DELETE FROM products").WithArgs(productID).WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Delete(context.Background(), productID)
	var conflict *apperror.ConflictError
	assert.True(t, errors.As(err, &conflict))
}
