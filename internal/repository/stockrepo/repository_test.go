package stockrepo_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/logger"
	"warehub/internal/repository/stockrepo"
)

var columns = []string{"id", "product_id", "warehouse_id", "quantity", "version", "created_at", "updated_at"}

func newRepo(t *testing.T) (*stockrepo.StockRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return stockrepo.NewStockRepository(db, time.Second, logger.NewLoggerWithWriter("error", io.Discard)), mock
}

func adjustment(delta int) domain.StockAdjustmentRequest {
	return domain.StockAdjustmentRequest{ProductID: "p1", WarehouseID: "w1", Delta: delta}
}

func TestUpdateStockLevel_ExistingRow(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM stock_levels WHERE product_id = \\$1 AND warehouse_id = \\$2").
		WithArgs("p1", "w1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("s1", "p1", "w1", 10, 3, now, now))
	mock.ExpectExec("UPDATE stock_levels").
		WithArgs(15, sqlmock.AnyArg(), "s1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products SET stock = stock \\+ \\$1").
		WithArgs(5, sqlmock.AnyArg(), "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sl, err := repo.UpdateStockLevel(context.Background(), adjustment(5))
	require.NoError(t, err)
	assert.Equal(t, 15, sl.Quantity)
	assert.Equal(t, 4, sl.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStockLevel_VersionConflict(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM stock_levels").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("s1", "p1", "w1", 10, 3, now, now))
	mock.ExpectExec("UPDATE stock_levels").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.UpdateStockLevel(context.Background(), adjustment(-2))
	var conflict *apperror.ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStockLevel_NegativeResult(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM stock_levels").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("s1", "p1", "w1", 1, 1, now, now))
	mock.ExpectRollback()

	_, err := repo.UpdateStockLevel(context.Background(), adjustment(-2))
	var validation *apperror.ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStockLevel_CreatesRow(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM stock_levels").WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery("INSERT INTO stock_levels").
		WithArgs(sqlmock.AnyArg(), "p1", "w1", 7, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("s2", "p1", "w1", 7, 1, now, now))
	mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sl, err := repo.UpdateStockLevel(context.Background(), adjustment(7))
	require.NoError(t, err)
	assert.Equal(t, 7, sl.Quantity)
	assert.Equal(t, 1, sl.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStockLevels(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery("FROM stock_levels WHERE warehouse_id = \\$1").
		WithArgs("w1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("s1", "p1", "w1", 4, 2, now, now))

	levels, err := repo.ListStockLevels(context.Background(), domain.StockFilter{WarehouseID: "w1"})
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 4, levels[0].Quantity)
}
