package dashboardrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"warehub/internal/domain"
	"warehub/internal/errors"
	"warehub/internal/pkg/logger"
)

// DashboardRepository executa as consultas agregadas do painel.
type DashboardRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewDashboardRepository cria uma nova instância do DashboardRepository.
func NewDashboardRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *DashboardRepository {
	return &DashboardRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

// WarehouseStats soma capacidade e ocupação de todos os armazéns.
func (r *DashboardRepository) WarehouseStats(ctx context.Context) (domain.WarehouseStats, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var s domain.WarehouseStats
	err := r.DB.QueryRowContext(ctxTimeout, `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'active'),
               COALESCE(SUM(capacity), 0),
               COALESCE(SUM(occupied), 0)
        FROM warehouses`).Scan(&s.Total, &s.Active, &s.Capacity, &s.Occupied)
	if err != nil {
		r.logger.Error("Falha ao agregar armazéns.", err)
		return domain.WarehouseStats{}, errors.NewDBError("Falha ao agregar armazéns", err)
	}
	if s.Capacity > 0 {
		s.Utilization = decimal.NewFromInt(s.Occupied * 100).Div(decimal.NewFromInt(s.Capacity)).Round(2).InexactFloat64()
	}
	return s, nil
}

// OrderStats conta pedidos e soma a receita. Pedidos cancelados ou devolvidos não entram na receita.
func (r *DashboardRepository) OrderStats(ctx context.Context) (domain.OrderStats, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var s domain.OrderStats
	err := r.DB.QueryRowContext(ctxTimeout, `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'pending'),
               COALESCE(SUM(total) FILTER (WHERE status NOT IN ('cancelled', 'returned')), 0)
        FROM orders`).Scan(&s.Total, &s.Pending, &s.Revenue)
	if err != nil {
		r.logger.Error("Falha ao agregar pedidos.", err)
		return domain.OrderStats{}, errors.NewDBError("Falha ao agregar pedidos", err)
	}
	return s, nil
}

// CustomerStats conta clientes por segmento.
func (r *DashboardRepository) CustomerStats(ctx context.Context) (domain.CustomerStats, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT segment, COUNT(*) FROM customers GROUP BY segment`)
	if err != nil {
		r.logger.Error("Falha ao agregar clientes.", err)
		return domain.CustomerStats{}, errors.NewDBError("Falha ao agregar clientes", err)
	}
	defer rows.Close()

	s := domain.CustomerStats{BySegment: map[domain.CustomerSegment]int{
		domain.SegmentPremium: 0,
		domain.SegmentRegular: 0,
		domain.SegmentNew:     0,
	}}
	for rows.Next() {
		var segment domain.CustomerSegment
		var count int
		if err := rows.Scan(&segment, &count); err != nil {
			return domain.CustomerStats{}, errors.NewDBError("Falha ao ler agregado de clientes", err)
		}
		s.BySegment[segment] = count
		s.Total += count
	}
	if err := rows.Err(); err != nil {
		return domain.CustomerStats{}, errors.NewDBError("Falha ao iterar agregado de clientes", err)
	}
	return s, nil
}

// ProductStats conta produtos e os que estão no nível de reposição.
func (r *DashboardRepository) ProductStats(ctx context.Context) (domain.ProductStats, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var s domain.ProductStats
	err := r.DB.QueryRowContext(ctxTimeout, `
        SELECT COUNT(*), COUNT(*) FILTER (WHERE stock <= reorder_level)
        FROM products`).Scan(&s.Total, &s.LowStock)
	if err != nil {
		r.logger.Error("Falha ao agregar produtos.", err)
		return domain.ProductStats{}, errors.NewDBError("Falha ao agregar produtos", err)
	}
	return s, nil
}

// SalesSince retorna pedidos e receita por dia (UTC) desde since. Dias sem vendas não aparecem.
func (r *DashboardRepository) SalesSince(ctx context.Context, since time.Time) ([]domain.SalesPoint, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `
        SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*), COALESCE(SUM(total), 0)
        FROM orders
        WHERE created_at >= $1 AND status NOT IN ('cancelled', 'returned')
        GROUP BY day
        ORDER BY day`, since)
	if err != nil {
		r.logger.Error("Falha ao consultar série de vendas.", err)
		return nil, errors.NewDBError("Falha ao consultar vendas", err)
	}
	defer rows.Close()

	points := []domain.SalesPoint{}
	for rows.Next() {
		var p domain.SalesPoint
		if err := rows.Scan(&p.Date, &p.Orders, &p.Revenue); err != nil {
			return nil, errors.NewDBError("Falha ao ler série de vendas", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar série de vendas", err)
	}
	return points, nil
}
