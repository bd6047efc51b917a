// Package dashboardservice monta os números da página inicial a partir de
// consultas agregadas executadas em paralelo.
package dashboardservice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"warehub/internal/domain"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/cache"
	"warehub/internal/pkg/logger"
)

const statsCacheKey = "dashboard:stats"

// Limites das consultas do painel.
const (
	DefaultListLimit = 10
	MaxListLimit     = 50
	DefaultSalesDays = 30
	MaxSalesDays     = 365
)

// StatsRepository executa as consultas agregadas.
type StatsRepository interface {
	WarehouseStats(ctx context.Context) (domain.WarehouseStats, error)
	OrderStats(ctx context.Context) (domain.OrderStats, error)
	CustomerStats(ctx context.Context) (domain.CustomerStats, error)
	ProductStats(ctx context.Context) (domain.ProductStats, error)
	SalesSince(ctx context.Context, since time.Time) ([]domain.SalesPoint, error)
}

// ProductLister lista produtos com filtro de estoque baixo.
type ProductLister interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error)
}

// RecentOrders retorna os últimos pedidos.
type RecentOrders interface {
	Recent(ctx context.Context, limit int) ([]domain.Order, error)
}

// Service agrega as métricas do painel.
type Service struct {
	stats    StatsRepository
	products ProductLister
	orders   RecentOrders
	cache    cache.Client
	cacheTTL time.Duration
	logger   logger.Logger
	now      func() time.Time
}

// NewService cria o serviço do painel. As estatísticas ficam em cache por cacheTTL.
func NewService(stats StatsRepository, products ProductLister, orders RecentOrders, c cache.Client, cacheTTL time.Duration, logger logger.Logger) *Service {
	return &Service{
		stats:    stats,
		products: products,
		orders:   orders,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetStats retorna os quatro grupos de estatísticas, do cache quando disponível.
func (s *Service) GetStats(ctx context.Context) (domain.DashboardStats, error) {
	// 1. Cache
	if cached, err := s.cache.Get(ctx, statsCacheKey); err == nil {
		var stats domain.DashboardStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			s.logger.Debug("Estatísticas do painel servidas do cache.", nil)
			return stats, nil
		}
		s.logger.Warn("Entrada de cache do painel corrompida.", nil)
	} else if err != cache.ErrCacheMiss {
		s.logger.Warn("Falha ao ler cache do painel.", map[string]interface{}{"error": err.Error()})
	}

	// 2. Consultas em paralelo; a primeira falha cancela as demais
	var stats domain.DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Warehouses, err = s.stats.WarehouseStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Orders, err = s.stats.OrderStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Customers, err = s.stats.CustomerStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Products, err = s.stats.ProductStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Falha ao calcular estatísticas do painel.", err)
		return domain.DashboardStats{}, err
	}
	stats.GeneratedAt = s.now()

	// 3. Grava no cache
	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, statsCacheKey, string(payload), s.cacheTTL); err != nil {
			s.logger.Warn("Falha ao gravar cache do painel.", map[string]interface{}{"error": err.Error()})
		}
	}
	return stats, nil
}

// LowStock lista os produtos ativos no nível de reposição, do menor estoque para o maior.
func (s *Service) LowStock(ctx context.Context, limit int) ([]domain.Product, error) {
	limit, err := clamp("limit", limit, DefaultListLimit, MaxListLimit)
	if err != nil {
		return nil, err
	}
	products, _, err := s.products.List(ctx, domain.ProductFilter{
		ListParams:   domain.ListParams{Page: 1, Limit: limit, SortBy: "stock", Order: domain.SortAsc},
		LowStockOnly: true,
		ActiveOnly:   true,
	})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// RecentOrders retorna os pedidos mais recentes.
func (s *Service) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	limit, err := clamp("limit", limit, DefaultListLimit, MaxListLimit)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// Sales retorna a série diária de vendas dos últimos days dias (hoje incluso).
// Dias sem pedidos aparecem com zero.
func (s *Service) Sales(ctx context.Context, days int) ([]domain.SalesPoint, error) {
	days, err := clamp("days", days, DefaultSalesDays, MaxSalesDays)
	if err != nil {
		return nil, err
	}

	today := s.now().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	points, err := s.stats.SalesSince(ctx, since)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]domain.SalesPoint, len(points))
	for _, p := range points {
		byDay[p.Date] = p
	}

	series := make([]domain.SalesPoint, 0, days)
	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		p, ok := byDay[key]
		if !ok {
			p = domain.SalesPoint{Date: key, Revenue: decimal.Zero}
		}
		series = append(series, p)
	}
	return series, nil
}

// clamp aplica o padrão quando value é zero e rejeita valores fora de 1..max.
func clamp(field string, value, def, max int) (int, error) {
	if value == 0 {
		return def, nil
	}
	if value < 1 || value > max {
		return 0, apperror.NewFieldValidationError("Parâmetro fora do intervalo.",
			apperror.FieldError{Field: field, Message: fmt.Sprintf("deve estar entre 1 e %d", max)})
	}
	return value, nil
}
