package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/repository"
)

const (
	topProductsLimit  = 5
	recentOrdersLimit = 5
)

// StatsService assembles the back-office dashboard from live aggregation
// queries. Nothing here is cached; the dashboard always reflects the
// database at request time.
type StatsService interface {
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
}

type statsService struct {
	stats  repository.StatsRepository
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

func NewStatsService(stats repository.StatsRepository, logger *zap.Logger) StatsService {
	return &statsService{
		stats:  stats,
		logger: logger,
		tracer: otel.Tracer("vinilos/stats_service"),
		now:    time.Now,
	}
}

func (s *statsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	ctx, span := s.tracer.Start(ctx, "StatsService.Dashboard")
	defer span.End()

	now := s.now()

	salesToday, err := s.stats.SalesToday(ctx, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	pending, err := s.stats.PendingOrders(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	lowStock, err := s.stats.LowStockProducts(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	newCustomers, err := s.stats.NewCustomersThisMonth(ctx, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	dailySales, err := s.stats.SalesLast7Days(ctx, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	topProducts, err := s.stats.TopProducts(ctx, topProductsLimit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	recentOrders, err := s.stats.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &domain.DashboardStats{
		SalesToday:       salesToday,
		PendingOrders:    pending,
		LowStockProducts: lowStock,
		NewCustomers:     newCustomers,
		SalesLast7Days:   dailySales,
		TopProducts:      topProducts,
		RecentOrders:     recentOrders,
	}, nil
}
