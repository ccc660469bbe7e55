package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/ctxlog"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// StatsRepository aggregates the dashboard figures from the persisted
// orders, products and users.
type StatsRepository interface {
	SalesToday(ctx context.Context, now time.Time) (int64, error)
	PendingOrders(ctx context.Context) (int64, error)
	LowStockProducts(ctx context.Context) (int64, error)
	NewCustomersThisMonth(ctx context.Context, now time.Time) (int64, error)
	SalesLast7Days(ctx context.Context, now time.Time) ([]domain.DailySales, error)
	TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error)
}

type statsRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewStatsRepository(pool *pgxpool.Pool, logger *zap.Logger) StatsRepository {
	return &statsRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("vinilos/stats_repo"),
	}
}

func (r *statsRepo) SalesToday(ctx context.Context, now time.Time) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "StatsRepository.SalesToday")
	defer span.End()

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	query := `
		SELECT COALESCE(SUM(total), 0)
		FROM orders
		WHERE paid_at IS NOT NULL AND paid_at >= $1;
	`

	var total int64
	if err := r.pool.QueryRow(ctx, query, dayStart).Scan(&total); err != nil {
		span.RecordError(err)

		ctxlog.Error(ctx, r.logger, "Failed to sum today's sales", zap.Error(err))

		return 0, fmt.Errorf("failed to sum today's sales: %w", err)
	}

	return total, nil
}

func (r *statsRepo) PendingOrders(ctx context.Context) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "StatsRepository.PendingOrders")
	defer span.End()

	query := `
		SELECT COUNT(*)
		FROM orders
		WHERE status IN ('PENDING', 'CONFIRMED');
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		span.RecordError(err)

		ctxlog.Error(ctx, r.logger, "Failed to count pending orders", zap.Error(err))

		return 0, fmt.Errorf("failed to count pending orders: %w", err)
	}

	return count, nil
}

func (r *statsRepo) LowStockProducts(ctx context.Context) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "StatsRepository.LowStockProducts")
	defer span.End()

	query := `
		SELECT COUNT(*)
		FROM products
		WHERE deleted_at IS NULL AND stock <= min_stock;
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		span.RecordError(err)

		ctxlog.Error(ctx, r.logger, "Failed to count low stock products", zap.Error(err))

		return 0, fmt.Errorf("failed to count low stock products: %w", err)
	}

	return count, nil
}

func (r *statsRepo) NewCustomersThisMonth(ctx context.Context, now time.Time) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "StatsRepository.NewCustomersThisMonth")
	defer span.End()

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	query := `
		SELECT COUNT(*)
		FROM users
		WHERE created_at >= $1;
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query, monthStart).Scan(&count); err != nil {
		span.RecordError(err)

		ctxlog.Error(ctx, r.logger, "Failed to count new customers", zap.Error(err))

		return 0, fmt.Errorf("failed to count new customers: %w", err)
	}

	return count, nil
}

// SalesLast7Days buckets paid-order totals per calendar day, oldest first,
// zero-filling days without sales.
func (r *statsRepo) SalesLast7Days(ctx context.Context, now time.Time) ([]domain.DailySales, error) {
	ctx, span := r.tracer.Start(ctx, "StatsRepository.SalesLast7Days")
	defer span.End()

	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)

	query := `
		SELECT DATE(paid_at), COALESCE(SUM(total), 0)
		FROM orders
		WHERE paid_at IS NOT NULL AND paid_at >= $1
		GROUP BY DATE(paid_at);
	`

	rows, err := r.pool.Query(ctx, query, from)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(ctx, r.logger, "Failed to query daily sales", zap.Error(err))

		return nil, fmt.Errorf("failed to query daily sales: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var day time.Time
		var total int64
		if err := rows.Scan(&day, &total); err != nil {
			span.RecordError(err)
			return nil, err
		}
		totals[day.Format("2006-01-02")] = total
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	result := make([]domain.DailySales, 0, 7)
	for i := 0; i < 7; i++ {
		day := from.AddDate(0, 0, i).Format("2006-01-02")
		result = append(result, domain.DailySales{
			Date:  day,
			Total: totals[day],
		})
	}

	return result, nil
}

func (r *statsRepo) TopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	ctx, span := r.tracer.Start(ctx, "StatsRepository.TopProducts")
	defer span.End()

	query := `
		SELECT product_id, MAX(name), MAX(category),
			SUM(quantity) AS units_sold, SUM(price * quantity) AS revenue
		FROM order_items
		GROUP BY product_id
		ORDER BY units_sold DESC
		LIMIT $1;
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(ctx, r.logger, "Failed to query top products", zap.Error(err))

		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	var result []domain.TopProduct
	for rows.Next() {
		var p domain.TopProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.UnitsSold, &p.Revenue); err != nil {
			span.RecordError(err)
			return nil, err
		}
		result = append(result, p)
	}

	return result, rows.Err()
}

func (r *statsRepo) RecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error) {
	ctx, span := r.tracer.Start(ctx, "StatsRepository.RecentOrders")
	defer span.End()

	query := `
		SELECT id, order_number, customer_name, created_at, total, status
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1;
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(ctx, r.logger, "Failed to query recent orders", zap.Error(err))

		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer rows.Close()

	var result []domain.RecentOrder
	for rows.Next() {
		var o domain.RecentOrder
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.Date, &o.Total, &o.Status); err != nil {
			span.RecordError(err)
			return nil, err
		}
		result = append(result, o)
	}

	return result, rows.Err()
}
