package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/ctxlog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OrderRepository interface {
	NextOrderNumber(ctx context.Context, tx pgx.Tx, day time.Time) (string, error)
	CreateOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	List(ctx context.Context, status, search string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (*domain.Order, error)
}

type orderRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewOrderRepository(pool *pgxpool.Pool, logger *zap.Logger) OrderRepository {
	return &orderRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("vinilos/order_repo"),
	}
}

// NextOrderNumber allocates the next ORD-YYYYMMDD-NNNNN for the given day by
// upserting a per-day counter row inside the caller's transaction. Concurrent
// checkouts serialize on the counter row, so numbers never collide; the
// sequence starts at 00001 and resets with the calendar day.
func (r *orderRepo) NextOrderNumber(ctx context.Context, tx pgx.Tx, day time.Time) (string, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.NextOrderNumber")
	defer span.End()

	query := `
		INSERT INTO order_counters (day, counter)
		VALUES ($1, 1)
		ON CONFLICT (day)
		DO UPDATE SET counter = order_counters.counter + 1
		RETURNING counter;
	`

	var seq int64
	if err := tx.QueryRow(ctx, query, day.Format("2006-01-02")).Scan(&seq); err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Failed to allocate order number",
			zap.Error(err),
		)

		return "", fmt.Errorf("failed to allocate order number: %w", err)
	}

	number := fmt.Sprintf("ORD-%s-%05d", day.Format("20060102"), seq)

	span.SetAttributes(
		attribute.String("order_number", number),
	)

	return number, nil
}

func (r *orderRepo) CreateOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_number", order.OrderNumber),
		attribute.Int("items_count", len(order.Items)),
	)

	queryAddress := `
		INSERT INTO addresses (street, number, apartment, region, city, comuna, zip_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	if err := tx.QueryRow(
		ctx,
		queryAddress,
		order.Address.Street,
		order.Address.Number,
		order.Address.Apartment,
		order.Address.Region,
		order.Address.City,
		order.Address.Comuna,
		order.Address.ZipCode,
	).Scan(&order.Address.ID); err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Failed to insert address",
			zap.Error(err),
		)

		return fmt.Errorf("failed to insert address: %w", err)
	}

	queryOrder := `
		INSERT INTO orders (order_number, customer_name, customer_email, customer_phone,
			address_id, payment_method, status, subtotal, shipping, tax, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := tx.QueryRow(
		ctx,
		queryOrder,
		order.OrderNumber,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.Address.ID,
		string(order.PaymentMethod),
		string(order.Status),
		order.Subtotal,
		order.Shipping,
		order.Tax,
		order.Total,
	).Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Failed to insert order",
			zap.Error(err),
		)

		return fmt.Errorf("failed to insert order: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (order_id, product_id, name, artist, category, price, quantity, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		if err := tx.QueryRow(
			ctx,
			queryItem,
			order.ID,
			item.ProductID,
			item.Name,
			item.Artist,
			item.Category,
			item.Price,
			item.Quantity,
			item.ImageUrl,
		).Scan(&item.ID); err != nil {
			span.RecordError(err)

			ctxlog.Error(
				ctx,
				r.logger,
				"Failed to insert item",
				zap.Error(err),
			)

			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return nil
}

const orderColumns = `o.id, o.order_number, o.customer_name, o.customer_email, o.customer_phone,
		o.status, o.subtotal, o.shipping, o.tax, o.total, o.payment_method,
		o.created_at, o.updated_at, o.paid_at,
		a.id, a.street, a.number, a.apartment, a.region, a.city, a.comuna, a.zip_code`

func scanOrder(row rowScanner, o *domain.Order) error {
	return row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&o.Status,
		&o.Subtotal,
		&o.Shipping,
		&o.Tax,
		&o.Total,
		&o.PaymentMethod,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.PaidAt,
		&o.Address.ID,
		&o.Address.Street,
		&o.Address.Number,
		&o.Address.Apartment,
		&o.Address.Region,
		&o.Address.City,
		&o.Address.Comuna,
		&o.Address.ZipCode,
	)
}

func (r *orderRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetByOrderNumber")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_number", orderNumber),
	)

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders o
		JOIN addresses a ON a.id = o.address_id
		WHERE o.order_number = $1;
	`, orderColumns)

	var order domain.Order
	if err := scanOrder(r.pool.QueryRow(ctx, query, orderNumber), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Failed to query order",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.itemsOfOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *orderRepo) itemsOfOrder(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.itemsOfOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("order_id", orderID),
	)

	query := `
		SELECT id, order_id, product_id, name, artist, category, price, quantity, image_url
		FROM order_items
		WHERE order_id = $1;
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Failed to query order_items",
			zap.Error(err),
		)

		return nil, err
	}
	defer rows.Close()

	var result []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.Artist,
			&item.Category,
			&item.Price,
			&item.Quantity,
			&item.ImageUrl,
		); err != nil {
			span.RecordError(err)

			ctxlog.Error(
				ctx,
				r.logger,
				"Failed to scan row",
				zap.Error(err),
			)

			return nil, err
		}

		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		ctxlog.Error(
			ctx,
			r.logger,
			"Rows error",
			zap.Error(err),
		)

		return nil, err
	}

	return result, nil
}

// List returns orders newest first. status "" or "ALL" means no status
// filter; search is a case-sensitive substring match over order number,
// customer name and customer email, OR-combined. No pagination: the admin
// screen loads the full set, which is fine at current volume.
func (r *orderRepo) List(ctx context.Context, status, search string) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.String("status", status),
		attribute.String("search", search),
	)

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders o
		JOIN addresses a ON a.id = o.address_id
		WHERE 1=1`, orderColumns)

	var args []interface{}
	argId := 1

	if status != "" && status != "ALL" {
		query += fmt.Sprintf(" AND o.status = $%d", argId)
		args = append(args, status)
		argId++
	}

	if search != "" {
		query += fmt.Sprintf(
			" AND (POSITION($%d IN o.order_number) > 0 OR POSITION($%d IN o.customer_name) > 0 OR POSITION($%d IN o.customer_email) > 0)",
			argId, argId, argId,
		)
		args = append(args, search)
		argId++
	}

	query += " ORDER BY o.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Failed to query orders",
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			span.RecordError(err)

			ctxlog.Error(
				ctx,
				r.logger,
				"Failed to scan order",
				zap.Error(err),
			)

			return nil, err
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	for i := range orders {
		items, err := r.itemsOfOrder(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

// UpdateStatus accepts any of the six statuses with no transition graph;
// the back-office may move an order freely, including out of CANCELLED.
// Moving to CONFIRMED stamps paid_at once.
func (r *orderRepo) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.UpdateStatus")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_number", orderNumber),
		attribute.String("status", string(status)),
	)

	query := `
		UPDATE orders
		SET status = $1,
			paid_at = CASE WHEN $1 = 'CONFIRMED' AND paid_at IS NULL THEN NOW() ELSE paid_at END,
			updated_at = NOW()
		WHERE order_number = $2;
	`

	commandTag, err := r.pool.Exec(ctx, query, string(status), orderNumber)
	if err != nil {
		span.RecordError(err)

		ctxlog.Error(
			ctx,
			r.logger,
			"Failed to update order",
			zap.String("order_number", orderNumber),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		ctxlog.Warn(
			ctx,
			r.logger,
			"Order not found",
			zap.String("order_number", orderNumber),
		)

		return nil, ErrOrderNotFound
	}

	return r.GetByOrderNumber(ctx, orderNumber)
}
