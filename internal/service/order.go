package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/repository"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/ctxlog"
	outboxdomain "github.com/Sebastiaaann/Tienda-Vinilos/pkg/outbox/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/outbox/worker"
)

var (
	ErrEmptyDraft     = errors.New("order draft has no items")
	ErrInvalidStatus  = errors.New("unknown order status")
	ErrInvalidPayment = errors.New("unknown payment method")
)

// Pricing carries the storefront money rules.
type Pricing struct {
	FreeShippingFrom int64
	ShippingFee      int64
	TaxRate          float64
}

// OrderService owns order placement and the back-office order operations.
type OrderService interface {
	PlaceOrder(ctx context.Context, draft domain.DraftOrder) (*domain.Order, error)
	GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error)
	ListOrders(ctx context.Context, status, search string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	pool       *pgxpool.Pool
	orders     repository.OrderRepository
	outbox     worker.OutboxRepository
	pricing    Pricing
	orderTopic string
	logger     *zap.Logger
	tracer     trace.Tracer
}

func NewOrderService(
	pool *pgxpool.Pool,
	orders repository.OrderRepository,
	outbox worker.OutboxRepository,
	pricing Pricing,
	orderTopic string,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		pool:       pool,
		orders:     orders,
		outbox:     outbox,
		pricing:    pricing,
		orderTopic: orderTopic,
		logger:     logger,
		tracer:     otel.Tracer("vinilos/order_service"),
	}
}

// PlaceOrder computes the totals, assigns the order number and stores the
// order together with its OrderCreated outbox record in one transaction, so
// a stored order always has a pending notification and vice versa.
func (s *orderService) PlaceOrder(ctx context.Context, draft domain.DraftOrder) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if len(draft.Items) == 0 {
		return nil, ErrEmptyDraft
	}

	switch draft.Payment {
	case domain.PaymentWebpay, domain.PaymentMercadoPago, domain.PaymentFlow, domain.PaymentTransfer:
	default:
		return nil, ErrInvalidPayment
	}

	subtotal, shipping, tax, total := draft.CalculateTotals(
		s.pricing.FreeShippingFrom,
		s.pricing.ShippingFee,
		s.pricing.TaxRate,
	)

	now := time.Now()

	order := &domain.Order{
		CustomerName:  fmt.Sprintf("%s %s", draft.Customer.FirstName, draft.Customer.LastName),
		CustomerEmail: draft.Customer.Email,
		CustomerPhone: draft.Customer.Phone,
		Status:        domain.OrderStatusPending,
		Subtotal:      subtotal,
		Shipping:      shipping,
		Tax:           tax,
		Total:         total,
		PaymentMethod: draft.Payment,
		Items:         draft.Items,
		Address:       draft.Shipping,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		err := tx.Rollback(cleanupCtx)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			ctxlog.Error(
				cleanupCtx,
				s.logger,
				"failed to rollback transaction",
				zap.Error(err),
				zap.String("method_name", "PlaceOrder"),
			)
		}
	}()

	orderNumber, err := s.orders.NextOrderNumber(ctx, tx, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	order.OrderNumber = orderNumber

	if err := s.orders.CreateOrder(ctx, tx, order); err != nil {
		span.RecordError(err)
		return nil, err
	}

	payload, err := json.Marshal(orderCreatedEvent(order))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order event: %w", err)
	}

	outboxEvent := &outboxdomain.OutboxEvent{
		AggregateType: "order",
		AggregateID:   order.OrderNumber,
		EventType:     "OrderCreated",
		Payload:       payload,
		Topic:         s.orderTopic,
	}

	if err := s.outbox.SaveOutboxEvent(ctx, tx, outboxEvent); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	span.SetAttributes(
		attribute.String("order.number", order.OrderNumber),
		attribute.Int64("order.total", order.Total),
	)

	ctxlog.Info(ctx, s.logger, "order placed",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("total", order.Total),
		zap.Int("items", len(order.Items)))

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder")
	defer span.End()

	return s.orders.GetByOrderNumber(ctx, orderNumber)
}

func (s *orderService) ListOrders(ctx context.Context, status, search string) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	if status != "" && status != "ALL" && !domain.OrderStatus(status).Valid() {
		return nil, ErrInvalidStatus
	}

	return s.orders.List(ctx, status, search)
}

// UpdateStatus accepts any transition between known statuses, including
// reactivating a cancelled order.
func (s *orderService) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orders.UpdateStatus(ctx, orderNumber, status)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ctxlog.Info(ctx, s.logger, "order status updated",
		zap.String("order_number", orderNumber),
		zap.String("status", string(status)))

	return order, nil
}

func orderCreatedEvent(order *domain.Order) domain.OrderCreatedEvent {
	items := make([]domain.OrderItemEvent, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, domain.OrderItemEvent{
			ProductID: item.ProductID,
			Name:      item.Name,
			Artist:    item.Artist,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageUrl:  item.ImageUrl,
		})
	}

	return domain.OrderCreatedEvent{
		Event:         "OrderCreated",
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Items:         items,
		Subtotal:      order.Subtotal,
		Shipping:      order.Shipping,
		Tax:           order.Tax,
		Total:         order.Total,
		Address:       order.Address,
		CreatedAt:     order.CreatedAt,
	}
}
