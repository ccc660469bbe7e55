package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/notification/email"
	outboxUtils "github.com/Sebastiaaann/Tienda-Vinilos/pkg/outbox/utils"
)

// Service sends the customer-facing emails. Every handler runs under
// deduplication, so a redelivered event never emails twice.
type Service struct {
	emailSender email.Sender
	logger      *zap.Logger
	pool        *pgxpool.Pool
	tracer      trace.Tracer
}

func NewService(emailSender email.Sender, logger *zap.Logger, pool *pgxpool.Pool) *Service {
	return &Service{
		emailSender: emailSender,
		logger:      logger,
		pool:        pool,
		tracer:      otel.Tracer("vinilos/notification_service"),
	}
}

func (s *Service) HandleOrderCreated(ctx context.Context, event domain.OrderCreatedEvent) error {
	ctx, span := s.tracer.Start(ctx, "NotificationService.HandleOrderCreated")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("event_id", event.EventID),
		attribute.String("order.number", event.OrderNumber),
	)

	return outboxUtils.ProcessWithDeduplication(ctx, s.pool, s.logger, event.EventID, func() error {
		return s.emailSender.SendOrderConfirmation(ctx, event)
	})
}
