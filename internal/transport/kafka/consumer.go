package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Sebastiaaann/Tienda-Vinilos/internal/domain"
	"github.com/Sebastiaaann/Tienda-Vinilos/internal/notification"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/ctxlog"
	"github.com/Sebastiaaann/Tienda-Vinilos/pkg/kafka"
)

// Consumer feeds order events into the notification service. The email
// pipeline is best effort: a failed handler leaves the message unmarked so
// the group redelivers it, and deduplication keeps retries from double
// sending.
type Consumer struct {
	service *notification.Service
	logger  *zap.Logger
}

func NewConsumer(service *notification.Service, logger *zap.Logger) *Consumer {
	return &Consumer{
		service: service,
		logger:  logger,
	}
}

func (c *Consumer) Start(ctx context.Context, brokers []string, groupID, topic string) {
	consumerGroup := kafka.NewConsumerGroup(
		brokers,
		groupID,
		[]string{topic},
		c.processMessage,
		c.logger,
	)

	consumerGroup.Run(ctx)
}

func (c *Consumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ctxlog.Info(
		ctx,
		c.logger,
		"Processing message",
		zap.String("topic", msg.Topic),
	)

	var probe struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(msg.Value, &probe); err != nil {
		ctxlog.Error(ctx, c.logger, "Error unmarshalling event envelope", zap.Error(err))
		return err
	}

	switch probe.Event {
	case "OrderCreated":
		var event domain.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			ctxlog.Error(ctx, c.logger, "Error parsing OrderCreated event", zap.Error(err))
			return nil
		}

		if err := c.service.HandleOrderCreated(ctx, event); err != nil {
			ctxlog.Error(ctx, c.logger, "Error processing OrderCreated event",
				zap.String("order_number", event.OrderNumber), zap.Error(err))
			return err
		}
	default:
		ctxlog.Warn(ctx, c.logger, "Ignored event type", zap.String("event", probe.Event))
	}

	return nil
}
