package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/application"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/messaging"
)

// PaymentHandler is the subset of the booking service driven by payment events.
type PaymentHandler interface {
	ConfirmPayment(ctx context.Context, bookingID uuid.UUID) error
	FailPayment(ctx context.Context, bookingID uuid.UUID) error
	RefundPayment(ctx context.Context, bookingID uuid.UUID) error
}

// PaymentEventConsumer listens to payment events and moves bookings through
// their payment lifecycle.
type PaymentEventConsumer struct {
	consumer *messaging.KafkaConsumer
	service  PaymentHandler
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service PaymentHandler,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := messaging.NewKafkaConsumer(brokers, groupID, messaging.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	return c.Handle(ctx, msg.Value)
}

// Handle processes one raw CloudEvent. It returns an error only when the
// message should be retried.
func (c *PaymentEventConsumer) Handle(ctx context.Context, raw []byte) error {
	event, err := messaging.ParseCloudEvent(raw)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(raw)),
		)
		return nil // Don't retry malformed messages
	}

	var apply func(context.Context, uuid.UUID) error
	switch event.Type {
	case messaging.PaymentSucceeded:
		apply = c.service.ConfirmPayment
	case messaging.PaymentFailed:
		apply = c.service.FailPayment
	case messaging.PaymentRefunded:
		apply = c.service.RefundPayment
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", event.Type),
		)
		return nil
	}

	var evt messaging.PaymentEvent
	if err := event.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse payment event data",
			zap.String("type", event.Type),
			zap.Error(err),
		)
		return nil
	}

	c.logger.Info("processing payment event",
		zap.String("type", event.Type),
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	if err := apply(ctx, evt.BookingID); err != nil {
		if application.IsRetryable(err) {
			return err
		}
		c.logger.Warn("payment event rejected",
			zap.String("type", event.Type),
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
	}
	return nil
}
