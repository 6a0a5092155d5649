package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/booking"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/messaging"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/metrics"
)

const (
	eventSource    = "hotel-booking"
	publishTimeout = 3 * time.Second
)

// CatalogCache drops cached catalog responses after writes.
type CatalogCache interface {
	Invalidate(ctx context.Context)
}

type nopCache struct{}

func (nopCache) Invalidate(context.Context) {}

// eventPublisher wraps a messaging.Publisher. Failures are logged and never
// surfaced to callers. Each publish gets its own deadline, detached from the
// caller's cancellation, so a slow broker never holds a response open.
type eventPublisher struct {
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
	timeout   time.Duration
}

func (p eventPublisher) publishBooking(ctx context.Context, eventType string, bk *bookingDomain.Booking, actorID uuid.UUID) {
	evt := messaging.BookingEvent{
		BookingID:     bk.ID(),
		UserID:        bk.UserID(),
		HotelID:       bk.HotelID(),
		RoomID:        bk.RoomID(),
		CheckIn:       bk.CheckIn(),
		CheckOut:      bk.CheckOut(),
		RoomsCount:    bk.RoomsCount(),
		TotalAmount:   bk.TotalAmount(),
		Status:        string(bk.Status()),
		PaymentStatus: string(bk.PaymentStatus()),
		ActorID:       actorID,
		OccurredAt:    time.Now().UTC(),
	}
	p.publish(ctx, messaging.TopicBookingEvents, eventType, bk.ID().String(), evt)
}

func (p eventPublisher) publish(ctx context.Context, topic, eventType, subject string, data interface{}) {
	if p.publisher == nil {
		return
	}

	cloudEvent, err := messaging.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		p.record(eventType, "error")
		return
	}

	timeout := p.timeout
	if timeout <= 0 {
		timeout = publishTimeout
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := p.publisher.PublishEvent(pubCtx, topic, cloudEvent.WithSubject(subject)); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.String("subject", subject),
			zap.Error(err),
		)
		p.record(eventType, "error")
		return
	}
	p.record(eventType, "ok")
}

func (p eventPublisher) record(eventType, result string) {
	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(eventType, result).Inc()
	}
}
