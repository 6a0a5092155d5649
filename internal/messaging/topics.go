package messaging

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

const (
	BookingCreated       = "booking.created"
	BookingConfirmed     = "booking.confirmed"
	BookingCancelled     = "booking.cancelled"
	BookingCompleted     = "booking.completed"
	BookingStatusUpdated = "booking.status_updated"

	PaymentSucceeded = "payment.succeeded"
	PaymentFailed    = "payment.failed"
	PaymentRefunded  = "payment.refunded"
)

// BookingEvent is the payload of every booking.* event.
type BookingEvent struct {
	BookingID     uuid.UUID `json:"bookingId"`
	UserID        uuid.UUID `json:"userId"`
	HotelID       uuid.UUID `json:"hotelId"`
	RoomID        uuid.UUID `json:"roomId"`
	CheckIn       time.Time `json:"checkIn"`
	CheckOut      time.Time `json:"checkOut"`
	RoomsCount    int       `json:"roomsCount"`
	TotalAmount   float64   `json:"totalAmount"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	ActorID       uuid.UUID `json:"actorId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// PaymentEvent is the payload of payment.* events consumed by the service.
type PaymentEvent struct {
	PaymentID  uuid.UUID `json:"paymentId"`
	BookingID  uuid.UUID `json:"bookingId"`
	Amount     float64   `json:"amount"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
