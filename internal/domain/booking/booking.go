package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
)

// Booking is the aggregate root for a room reservation.
type Booking struct {
	id            uuid.UUID
	userID        uuid.UUID
	hotelID       uuid.UUID
	roomID        uuid.UUID
	stay          StayRange
	guests        int
	roomsCount    int
	totalAmount   float64
	status        BookingStatus
	paymentStatus PaymentStatus

	cancelledAt *time.Time
	completedAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking with status PENDING_PAYMENT.
func NewBooking(
	userID, hotelID, roomID uuid.UUID,
	stay StayRange,
	guests, roomsCount int,
	totalAmount float64,
) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if guests <= 0 {
		return nil, domain.NewValidationError("guests must be positive")
	}
	if roomsCount <= 0 {
		return nil, domain.NewValidationError("roomsCount must be positive")
	}
	if !stay.CheckIn.Before(stay.CheckOut) {
		return nil, domain.NewInvalidRangeError("Check-out must be after check-in")
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		userID:        userID,
		hotelID:       hotelID,
		roomID:        roomID,
		stay:          stay,
		guests:        guests,
		roomsCount:    roomsCount,
		totalAmount:   totalAmount,
		status:        StatusPendingPayment,
		paymentStatus: PaymentPending,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, userID, hotelID, roomID uuid.UUID,
	stay StayRange,
	guests, roomsCount int,
	totalAmount float64,
	status BookingStatus,
	paymentStatus PaymentStatus,
	cancelledAt, completedAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		userID:        userID,
		hotelID:       hotelID,
		roomID:        roomID,
		stay:          stay,
		guests:        guests,
		roomsCount:    roomsCount,
		totalAmount:   totalAmount,
		status:        status,
		paymentStatus: paymentStatus,
		cancelledAt:   cancelledAt,
		completedAt:   completedAt,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) UserID() uuid.UUID            { return b.userID }
func (b *Booking) HotelID() uuid.UUID           { return b.hotelID }
func (b *Booking) RoomID() uuid.UUID            { return b.roomID }
func (b *Booking) Stay() StayRange              { return b.stay }
func (b *Booking) CheckIn() time.Time           { return b.stay.CheckIn }
func (b *Booking) CheckOut() time.Time          { return b.stay.CheckOut }
func (b *Booking) Guests() int                  { return b.guests }
func (b *Booking) RoomsCount() int              { return b.roomsCount }
func (b *Booking) TotalAmount() float64         { return b.totalAmount }
func (b *Booking) Status() BookingStatus        { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) CancelledAt() *time.Time      { return b.cancelledAt }
func (b *Booking) CompletedAt() *time.Time      { return b.completedAt }
func (b *Booking) Version() int64               { return b.version }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }

// Holding projects the booking for overlap counting.
func (b *Booking) Holding() Holding {
	return Holding{Status: b.status, Stay: b.stay, RoomsCount: b.roomsCount}
}

// IsOwnedBy reports whether the booking belongs to the given user.
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

// --- Behavior ---

// Confirm records a successful payment.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return invalidTransition(b.status, StatusConfirmed)
	}
	b.status = StatusConfirmed
	b.paymentStatus = PaymentCompleted
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel releases the booking's inventory.
func (b *Booking) Cancel() error {
	switch b.status {
	case StatusCancelled:
		return domain.NewInvalidStateError("Booking is already cancelled")
	case StatusCompleted:
		return domain.NewInvalidStateError("Cannot cancel completed booking")
	}
	if !b.status.CanTransitionTo(StatusCancelled) {
		return invalidTransition(b.status, StatusCancelled)
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// Complete marks a confirmed stay as concluded.
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return invalidTransition(b.status, StatusCompleted)
	}
	now := time.Now().UTC()
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

// TransitionTo moves the booking to target through the matching behavior.
// Requesting the current status is a no-op.
func (b *Booking) TransitionTo(target BookingStatus) error {
	if target == b.status {
		return nil
	}
	switch target {
	case StatusConfirmed:
		return b.Confirm()
	case StatusCancelled:
		return b.Cancel()
	case StatusCompleted:
		return b.Complete()
	default:
		return invalidTransition(b.status, target)
	}
}

// SetPaymentStatus records the payment side of the booking.
func (b *Booking) SetPaymentStatus(p PaymentStatus) error {
	if !p.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid payment status: %s", p))
	}
	b.paymentStatus = p
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

func invalidTransition(from, to BookingStatus) error {
	return domain.NewInvalidStateError(fmt.Sprintf("cannot transition booking from %s to %s", from, to))
}
