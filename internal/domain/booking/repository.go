package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AdmitFunc decides, under the room lock, whether a reservation may be stored.
// room is nil when the room does not exist.
type AdmitFunc func(room *RoomInventory, bookedRooms int) (*Booking, error)

// ListFilter narrows admin and user booking listings.
type ListFilter struct {
	UserID *uuid.UUID
	Status *BookingStatus
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByUserID retrieves all bookings of a user, newest first.
	FindByUserID(ctx context.Context, userID uuid.UUID, status *BookingStatus) ([]*Booking, error)

	// List retrieves bookings matching the filter with pagination.
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Booking, int64, error)

	// Recent returns the newest bookings.
	Recent(ctx context.Context, limit int) ([]*Booking, error)

	// BookedRooms sums roomsCount of inventory-holding bookings on roomID overlapping stay.
	BookedRooms(ctx context.Context, roomID uuid.UUID, stay StayRange) (int, error)

	// Reserve locks the room row, counts booked rooms for stay, calls admit and
	// inserts the booking it returns, all in one transaction.
	Reserve(ctx context.Context, roomID uuid.UUID, stay StayRange, admit AdmitFunc) (*Booking, error)

	// HasStayAtHotel reports whether the user has a booking at the hotel in one of statuses.
	HasStayAtHotel(ctx context.Context, userID, hotelID uuid.UUID, statuses []BookingStatus) (bool, error)

	// FindEndedConfirmed returns confirmed bookings whose check-out is at or before now.
	FindEndedConfirmed(ctx context.Context, now time.Time, limit int) ([]*Booking, error)

	// Count returns the total number of bookings.
	Count(ctx context.Context) (int64, error)

	// Revenue sums totalAmount over confirmed bookings.
	Revenue(ctx context.Context) (float64, error)

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
