package booking

import (
	"github.com/google/uuid"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
)

// RoomInventory is the slice of a room the availability engine needs.
type RoomInventory struct {
	RoomID        uuid.UUID
	HotelID       uuid.UUID
	TotalRooms    int
	PricePerNight float64
}

// Availability is the outcome of an inventory check.
type Availability struct {
	Available      bool `json:"available"`
	AvailableRooms int  `json:"availableRooms"`
	TotalRooms     int  `json:"totalRooms"`
	RequestedRooms int  `json:"requestedRooms"`
}

// Evaluate compares the free inventory against a request.
func Evaluate(totalRooms, bookedRooms, requested int) Availability {
	available := totalRooms - bookedRooms
	return Availability{
		Available:      available >= requested,
		AvailableRooms: available,
		TotalRooms:     totalRooms,
		RequestedRooms: requested,
	}
}

// Holding is the minimal projection of a booking used for overlap counting.
type Holding struct {
	Status     BookingStatus
	Stay       StayRange
	RoomsCount int
}

// BookedRooms sums roomsCount over holdings that occupy inventory and overlap stay.
func BookedRooms(holdings []Holding, stay StayRange) int {
	booked := 0
	for _, h := range holdings {
		if h.Status.HoldsInventory() && h.Stay.Overlaps(stay) {
			booked += h.RoomsCount
		}
	}
	return booked
}

// Reservation is a request to hold roomsCount rooms for a stay.
type Reservation struct {
	UserID     uuid.UUID
	HotelID    uuid.UUID
	RoomID     uuid.UUID
	Stay       StayRange
	Guests     int
	RoomsCount int
}

// Admit applies the ordered creation rules to a locked room snapshot and the
// rooms already committed for the stay, returning the new pending booking.
func (r Reservation) Admit(room *RoomInventory, bookedRooms int) (*Booking, error) {
	if room == nil || room.HotelID != r.HotelID {
		return nil, domain.NewNotFoundError("Room", r.RoomID.String())
	}

	avail := Evaluate(room.TotalRooms, bookedRooms, r.RoomsCount)
	if !avail.Available {
		return nil, &domain.InsufficientInventoryError{
			Available: avail.AvailableRooms,
			Requested: r.RoomsCount,
		}
	}

	total := TotalAmount(room.PricePerNight, r.RoomsCount, r.Stay.Nights())
	return NewBooking(r.UserID, r.HotelID, r.RoomID, r.Stay, r.Guests, r.RoomsCount, total)
}
