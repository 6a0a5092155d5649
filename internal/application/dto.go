package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
	bookingDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/booking"
	hotelDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/hotel"
	reviewDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/review"
	userDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/user"
)

// HotelSummaryDTO is the hotel block embedded in bookings.
type HotelSummaryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	MainImage string    `json:"mainImage,omitempty"`
}

// RoomSummaryDTO is the room block embedded in bookings.
type RoomSummaryDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	RoomType      string    `json:"roomType"`
	PricePerNight float64   `json:"pricePerNight"`
}

// UserSummaryDTO identifies the author of a booking or review.
type UserSummaryDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"userId"`
	HotelID       uuid.UUID        `json:"hotelId"`
	RoomID        uuid.UUID        `json:"roomId"`
	CheckIn       time.Time        `json:"checkIn"`
	CheckOut      time.Time        `json:"checkOut"`
	Nights        int              `json:"nights"`
	Guests        int              `json:"guests"`
	RoomsCount    int              `json:"roomsCount"`
	TotalAmount   float64          `json:"totalAmount"`
	Status        string           `json:"status"`
	PaymentStatus string           `json:"paymentStatus"`
	CancelledAt   *time.Time       `json:"cancelledAt,omitempty"`
	CompletedAt   *time.Time       `json:"completedAt,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	Hotel         *HotelSummaryDTO `json:"hotel,omitempty"`
	Room          *RoomSummaryDTO  `json:"room,omitempty"`
	User          *UserSummaryDTO  `json:"user,omitempty"`
}

// CategorizedBookings groups a user's bookings the way the bookings page shows them.
type CategorizedBookings struct {
	Upcoming  []BookingDTO `json:"upcoming"`
	Past      []BookingDTO `json:"past"`
	Cancelled []BookingDTO `json:"cancelled"`
	Pending   []BookingDTO `json:"pending"`
}

// BookingList is one page of bookings.
type BookingList struct {
	Bookings   []BookingDTO      `json:"bookings"`
	Pagination domain.Pagination `json:"pagination"`
}

// RoomDTO is the response representation of a room.
type RoomDTO struct {
	ID            uuid.UUID `json:"id"`
	HotelID       uuid.UUID `json:"hotelId"`
	Name          string    `json:"name"`
	RoomType      string    `json:"roomType"`
	Capacity      int       `json:"capacity"`
	PricePerNight float64   `json:"pricePerNight"`
	TotalRooms    int       `json:"totalRooms"`
	Description   string    `json:"description"`
	Images        []string  `json:"images"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HotelDTO is the response representation of a hotel.
type HotelDTO struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	City          string      `json:"city"`
	Address       string      `json:"address"`
	Description   string      `json:"description"`
	Rating        float64     `json:"rating"`
	Latitude      *float64    `json:"latitude,omitempty"`
	Longitude     *float64    `json:"longitude,omitempty"`
	MainImage     string      `json:"mainImage,omitempty"`
	Images        []string    `json:"images"`
	Amenities     []string    `json:"amenities"`
	StartingPrice *float64    `json:"startingPrice,omitempty"`
	ReviewCount   *int64      `json:"reviewCount,omitempty"`
	Rooms         []RoomDTO   `json:"rooms,omitempty"`
	Reviews       []ReviewDTO `json:"reviews,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// HotelList is one page of catalog results.
type HotelList struct {
	Hotels     []HotelDTO        `json:"hotels"`
	Pagination domain.Pagination `json:"pagination"`
}

// ReviewDTO is the response representation of a review.
type ReviewDTO struct {
	ID        uuid.UUID       `json:"id"`
	HotelID   uuid.UUID       `json:"hotelId"`
	UserID    uuid.UUID       `json:"userId"`
	Rating    int             `json:"rating"`
	Comment   string          `json:"comment,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	User      *UserSummaryDTO `json:"user,omitempty"`
}

// ReviewList is one page of reviews.
type ReviewList struct {
	Reviews    []ReviewDTO       `json:"reviews"`
	Pagination domain.Pagination `json:"pagination"`
}

// UserDTO is the public representation of an account.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// --- Mappers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:            bk.ID(),
		UserID:        bk.UserID(),
		HotelID:       bk.HotelID(),
		RoomID:        bk.RoomID(),
		CheckIn:       bk.CheckIn(),
		CheckOut:      bk.CheckOut(),
		Nights:        bk.Stay().Nights(),
		Guests:        bk.Guests(),
		RoomsCount:    bk.RoomsCount(),
		TotalAmount:   bk.TotalAmount(),
		Status:        string(bk.Status()),
		PaymentStatus: string(bk.PaymentStatus()),
		CancelledAt:   bk.CancelledAt(),
		CompletedAt:   bk.CompletedAt(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toHotelSummary(h *hotelDomain.Hotel) *HotelSummaryDTO {
	if h == nil {
		return nil
	}
	return &HotelSummaryDTO{
		ID:        h.ID(),
		Name:      h.Name(),
		Address:   h.Address(),
		City:      h.City(),
		MainImage: h.MainImage(),
	}
}

func toRoomSummary(r *hotelDomain.Room) *RoomSummaryDTO {
	if r == nil {
		return nil
	}
	return &RoomSummaryDTO{
		ID:            r.ID(),
		Name:          r.Name(),
		RoomType:      r.RoomType(),
		PricePerNight: r.PricePerNight(),
	}
}

func toUserSummary(u *userDomain.User, withEmail bool) *UserSummaryDTO {
	if u == nil {
		return nil
	}
	s := &UserSummaryDTO{ID: u.ID(), Name: u.Name()}
	if withEmail {
		s.Email = u.Email()
	}
	return s
}

func toRoomDTO(r *hotelDomain.Room) RoomDTO {
	return RoomDTO{
		ID:            r.ID(),
		HotelID:       r.HotelID(),
		Name:          r.Name(),
		RoomType:      r.RoomType(),
		Capacity:      r.Capacity(),
		PricePerNight: r.PricePerNight(),
		TotalRooms:    r.TotalRooms(),
		Description:   r.Description(),
		Images:        nonNil(r.Images()),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}

func toHotelDTO(h *hotelDomain.Hotel) HotelDTO {
	return HotelDTO{
		ID:          h.ID(),
		Name:        h.Name(),
		City:        h.City(),
		Address:     h.Address(),
		Description: h.Description(),
		Rating:      h.Rating(),
		Latitude:    h.Latitude(),
		Longitude:   h.Longitude(),
		MainImage:   h.MainImage(),
		Images:      nonNil(h.Images()),
		Amenities:   nonNil(h.Amenities()),
		CreatedAt:   h.CreatedAt(),
		UpdatedAt:   h.UpdatedAt(),
	}
}

func toReviewDTO(rv *reviewDomain.Review, author *userDomain.User) ReviewDTO {
	return ReviewDTO{
		ID:        rv.ID(),
		HotelID:   rv.HotelID(),
		UserID:    rv.UserID(),
		Rating:    rv.Rating(),
		Comment:   rv.Comment(),
		CreatedAt: rv.CreatedAt(),
		User:      toUserSummary(author, false),
	}
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email(),
		Phone:     u.Phone(),
		Role:      string(u.Role()),
		Status:    string(u.Status()),
		CreatedAt: u.CreatedAt(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
