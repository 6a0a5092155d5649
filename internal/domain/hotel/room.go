package hotel

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
)

// Room is a bookable room category of a hotel with a fixed inventory.
type Room struct {
	id            uuid.UUID
	hotelID       uuid.UUID
	name          string
	roomType      string
	capacity      int
	pricePerNight float64
	totalRooms    int
	description   string
	images        []string
	createdAt     time.Time
	updatedAt     time.Time
}

// RoomDetails carries the descriptive fields of a room.
type RoomDetails struct {
	Name          string
	RoomType      string
	Capacity      int
	PricePerNight float64
	TotalRooms    int
	Description   string
	Images        []string
}

func (d RoomDetails) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return domain.NewValidationError("name is required")
	}
	if strings.TrimSpace(d.RoomType) == "" {
		return domain.NewValidationError("roomType is required")
	}
	if d.Capacity <= 0 {
		return domain.NewValidationError("capacity must be positive")
	}
	if d.PricePerNight <= 0 {
		return domain.NewValidationError("pricePerNight must be positive")
	}
	if d.TotalRooms <= 0 {
		return domain.NewValidationError("totalRooms must be positive")
	}
	return nil
}

// NewRoom creates a room under hotelID.
func NewRoom(hotelID uuid.UUID, d RoomDetails) (*Room, error) {
	if hotelID == uuid.Nil {
		return nil, domain.NewValidationError("hotel ID is required")
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Room{
		id:            uuid.New(),
		hotelID:       hotelID,
		name:          d.Name,
		roomType:      d.RoomType,
		capacity:      d.Capacity,
		pricePerNight: d.PricePerNight,
		totalRooms:    d.TotalRooms,
		description:   d.Description,
		images:        d.Images,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructRoom rebuilds a Room from persistence data (no validation).
func ReconstructRoom(id, hotelID uuid.UUID, d RoomDetails, createdAt, updatedAt time.Time) *Room {
	return &Room{
		id:            id,
		hotelID:       hotelID,
		name:          d.Name,
		roomType:      d.RoomType,
		capacity:      d.Capacity,
		pricePerNight: d.PricePerNight,
		totalRooms:    d.TotalRooms,
		description:   d.Description,
		images:        d.Images,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (r *Room) ID() uuid.UUID          { return r.id }
func (r *Room) HotelID() uuid.UUID     { return r.hotelID }
func (r *Room) Name() string           { return r.name }
func (r *Room) RoomType() string       { return r.roomType }
func (r *Room) Capacity() int          { return r.capacity }
func (r *Room) PricePerNight() float64 { return r.pricePerNight }
func (r *Room) TotalRooms() int        { return r.totalRooms }
func (r *Room) Description() string    { return r.description }
func (r *Room) Images() []string       { return r.images }
func (r *Room) CreatedAt() time.Time   { return r.createdAt }
func (r *Room) UpdatedAt() time.Time   { return r.updatedAt }

// RoomChanges is a partial update; nil fields are left untouched.
type RoomChanges struct {
	Name          *string
	RoomType      *string
	Capacity      *int
	PricePerNight *float64
	TotalRooms    *int
	Description   *string
	Images        []string
}

// Apply merges changes into the room and re-validates it.
func (r *Room) Apply(c RoomChanges) error {
	next := RoomDetails{
		Name:          r.name,
		RoomType:      r.roomType,
		Capacity:      r.capacity,
		PricePerNight: r.pricePerNight,
		TotalRooms:    r.totalRooms,
		Description:   r.description,
		Images:        r.images,
	}
	if c.Name != nil && *c.Name != "" {
		next.Name = *c.Name
	}
	if c.RoomType != nil && *c.RoomType != "" {
		next.RoomType = *c.RoomType
	}
	if c.Capacity != nil {
		next.Capacity = *c.Capacity
	}
	if c.PricePerNight != nil {
		next.PricePerNight = *c.PricePerNight
	}
	if c.TotalRooms != nil {
		next.TotalRooms = *c.TotalRooms
	}
	if c.Description != nil {
		next.Description = *c.Description
	}
	if c.Images != nil {
		next.Images = c.Images
	}
	if err := next.validate(); err != nil {
		return err
	}

	r.name = next.Name
	r.roomType = next.RoomType
	r.capacity = next.Capacity
	r.pricePerNight = next.PricePerNight
	r.totalRooms = next.TotalRooms
	r.description = next.Description
	r.images = next.Images
	r.updatedAt = time.Now().UTC()
	return nil
}
