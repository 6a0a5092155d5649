package hotel

import (
	"context"

	"github.com/google/uuid"
)

// SortOrder selects the ordering of catalog listings.
type SortOrder string

const (
	SortRatingDesc SortOrder = "rating_desc"
	SortPriceAsc   SortOrder = "price_asc"
	SortPriceDesc  SortOrder = "price_desc"
)

// ParseSortOrder falls back to rating_desc for unknown values.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortOrder(s)
	default:
		return SortRatingDesc
	}
}

// SearchFilter narrows catalog listings.
type SearchFilter struct {
	City      string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Amenities []string
	SortBy    SortOrder
}

// Listing is a hotel plus the aggregates shown in catalog results.
type Listing struct {
	Hotel         *Hotel
	StartingPrice float64
	ReviewCount   int64
}

// HotelRepository defines the persistence contract for hotels.
type HotelRepository interface {
	// FindByID retrieves a hotel with its images and amenities.
	FindByID(ctx context.Context, id uuid.UUID) (*Hotel, error)

	// FindByIDs retrieves hotels keyed by ID; missing IDs are absent.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Hotel, error)

	// Search lists hotels matching the filter with pagination.
	Search(ctx context.Context, filter SearchFilter, page, limit int) ([]Listing, int64, error)

	// Save persists a new hotel and upserts its amenities by name.
	Save(ctx context.Context, hotel *Hotel) error

	// Update persists changes to an existing hotel.
	Update(ctx context.Context, hotel *Hotel) error

	// Delete removes a hotel with its rooms, reviews and booking history.
	// Hotels with bookings that still hold inventory cannot be deleted.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of hotels.
	Count(ctx context.Context) (int64, error)

	// UpdateRating stores a recomputed average rating.
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error
}

// RoomRepository defines the persistence contract for rooms.
type RoomRepository interface {
	// FindByID retrieves a room by its identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// FindInHotel retrieves a room only if it belongs to hotelID.
	FindInHotel(ctx context.Context, hotelID, roomID uuid.UUID) (*Room, error)

	// FindByHotelID lists the rooms of a hotel, cheapest first.
	FindByHotelID(ctx context.Context, hotelID uuid.UUID) ([]*Room, error)

	// FindByIDs retrieves rooms keyed by ID; missing IDs are absent.
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Room, error)

	// Save persists a new room.
	Save(ctx context.Context, room *Room) error

	// Update persists changes to an existing room.
	Update(ctx context.Context, room *Room) error

	// Delete removes a room and its booking history.
	Delete(ctx context.Context, id uuid.UUID) error
}
