package hotel

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
)

// Hotel is the aggregate root of the catalog.
type Hotel struct {
	id          uuid.UUID
	name        string
	city        string
	address     string
	description string
	rating      float64
	latitude    *float64
	longitude   *float64
	mainImage   string
	images      []string
	amenities   []string
	createdAt   time.Time
	updatedAt   time.Time
}

// HotelDetails carries the descriptive fields of a hotel.
type HotelDetails struct {
	Name        string
	City        string
	Address     string
	Description string
	Latitude    *float64
	Longitude   *float64
	MainImage   string
	Images      []string
	Amenities   []string
}

// NewHotel creates a hotel with a zero rating.
func NewHotel(d HotelDetails) (*Hotel, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if strings.TrimSpace(d.City) == "" {
		return nil, domain.NewValidationError("city is required")
	}
	if strings.TrimSpace(d.Address) == "" {
		return nil, domain.NewValidationError("address is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return nil, domain.NewValidationError("description is required")
	}

	now := time.Now().UTC()
	return &Hotel{
		id:          uuid.New(),
		name:        d.Name,
		city:        d.City,
		address:     d.Address,
		description: d.Description,
		latitude:    d.Latitude,
		longitude:   d.Longitude,
		mainImage:   d.MainImage,
		images:      d.Images,
		amenities:   normalizeAmenities(d.Amenities),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructHotel rebuilds a Hotel from persistence data (no validation).
func ReconstructHotel(id uuid.UUID, d HotelDetails, rating float64, createdAt, updatedAt time.Time) *Hotel {
	return &Hotel{
		id:          id,
		name:        d.Name,
		city:        d.City,
		address:     d.Address,
		description: d.Description,
		rating:      rating,
		latitude:    d.Latitude,
		longitude:   d.Longitude,
		mainImage:   d.MainImage,
		images:      d.Images,
		amenities:   d.Amenities,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (h *Hotel) ID() uuid.UUID        { return h.id }
func (h *Hotel) Name() string         { return h.name }
func (h *Hotel) City() string         { return h.city }
func (h *Hotel) Address() string      { return h.address }
func (h *Hotel) Description() string  { return h.description }
func (h *Hotel) Rating() float64      { return h.rating }
func (h *Hotel) Latitude() *float64   { return h.latitude }
func (h *Hotel) Longitude() *float64  { return h.longitude }
func (h *Hotel) MainImage() string    { return h.mainImage }
func (h *Hotel) Images() []string     { return h.images }
func (h *Hotel) Amenities() []string  { return h.amenities }
func (h *Hotel) CreatedAt() time.Time { return h.createdAt }
func (h *Hotel) UpdatedAt() time.Time { return h.updatedAt }

// HotelChanges is a partial update; nil fields are left untouched.
type HotelChanges struct {
	Name        *string
	City        *string
	Address     *string
	Description *string
	Latitude    *float64
	Longitude   *float64
	MainImage   *string
	Images      []string
	Amenities   []string
}

// Apply merges non-empty changes into the hotel.
func (h *Hotel) Apply(c HotelChanges) {
	if c.Name != nil && *c.Name != "" {
		h.name = *c.Name
	}
	if c.City != nil && *c.City != "" {
		h.city = *c.City
	}
	if c.Address != nil && *c.Address != "" {
		h.address = *c.Address
	}
	if c.Description != nil && *c.Description != "" {
		h.description = *c.Description
	}
	if c.Latitude != nil {
		h.latitude = c.Latitude
	}
	if c.Longitude != nil {
		h.longitude = c.Longitude
	}
	if c.MainImage != nil && *c.MainImage != "" {
		h.mainImage = *c.MainImage
	}
	if c.Images != nil {
		h.images = c.Images
	}
	if c.Amenities != nil {
		h.amenities = normalizeAmenities(c.Amenities)
	}
	h.updatedAt = time.Now().UTC()
}

// SetRating stores the average review rating.
func (h *Hotel) SetRating(rating float64) {
	h.rating = rating
	h.updatedAt = time.Now().UTC()
}

func normalizeAmenities(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
