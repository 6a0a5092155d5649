package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a guest's rating of a hotel. One per user per hotel.
type Review struct {
	id        uuid.UUID
	hotelID   uuid.UUID
	userID    uuid.UUID
	rating    int
	comment   string
	createdAt time.Time
}

// NewReview creates a review with a rating between 1 and 5.
func NewReview(hotelID, userID uuid.UUID, rating int, comment string) (*Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, domain.NewValidationError("rating must be between 1 and 5")
	}
	return &Review{
		id:        uuid.New(),
		hotelID:   hotelID,
		userID:    userID,
		rating:    rating,
		comment:   comment,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Review from persistence.
func Reconstruct(id, hotelID, userID uuid.UUID, rating int, comment string, createdAt time.Time) *Review {
	return &Review{
		id:        id,
		hotelID:   hotelID,
		userID:    userID,
		rating:    rating,
		comment:   comment,
		createdAt: createdAt,
	}
}

// Getters.
func (r *Review) ID() uuid.UUID        { return r.id }
func (r *Review) HotelID() uuid.UUID   { return r.hotelID }
func (r *Review) UserID() uuid.UUID    { return r.userID }
func (r *Review) Rating() int          { return r.rating }
func (r *Review) Comment() string      { return r.comment }
func (r *Review) CreatedAt() time.Time { return r.createdAt }
