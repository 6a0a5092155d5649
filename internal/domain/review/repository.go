package review

import (
	"context"

	"github.com/google/uuid"
)

// ReviewRepository defines the persistence contract for reviews.
type ReviewRepository interface {
	Save(ctx context.Context, review *Review) error
	ExistsForUser(ctx context.Context, hotelID, userID uuid.UUID) (bool, error)
	FindByHotelID(ctx context.Context, hotelID uuid.UUID, page, limit int) ([]*Review, int64, error)
	AverageRating(ctx context.Context, hotelID uuid.UUID) (float64, error)
}
