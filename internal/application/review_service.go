package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
	bookingDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/booking"
	hotelDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/hotel"
	reviewDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/review"
	userDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/user"
)

const alreadyReviewed = "You have already reviewed this hotel"

// reviewableStatuses are the booking statuses that entitle a guest to review.
var reviewableStatuses = []bookingDomain.BookingStatus{
	bookingDomain.StatusConfirmed,
	bookingDomain.StatusCompleted,
}

// CreateReviewRequest holds a guest's rating.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ReviewService manages hotel reviews.
type ReviewService struct {
	reviews  reviewDomain.ReviewRepository
	hotels   hotelDomain.HotelRepository
	bookings bookingDomain.BookingRepository
	users    userDomain.UserRepository
	cache    CatalogCache
	logger   *zap.Logger
}

// NewReviewService creates a new ReviewService. cache may be nil.
func NewReviewService(
	reviews reviewDomain.ReviewRepository,
	hotels hotelDomain.HotelRepository,
	bookings bookingDomain.BookingRepository,
	users userDomain.UserRepository,
	cache CatalogCache,
	logger *zap.Logger,
) *ReviewService {
	if cache == nil {
		cache = nopCache{}
	}
	return &ReviewService{
		reviews:  reviews,
		hotels:   hotels,
		bookings: bookings,
		users:    users,
		cache:    cache,
		logger:   logger,
	}
}

// CreateReview stores a review by a guest who stayed (or holds a confirmed
// stay) at the hotel and refreshes the hotel's average rating.
func (s *ReviewService) CreateReview(ctx context.Context, hotelID, userID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	if _, err := s.hotels.FindByID(ctx, hotelID); err != nil {
		return nil, err
	}

	stayed, err := s.bookings.HasStayAtHotel(ctx, userID, hotelID, reviewableStatuses)
	if err != nil {
		return nil, err
	}
	if !stayed {
		return nil, domain.NewForbiddenError("You can only review hotels you have booked")
	}

	exists, err := s.reviews.ExistsForUser(ctx, hotelID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewValidationError(alreadyReviewed)
	}

	rv, err := reviewDomain.NewReview(hotelID, userID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Save(ctx, rv); err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			return nil, domain.NewValidationError(alreadyReviewed)
		}
		return nil, err
	}

	avg, err := s.reviews.AverageRating(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if err := s.hotels.UpdateRating(ctx, hotelID, avg); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("review created",
		zap.String("hotel_id", hotelID.String()),
		zap.Int("rating", rv.Rating()),
		zap.Float64("hotel_rating", avg),
	)

	author, err := s.users.FindByID(ctx, userID)
	if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}
	dto := toReviewDTO(rv, author)
	return &dto, nil
}

// ListReviews returns one page of a hotel's reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, hotelID uuid.UUID, page domain.Page) (*ReviewList, error) {
	reviews, total, err := s.reviews.FindByHotelID(ctx, hotelID, page.Page, page.Limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(reviews))
	for _, rv := range reviews {
		ids = append(ids, rv.UserID())
	}
	authors, err := s.users.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}

	dtos := make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		dtos[i] = toReviewDTO(rv, authors[rv.UserID()])
	}
	return &ReviewList{Reviews: dtos, Pagination: domain.NewPagination(total, page)}, nil
}
