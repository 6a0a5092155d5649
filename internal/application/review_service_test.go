package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
	reviewDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/review"
	userDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/user"
)

type reviewFixture struct {
	reviews  *mockReviewRepo
	hotels   *mockHotelRepo
	bookings *mockBookingRepo
	users    *mockUserRepo
	cache    *countingCache
	service  *ReviewService
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		reviews:  new(mockReviewRepo),
		hotels:   new(mockHotelRepo),
		bookings: new(mockBookingRepo),
		users:    new(mockUserRepo),
		cache:    &countingCache{},
	}
	f.service = NewReviewService(f.reviews, f.hotels, f.bookings, f.users, f.cache, zap.NewNop())
	return f
}

func TestReviewService_CreateReview(t *testing.T) {
	ctx := context.Background()

	t.Run("guest reviews and rating is refreshed", func(t *testing.T) {
		f := newReviewFixture()
		h := testHotel("Grand Plaza", "New York")
		guest := testUser(userDomain.RoleUser)
		f.hotels.On("FindByID", ctx, h.ID()).Return(h, nil)
		f.bookings.On("HasStayAtHotel", ctx, guest.ID(), h.ID(), reviewableStatuses).Return(true, nil)
		f.reviews.On("ExistsForUser", ctx, h.ID(), guest.ID()).Return(false, nil)
		f.reviews.On("Save", ctx, mock.AnythingOfType("*review.Review")).Return(nil)
		f.reviews.On("AverageRating", ctx, h.ID()).Return(4.5, nil)
		f.hotels.On("UpdateRating", ctx, h.ID(), 4.5).Return(nil)
		f.users.On("FindByID", ctx, guest.ID()).Return(guest, nil)

		dto, err := f.service.CreateReview(ctx, h.ID(), guest.ID(), CreateReviewRequest{Rating: 4, Comment: "Great stay"})
		require.NoError(t, err)
		assert.Equal(t, 4, dto.Rating)
		assert.Equal(t, "Great stay", dto.Comment)
		require.NotNil(t, dto.User)
		assert.Equal(t, guest.Name(), dto.User.Name)
		assert.Equal(t, 1, f.cache.count())
		f.hotels.AssertExpectations(t)
	})

	t.Run("no stay at hotel", func(t *testing.T) {
		f := newReviewFixture()
		h := testHotel("Grand Plaza", "New York")
		userID := uuid.New()
		f.hotels.On("FindByID", ctx, h.ID()).Return(h, nil)
		f.bookings.On("HasStayAtHotel", ctx, userID, h.ID(), reviewableStatuses).Return(false, nil)

		_, err := f.service.CreateReview(ctx, h.ID(), userID, CreateReviewRequest{Rating: 5})
		require.Error(t, err)
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
		f.reviews.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("second review", func(t *testing.T) {
		f := newReviewFixture()
		h := testHotel("Grand Plaza", "New York")
		userID := uuid.New()
		f.hotels.On("FindByID", ctx, h.ID()).Return(h, nil)
		f.bookings.On("HasStayAtHotel", ctx, userID, h.ID(), reviewableStatuses).Return(true, nil)
		f.reviews.On("ExistsForUser", ctx, h.ID(), userID).Return(true, nil)

		_, err := f.service.CreateReview(ctx, h.ID(), userID, CreateReviewRequest{Rating: 5})
		require.Error(t, err)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		assert.Equal(t, "You have already reviewed this hotel", err.Error())
	})

	t.Run("unique index race reports duplicate", func(t *testing.T) {
		f := newReviewFixture()
		h := testHotel("Grand Plaza", "New York")
		userID := uuid.New()
		f.hotels.On("FindByID", ctx, h.ID()).Return(h, nil)
		f.bookings.On("HasStayAtHotel", ctx, userID, h.ID(), reviewableStatuses).Return(true, nil)
		f.reviews.On("ExistsForUser", ctx, h.ID(), userID).Return(false, nil)
		f.reviews.On("Save", ctx, mock.Anything).Return(domain.NewConflictError("duplicate key"))

		_, err := f.service.CreateReview(ctx, h.ID(), userID, CreateReviewRequest{Rating: 5})
		assert.EqualError(t, err, "You have already reviewed this hotel")
		assert.Zero(t, f.cache.count())
	})

	t.Run("rating out of range", func(t *testing.T) {
		f := newReviewFixture()
		h := testHotel("Grand Plaza", "New York")
		userID := uuid.New()
		f.hotels.On("FindByID", ctx, h.ID()).Return(h, nil)
		f.bookings.On("HasStayAtHotel", ctx, userID, h.ID(), reviewableStatuses).Return(true, nil)
		f.reviews.On("ExistsForUser", ctx, h.ID(), userID).Return(false, nil)

		_, err := f.service.CreateReview(ctx, h.ID(), userID, CreateReviewRequest{Rating: 6})
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("unknown hotel", func(t *testing.T) {
		f := newReviewFixture()
		id := uuid.New()
		f.hotels.On("FindByID", ctx, id).Return(nil, domain.NewNotFoundError("Hotel", id.String()))

		_, err := f.service.CreateReview(ctx, id, uuid.New(), CreateReviewRequest{Rating: 3})
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestReviewService_ListReviews(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	hotelID := uuid.New()
	author := testUser(userDomain.RoleUser)
	now := time.Now().UTC()
	reviews := []*reviewDomain.Review{
		reviewDomain.Reconstruct(uuid.New(), hotelID, author.ID(), 5, "Superb", now),
		reviewDomain.Reconstruct(uuid.New(), hotelID, author.ID(), 3, "", now.Add(-time.Hour)),
	}
	f.reviews.On("FindByHotelID", ctx, hotelID, 1, 10).Return(reviews, int64(2), nil)
	f.users.On("FindByIDs", ctx, []uuid.UUID{author.ID()}).Return(map[uuid.UUID]*userDomain.User{author.ID(): author}, nil)

	list, err := f.service.ListReviews(ctx, hotelID, domain.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list.Reviews, 2)
	assert.Equal(t, 5, list.Reviews[0].Rating)
	assert.Equal(t, author.Name(), list.Reviews[1].User.Name)
	assert.Empty(t, list.Reviews[1].User.Email)
	assert.Equal(t, int64(2), list.Pagination.Total)
}
