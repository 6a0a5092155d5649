package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
	reviewDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/review"
)

// ReviewModel is the GORM model for the reviews table.
type ReviewModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	HotelID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_hotel_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_hotel_user,priority:2"`
	Rating    int       `gorm:"type:int;not null"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (ReviewModel) TableName() string { return "reviews" }

// GormReviewRepository implements ReviewRepository using GORM.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Save persists a new review. A second review by the same user is a conflict.
func (r *GormReviewRepository) Save(ctx context.Context, rv *reviewDomain.Review) error {
	model := toReviewModel(rv)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("You have already reviewed this hotel")
		}
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// ExistsForUser reports whether the user already reviewed the hotel.
func (r *GormReviewRepository) ExistsForUser(ctx context.Context, hotelID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("hotel_id = ? AND user_id = ?", hotelID, userID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check review: %w", err)
	}
	return count > 0, nil
}

// FindByHotelID returns reviews of a hotel, newest first.
func (r *GormReviewRepository) FindByHotelID(ctx context.Context, hotelID uuid.UUID, page, limit int) ([]*reviewDomain.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).Where("hotel_id = ?", hotelID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var models []ReviewModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find reviews: %w", err)
	}

	reviews := make([]*reviewDomain.Review, len(models))
	for i := range models {
		reviews[i] = toReviewDomain(&models[i])
	}
	return reviews, total, nil
}

// AverageRating returns the mean rating of a hotel, 0 without reviews.
func (r *GormReviewRepository) AverageRating(ctx context.Context, hotelID uuid.UUID) (float64, error) {
	var avg float64
	if err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("hotel_id = ?", hotelID).
		Scan(&avg).Error; err != nil {
		return 0, fmt.Errorf("failed to average ratings: %w", err)
	}
	return avg, nil
}

func toReviewModel(rv *reviewDomain.Review) ReviewModel {
	return ReviewModel{
		ID:        rv.ID(),
		HotelID:   rv.HotelID(),
		UserID:    rv.UserID(),
		Rating:    rv.Rating(),
		Comment:   rv.Comment(),
		CreatedAt: rv.CreatedAt(),
	}
}

func toReviewDomain(m *ReviewModel) *reviewDomain.Review {
	return reviewDomain.Reconstruct(m.ID, m.HotelID, m.UserID, m.Rating, m.Comment, m.CreatedAt)
}
