package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
	bookingDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	HotelID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	RoomID        uuid.UUID  `gorm:"type:uuid;index:idx_bookings_room_stay,priority:1;not null"`
	CheckIn       time.Time  `gorm:"index:idx_bookings_room_stay,priority:2;not null"`
	CheckOut      time.Time  `gorm:"index:idx_bookings_room_stay,priority:3;not null"`
	Guests        int        `gorm:"not null"`
	RoomsCount    int        `gorm:"not null;default:1"`
	TotalAmount   float64    `gorm:"not null"`
	Status        string     `gorm:"not null;size:30;index"`
	PaymentStatus string     `gorm:"not null;size:30;default:'PENDING'"`
	CancelledAt   *time.Time `gorm:""`
	CompletedAt   *time.Time `gorm:""`
	Version       int64      `gorm:"not null;default:1"`
	CreatedAt     time.Time  `gorm:"not null;index"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByUserID retrieves all bookings of a user, newest first.
func (r *GormBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, status *bookingDomain.BookingStatus) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}

	var models []BookingModel
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find user bookings: %w", err)
	}
	return toDomainBookings(models)
}

// List retrieves bookings matching the filter with pagination.
func (r *GormBookingRepository) List(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.UserID != nil {
			db = db.Where("user_id = ?", *filter.UserID)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", string(*filter.Status))
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// Recent returns the newest bookings.
func (r *GormBookingRepository) Recent(ctx context.Context, limit int) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find recent bookings: %w", err)
	}
	return toDomainBookings(models)
}

// BookedRooms sums roomsCount of inventory-holding bookings on roomID overlapping stay.
func (r *GormBookingRepository) BookedRooms(ctx context.Context, roomID uuid.UUID, stay bookingDomain.StayRange) (int, error) {
	return bookedRooms(r.db.WithContext(ctx), roomID, stay)
}

func bookedRooms(db *gorm.DB, roomID uuid.UUID, stay bookingDomain.StayRange) (int, error) {
	var booked int64
	err := db.Model(&BookingModel{}).
		Select("COALESCE(SUM(rooms_count), 0)").
		Where("room_id = ?", roomID).
		Where("status IN ?", bookingDomain.HoldingStatuses()).
		Where("check_in < ? AND check_out > ?", stay.CheckOut, stay.CheckIn).
		Scan(&booked).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count booked rooms: %w", err)
	}
	return int(booked), nil
}

// Reserve locks the room row, counts booked rooms for stay, calls admit and
// inserts the booking it returns, all in one transaction. Concurrent
// reservations for the same room are serialized by the row lock.
func (r *GormBookingRepository) Reserve(ctx context.Context, roomID uuid.UUID, stay bookingDomain.StayRange, admit bookingDomain.AdmitFunc) (*bookingDomain.Booking, error) {
	var created *bookingDomain.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room RoomModel
		var inventory *bookingDomain.RoomInventory

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", roomID).
			First(&room).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return fmt.Errorf("failed to lock room: %w", err)
		default:
			inventory = &bookingDomain.RoomInventory{
				RoomID:        room.ID,
				HotelID:       room.HotelID,
				TotalRooms:    room.TotalRooms,
				PricePerNight: room.PricePerNight,
			}
		}

		booked := 0
		if inventory != nil {
			if booked, err = bookedRooms(tx, roomID, stay); err != nil {
				return err
			}
		}

		bk, err := admit(inventory, booked)
		if err != nil {
			return err
		}

		if err := tx.Create(toBookingModel(bk)).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		created = bk
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// HasStayAtHotel reports whether the user has a booking at the hotel in one of statuses.
func (r *GormBookingRepository) HasStayAtHotel(ctx context.Context, userID, hotelID uuid.UUID, statuses []bookingDomain.BookingStatus) (bool, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("user_id = ? AND hotel_id = ? AND status IN ?", userID, hotelID, names).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check hotel stay: %w", err)
	}
	return count > 0, nil
}

// FindEndedConfirmed returns confirmed bookings whose check-out is at or before now.
func (r *GormBookingRepository) FindEndedConfirmed(ctx context.Context, now time.Time, limit int) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND check_out <= ?", string(bookingDomain.StatusConfirmed), now).
		Order("check_out ASC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find ended bookings: %w", err)
	}
	return toDomainBookings(models)
}

// Count returns the total number of bookings.
func (r *GormBookingRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return total, nil
}

// Revenue sums totalAmount over confirmed bookings.
func (r *GormBookingRepository) Revenue(ctx context.Context) (float64, error) {
	var revenue float64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status = ?", string(bookingDomain.StatusConfirmed)).
		Scan(&revenue).Error; err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return revenue, nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// IncrementVersion has already been called, so the stored row carries version-1.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"payment_status": model.PaymentStatus,
			"cancelled_at":   model.CancelledAt,
			"completed_at":   model.CompletedAt,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:            bk.ID(),
		UserID:        bk.UserID(),
		HotelID:       bk.HotelID(),
		RoomID:        bk.RoomID(),
		CheckIn:       bk.CheckIn(),
		CheckOut:      bk.CheckOut(),
		Guests:        bk.Guests(),
		RoomsCount:    bk.RoomsCount(),
		TotalAmount:   bk.TotalAmount(),
		Status:        string(bk.Status()),
		PaymentStatus: string(bk.PaymentStatus()),
		CancelledAt:   bk.CancelledAt(),
		CompletedAt:   bk.CompletedAt(),
		Version:       bk.Version(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := bookingDomain.ParsePaymentStatus(m.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.UserID,
		m.HotelID,
		m.RoomID,
		bookingDomain.StayRange{CheckIn: m.CheckIn.UTC(), CheckOut: m.CheckOut.UTC()},
		m.Guests,
		m.RoomsCount,
		m.TotalAmount,
		status,
		paymentStatus,
		m.CancelledAt,
		m.CompletedAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
