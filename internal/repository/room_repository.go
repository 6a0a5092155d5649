package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
	bookingDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/booking"
	hotelDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/hotel"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	HotelID       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name          string         `gorm:"type:varchar(200);not null"`
	RoomType      string         `gorm:"type:varchar(50);not null"`
	Capacity      int            `gorm:"type:int;not null"`
	PricePerNight float64        `gorm:"type:double precision;not null"`
	TotalRooms    int            `gorm:"type:int;not null"`
	Description   string         `gorm:"type:text"`
	Images        pq.StringArray `gorm:"type:text[]"`
	CreatedAt     time.Time      `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt     time.Time      `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName overrides the default table name.
func (RoomModel) TableName() string { return "rooms" }

// GormRoomRepository implements RoomRepository using GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID returns the room with id or a NotFound error.
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*hotelDomain.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", id.String())
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return toRoomDomain(&model), nil
}

// FindInHotel returns NotFound when the room exists under another hotel.
func (r *GormRoomRepository) FindInHotel(ctx context.Context, hotelID, roomID uuid.UUID) (*hotelDomain.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ? AND hotel_id = ?", roomID, hotelID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", roomID.String())
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return toRoomDomain(&model), nil
}

// FindByHotelID returns a hotel's rooms, cheapest first.
func (r *GormRoomRepository) FindByHotelID(ctx context.Context, hotelID uuid.UUID) ([]*hotelDomain.Room, error) {
	var models []RoomModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("price_per_night ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find hotel rooms: %w", err)
	}
	rooms := make([]*hotelDomain.Room, len(models))
	for i := range models {
		rooms[i] = toRoomDomain(&models[i])
	}
	return rooms, nil
}

// FindByIDs returns rooms keyed by ID; missing IDs are absent from the map.
func (r *GormRoomRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*hotelDomain.Room, error) {
	out := make(map[uuid.UUID]*hotelDomain.Room, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var models []RoomModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find rooms: %w", err)
	}
	for i := range models {
		out[models[i].ID] = toRoomDomain(&models[i])
	}
	return out, nil
}

// Save inserts a new room.
func (r *GormRoomRepository) Save(ctx context.Context, room *hotelDomain.Room) error {
	if err := r.db.WithContext(ctx).Create(toRoomModel(room)).Error; err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// Update overwrites a room's mutable fields.
func (r *GormRoomRepository) Update(ctx context.Context, room *hotelDomain.Room) error {
	model := toRoomModel(room)
	result := r.db.WithContext(ctx).
		Model(&RoomModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":            model.Name,
			"room_type":       model.RoomType,
			"capacity":        model.Capacity,
			"price_per_night": model.PricePerNight,
			"total_rooms":     model.TotalRooms,
			"description":     model.Description,
			"images":          model.Images,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Room", model.ID.String())
	}
	return nil
}

// Delete removes a room and its booking history. Rooms with bookings that
// still hold inventory cannot be deleted. The room row is locked first, the
// same lock Reserve takes, so no booking can be admitted between the check
// and the delete.
func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room RoomModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Room", id.String())
			}
			return fmt.Errorf("failed to lock room: %w", err)
		}

		var holding int64
		if err := tx.Model(&BookingModel{}).
			Where("room_id = ? AND status IN ?", id, bookingDomain.HoldingStatuses()).
			Count(&holding).Error; err != nil {
			return fmt.Errorf("failed to check room bookings: %w", err)
		}
		if holding > 0 {
			return domain.NewConflictError("Room has active bookings")
		}

		if err := tx.Where("room_id = ?", id).Delete(&BookingModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete room bookings: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&RoomModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete room: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Room", id.String())
		}
		return nil
	})
}

func toRoomModel(room *hotelDomain.Room) *RoomModel {
	return &RoomModel{
		ID:            room.ID(),
		HotelID:       room.HotelID(),
		Name:          room.Name(),
		RoomType:      room.RoomType(),
		Capacity:      room.Capacity(),
		PricePerNight: room.PricePerNight(),
		TotalRooms:    room.TotalRooms(),
		Description:   room.Description(),
		Images:        pq.StringArray(room.Images()),
		CreatedAt:     room.CreatedAt(),
		UpdatedAt:     room.UpdatedAt(),
	}
}

func toRoomDomain(m *RoomModel) *hotelDomain.Room {
	return hotelDomain.ReconstructRoom(m.ID, m.HotelID, hotelDomain.RoomDetails{
		Name:          m.Name,
		RoomType:      m.RoomType,
		Capacity:      m.Capacity,
		PricePerNight: m.PricePerNight,
		TotalRooms:    m.TotalRooms,
		Description:   m.Description,
		Images:        []string(m.Images),
	}, m.CreatedAt, m.UpdatedAt)
}
