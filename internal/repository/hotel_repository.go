package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
	bookingDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/booking"
	hotelDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/hotel"
)

// HotelModel is the GORM model for the hotels table.
type HotelModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name        string         `gorm:"size:200;not null"`
	City        string         `gorm:"size:100;not null;index"`
	Address     string         `gorm:"size:300;not null"`
	Description string         `gorm:"type:text;not null"`
	Rating      float64        `gorm:"not null;default:0;index"`
	Latitude    *float64       `gorm:""`
	Longitude   *float64       `gorm:""`
	MainImage   string         `gorm:"type:text"`
	Images      pq.StringArray `gorm:"type:text[]"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (HotelModel) TableName() string {
	return "hotels"
}

// AmenityModel is the GORM model for the amenities table.
type AmenityModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:100;not null;uniqueIndex"`
}

// TableName returns the table name for the GORM model.
func (AmenityModel) TableName() string {
	return "amenities"
}

// HotelAmenityModel links hotels to amenities.
type HotelAmenityModel struct {
	HotelID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	AmenityID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for the GORM model.
func (HotelAmenityModel) TableName() string {
	return "hotel_amenities"
}

// hotelListingRow is a hotels row plus the catalog aggregates.
type hotelListingRow struct {
	HotelModel    `gorm:"embedded"`
	StartingPrice float64
	ReviewCount   int64
}

const listingColumns = `hotels.*,
	COALESCE((SELECT MIN(rooms.price_per_night) FROM rooms WHERE rooms.hotel_id = hotels.id), 0) AS starting_price,
	(SELECT COUNT(*) FROM reviews WHERE reviews.hotel_id = hotels.id) AS review_count`

// GormHotelRepository is the GORM-based implementation of HotelRepository.
type GormHotelRepository struct {
	db *gorm.DB
}

// NewGormHotelRepository creates a new GormHotelRepository.
func NewGormHotelRepository(db *gorm.DB) *GormHotelRepository {
	return &GormHotelRepository{db: db}
}

// FindByID retrieves a hotel with its amenities.
func (r *GormHotelRepository) FindByID(ctx context.Context, id uuid.UUID) (*hotelDomain.Hotel, error) {
	var model HotelModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Hotel", id.String())
		}
		return nil, fmt.Errorf("failed to find hotel by ID: %w", err)
	}

	amenities, err := r.amenitiesOf(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return toDomainHotel(&model, amenities[id]), nil
}

// FindByIDs retrieves hotels keyed by ID, without amenities.
func (r *GormHotelRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*hotelDomain.Hotel, error) {
	out := make(map[uuid.UUID]*hotelDomain.Hotel, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var models []HotelModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find hotels: %w", err)
	}
	for i := range models {
		out[models[i].ID] = toDomainHotel(&models[i], nil)
	}
	return out, nil
}

// Search lists hotels matching the filter with pagination.
func (r *GormHotelRepository) Search(ctx context.Context, filter hotelDomain.SearchFilter, page, limit int) ([]hotelDomain.Listing, int64, error) {
	scope := searchScope(filter)

	var total int64
	if err := r.db.WithContext(ctx).Model(&HotelModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count hotels: %w", err)
	}

	var rows []hotelListingRow
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Table("hotels").
		Select(listingColumns).
		Scopes(scope).
		Order(orderFor(filter.SortBy)).
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search hotels: %w", err)
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	amenities, err := r.amenitiesOf(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	listings := make([]hotelDomain.Listing, len(rows))
	for i := range rows {
		listings[i] = hotelDomain.Listing{
			Hotel:         toDomainHotel(&rows[i].HotelModel, amenities[rows[i].ID]),
			StartingPrice: rows[i].StartingPrice,
			ReviewCount:   rows[i].ReviewCount,
		}
	}
	return listings, total, nil
}

func searchScope(f hotelDomain.SearchFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if city := strings.TrimSpace(f.City); city != "" {
			db = db.Where("hotels.city ILIKE ?", "%"+city+"%")
		}
		if f.MinRating != nil {
			db = db.Where("hotels.rating >= ?", *f.MinRating)
		}
		if len(f.Amenities) > 0 {
			db = db.Where(`EXISTS (SELECT 1 FROM hotel_amenities ha
				JOIN amenities a ON a.id = ha.amenity_id
				WHERE ha.hotel_id = hotels.id AND a.name IN ?)`, f.Amenities)
		}
		if f.MinPrice != nil || f.MaxPrice != nil {
			cond := "SELECT 1 FROM rooms WHERE rooms.hotel_id = hotels.id"
			var args []interface{}
			if f.MinPrice != nil {
				cond += " AND rooms.price_per_night >= ?"
				args = append(args, *f.MinPrice)
			}
			if f.MaxPrice != nil {
				cond += " AND rooms.price_per_night <= ?"
				args = append(args, *f.MaxPrice)
			}
			db = db.Where("EXISTS ("+cond+")", args...)
		}
		return db
	}
}

func orderFor(sort hotelDomain.SortOrder) string {
	switch sort {
	case hotelDomain.SortPriceAsc:
		return "starting_price ASC, hotels.rating DESC"
	case hotelDomain.SortPriceDesc:
		return "starting_price DESC, hotels.rating DESC"
	default:
		return "hotels.rating DESC, hotels.created_at DESC"
	}
}

// Save persists a new hotel and upserts its amenities by name.
func (r *GormHotelRepository) Save(ctx context.Context, h *hotelDomain.Hotel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toHotelModel(h)).Error; err != nil {
			return fmt.Errorf("failed to save hotel: %w", err)
		}
		return syncAmenities(tx, h.ID(), h.Amenities())
	})
}

// Update persists changes to an existing hotel and replaces its amenity links.
func (r *GormHotelRepository) Update(ctx context.Context, h *hotelDomain.Hotel) error {
	model := toHotelModel(h)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&HotelModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]interface{}{
				"name":        model.Name,
				"city":        model.City,
				"address":     model.Address,
				"description": model.Description,
				"latitude":    model.Latitude,
				"longitude":   model.Longitude,
				"main_image":  model.MainImage,
				"images":      model.Images,
				"updated_at":  model.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update hotel: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Hotel", model.ID.String())
		}
		return syncAmenities(tx, h.ID(), h.Amenities())
	})
}

// Delete removes a hotel with its rooms, reviews, amenity links and booking history.
// Every room row of the hotel is locked before the booking check, in id order,
// so reservations for those rooms wait for this transaction.
func (r *GormHotelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rooms []RoomModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("hotel_id = ?", id).
			Order("id").
			Find(&rooms).Error; err != nil {
			return fmt.Errorf("failed to lock hotel rooms: %w", err)
		}

		var holding int64
		if err := tx.Model(&BookingModel{}).
			Where("hotel_id = ? AND status IN ?", id, bookingDomain.HoldingStatuses()).
			Count(&holding).Error; err != nil {
			return fmt.Errorf("failed to check hotel bookings: %w", err)
		}
		if holding > 0 {
			return domain.NewConflictError("Hotel has active bookings")
		}

		for _, dep := range []interface{}{&BookingModel{}, &ReviewModel{}, &RoomModel{}, &HotelAmenityModel{}} {
			if err := tx.Where("hotel_id = ?", id).Delete(dep).Error; err != nil {
				return fmt.Errorf("failed to delete hotel dependents: %w", err)
			}
		}

		result := tx.Where("id = ?", id).Delete(&HotelModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete hotel: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Hotel", id.String())
		}
		return nil
	})
}

// Count returns the number of hotels.
func (r *GormHotelRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&HotelModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count hotels: %w", err)
	}
	return total, nil
}

// UpdateRating stores a recomputed average rating.
func (r *GormHotelRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	if err := r.db.WithContext(ctx).Model(&HotelModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"rating": rating, "updated_at": time.Now().UTC()}).Error; err != nil {
		return fmt.Errorf("failed to update hotel rating: %w", err)
	}
	return nil
}

func (r *GormHotelRepository) amenitiesOf(ctx context.Context, hotelIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	out := make(map[uuid.UUID][]string, len(hotelIDs))
	if len(hotelIDs) == 0 {
		return out, nil
	}

	type row struct {
		HotelID uuid.UUID
		Name    string
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Table("hotel_amenities").
		Select("hotel_amenities.hotel_id, amenities.name").
		Joins("JOIN amenities ON amenities.id = hotel_amenities.amenity_id").
		Where("hotel_amenities.hotel_id IN ?", hotelIDs).
		Order("amenities.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load amenities: %w", err)
	}
	for _, rw := range rows {
		out[rw.HotelID] = append(out[rw.HotelID], rw.Name)
	}
	return out, nil
}

// syncAmenities upserts amenities by name and replaces the hotel's links.
func syncAmenities(tx *gorm.DB, hotelID uuid.UUID, names []string) error {
	if err := tx.Where("hotel_id = ?", hotelID).Delete(&HotelAmenityModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear hotel amenities: %w", err)
	}
	if len(names) == 0 {
		return nil
	}

	candidates := make([]AmenityModel, len(names))
	for i, n := range names {
		candidates[i] = AmenityModel{ID: uuid.New(), Name: n}
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidates).Error; err != nil {
		return fmt.Errorf("failed to upsert amenities: %w", err)
	}

	var stored []AmenityModel
	if err := tx.Where("name IN ?", names).Find(&stored).Error; err != nil {
		return fmt.Errorf("failed to load amenities: %w", err)
	}

	links := make([]HotelAmenityModel, len(stored))
	for i, a := range stored {
		links[i] = HotelAmenityModel{HotelID: hotelID, AmenityID: a.ID}
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link amenities: %w", err)
	}
	return nil
}

// --- Conversion Helpers ---

func toHotelModel(h *hotelDomain.Hotel) *HotelModel {
	return &HotelModel{
		ID:          h.ID(),
		Name:        h.Name(),
		City:        h.City(),
		Address:     h.Address(),
		Description: h.Description(),
		Rating:      h.Rating(),
		Latitude:    h.Latitude(),
		Longitude:   h.Longitude(),
		MainImage:   h.MainImage(),
		Images:      pq.StringArray(h.Images()),
		CreatedAt:   h.CreatedAt(),
		UpdatedAt:   h.UpdatedAt(),
	}
}

func toDomainHotel(m *HotelModel, amenities []string) *hotelDomain.Hotel {
	return hotelDomain.ReconstructHotel(m.ID, hotelDomain.HotelDetails{
		Name:        m.Name,
		City:        m.City,
		Address:     m.Address,
		Description: m.Description,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		MainImage:   m.MainImage,
		Images:      []string(m.Images),
		Amenities:   amenities,
	}, m.Rating, m.CreatedAt, m.UpdatedAt)
}
