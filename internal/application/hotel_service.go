package application

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
	hotelDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/hotel"
	reviewDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/review"
	userDomain "github.com/limotraffics98-droid/Hotel-booking-system/internal/domain/user"
)

// latestReviews is how many reviews the hotel detail page embeds.
const latestReviews = 10

// HotelQuery holds the catalog search parameters.
type HotelQuery struct {
	City      string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Amenities string
	SortBy    string
	Page      domain.Page
}

// CreateHotelRequest holds the data needed to create a hotel.
type CreateHotelRequest struct {
	Name        string   `json:"name" binding:"required"`
	City        string   `json:"city" binding:"required"`
	Address     string   `json:"address" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	MainImage   string   `json:"mainImage" binding:"omitempty,url"`
	Images      []string `json:"images" binding:"omitempty,dive,url"`
	Amenities   []string `json:"amenities"`
}

// UpdateHotelRequest is a partial hotel update.
type UpdateHotelRequest struct {
	Name        *string  `json:"name"`
	City        *string  `json:"city"`
	Address     *string  `json:"address"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	MainImage   *string  `json:"mainImage" binding:"omitempty,url"`
	Images      []string `json:"images" binding:"omitempty,dive,url"`
	Amenities   []string `json:"amenities"`
}

// CreateRoomRequest holds the data needed to create a room.
type CreateRoomRequest struct {
	Name          string   `json:"name" binding:"required"`
	RoomType      string   `json:"roomType" binding:"required"`
	Capacity      int      `json:"capacity" binding:"required,min=1"`
	PricePerNight float64  `json:"pricePerNight" binding:"required,gt=0"`
	TotalRooms    int      `json:"totalRooms" binding:"required,min=1"`
	Description   string   `json:"description"`
	Images        []string `json:"images" binding:"omitempty,dive,url"`
}

// UpdateRoomRequest is a partial room update.
type UpdateRoomRequest struct {
	Name          *string  `json:"name"`
	RoomType      *string  `json:"roomType"`
	Capacity      *int     `json:"capacity"`
	PricePerNight *float64 `json:"pricePerNight"`
	TotalRooms    *int     `json:"totalRooms"`
	Description   *string  `json:"description"`
	Images        []string `json:"images" binding:"omitempty,dive,url"`
}

// HotelService serves the public catalog and the admin catalog management.
type HotelService struct {
	hotels  hotelDomain.HotelRepository
	rooms   hotelDomain.RoomRepository
	reviews reviewDomain.ReviewRepository
	users   userDomain.UserRepository
	cache   CatalogCache
	logger  *zap.Logger
}

// NewHotelService creates a new HotelService. cache may be nil.
func NewHotelService(
	hotels hotelDomain.HotelRepository,
	rooms hotelDomain.RoomRepository,
	reviews reviewDomain.ReviewRepository,
	users userDomain.UserRepository,
	cache CatalogCache,
	logger *zap.Logger,
) *HotelService {
	if cache == nil {
		cache = nopCache{}
	}
	return &HotelService{
		hotels:  hotels,
		rooms:   rooms,
		reviews: reviews,
		users:   users,
		cache:   cache,
		logger:  logger,
	}
}

// ListHotels searches the catalog.
func (s *HotelService) ListHotels(ctx context.Context, q HotelQuery) (*HotelList, error) {
	filter := hotelDomain.SearchFilter{
		City:      q.City,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		MinRating: q.MinRating,
		Amenities: splitAmenities(q.Amenities),
		SortBy:    hotelDomain.ParseSortOrder(q.SortBy),
	}

	listings, total, err := s.hotels.Search(ctx, filter, q.Page.Page, q.Page.Limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]HotelDTO, len(listings))
	for i, l := range listings {
		dto := toHotelDTO(l.Hotel)
		price, count := l.StartingPrice, l.ReviewCount
		dto.StartingPrice = &price
		dto.ReviewCount = &count
		dtos[i] = dto
	}
	return &HotelList{Hotels: dtos, Pagination: domain.NewPagination(total, q.Page)}, nil
}

// GetHotel returns a hotel with its rooms and latest reviews.
func (s *HotelService) GetHotel(ctx context.Context, id uuid.UUID) (*HotelDTO, error) {
	h, err := s.hotels.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rooms, err := s.rooms.FindByHotelID(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, total, err := s.reviews.FindByHotelID(ctx, id, 1, latestReviews)
	if err != nil {
		return nil, err
	}
	authors, err := s.authorsOf(ctx, reviews)
	if err != nil {
		return nil, err
	}

	dto := toHotelDTO(h)
	dto.Rooms = make([]RoomDTO, len(rooms))
	for i, r := range rooms {
		dto.Rooms[i] = toRoomDTO(r)
	}
	dto.Reviews = make([]ReviewDTO, len(reviews))
	for i, rv := range reviews {
		dto.Reviews[i] = toReviewDTO(rv, authors[rv.UserID()])
	}
	dto.ReviewCount = &total
	return &dto, nil
}

// GetRooms lists the rooms of a hotel.
func (s *HotelService) GetRooms(ctx context.Context, hotelID uuid.UUID) ([]RoomDTO, error) {
	rooms, err := s.rooms.FindByHotelID(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	dtos := make([]RoomDTO, len(rooms))
	for i, r := range rooms {
		dtos[i] = toRoomDTO(r)
	}
	return dtos, nil
}

// CreateHotel adds a hotel to the catalog.
func (s *HotelService) CreateHotel(ctx context.Context, req CreateHotelRequest) (*HotelDTO, error) {
	h, err := hotelDomain.NewHotel(hotelDomain.HotelDetails{
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		MainImage:   req.MainImage,
		Images:      req.Images,
		Amenities:   req.Amenities,
	})
	if err != nil {
		return nil, err
	}
	if err := s.hotels.Save(ctx, h); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("hotel created", zap.String("hotel_id", h.ID().String()), zap.String("name", h.Name()))
	dto := toHotelDTO(h)
	return &dto, nil
}

// UpdateHotel applies a partial update.
func (s *HotelService) UpdateHotel(ctx context.Context, id uuid.UUID, req UpdateHotelRequest) (*HotelDTO, error) {
	h, err := s.hotels.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	h.Apply(hotelDomain.HotelChanges{
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		MainImage:   req.MainImage,
		Images:      req.Images,
		Amenities:   req.Amenities,
	})
	if err := s.hotels.Update(ctx, h); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	dto := toHotelDTO(h)
	return &dto, nil
}

// DeleteHotel removes a hotel.
func (s *HotelService) DeleteHotel(ctx context.Context, id uuid.UUID) error {
	if err := s.hotels.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	s.logger.Info("hotel deleted", zap.String("hotel_id", id.String()))
	return nil
}

// CreateRoom adds a room to a hotel.
func (s *HotelService) CreateRoom(ctx context.Context, hotelID uuid.UUID, req CreateRoomRequest) (*RoomDTO, error) {
	if _, err := s.hotels.FindByID(ctx, hotelID); err != nil {
		return nil, err
	}

	room, err := hotelDomain.NewRoom(hotelID, hotelDomain.RoomDetails{
		Name:          req.Name,
		RoomType:      req.RoomType,
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
		TotalRooms:    req.TotalRooms,
		Description:   req.Description,
		Images:        req.Images,
	})
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Save(ctx, room); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	dto := toRoomDTO(room)
	return &dto, nil
}

// UpdateRoom applies a partial update to a room.
func (s *HotelService) UpdateRoom(ctx context.Context, roomID uuid.UUID, req UpdateRoomRequest) (*RoomDTO, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := room.Apply(hotelDomain.RoomChanges{
		Name:          req.Name,
		RoomType:      req.RoomType,
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
		TotalRooms:    req.TotalRooms,
		Description:   req.Description,
		Images:        req.Images,
	}); err != nil {
		return nil, err
	}
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	dto := toRoomDTO(room)
	return &dto, nil
}

// DeleteRoom removes a room.
func (s *HotelService) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	if err := s.rooms.Delete(ctx, roomID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *HotelService) authorsOf(ctx context.Context, reviews []*reviewDomain.Review) (map[uuid.UUID]*userDomain.User, error) {
	ids := make([]uuid.UUID, 0, len(reviews))
	for _, rv := range reviews {
		ids = append(ids, rv.UserID())
	}
	return s.users.FindByIDs(ctx, uniqueIDs(ids))
}

func splitAmenities(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
