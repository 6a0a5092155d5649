package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/application"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/response"
)

// HotelHandler serves the public catalog and availability lookups.
type HotelHandler struct {
	hotels   *application.HotelService
	bookings *application.BookingService
}

// NewHotelHandler creates a new HotelHandler.
func NewHotelHandler(hotels *application.HotelService, bookings *application.BookingService) *HotelHandler {
	return &HotelHandler{hotels: hotels, bookings: bookings}
}

// RegisterRoutes registers the catalog routes. cache wraps the list and detail
// reads only; availability must always hit the database.
func (h *HotelHandler) RegisterRoutes(r *gin.RouterGroup, cache gin.HandlerFunc) {
	withCache := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if cache == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{cache, fn}
	}

	hotels := r.Group("/hotels")
	{
		hotels.GET("", withCache(h.ListHotels)...)
		hotels.GET("/:id", withCache(h.GetHotel)...)
		hotels.GET("/:id/rooms", h.GetRooms)
		hotels.GET("/:id/availability", h.CheckAvailability)
	}
}

// ListHotels handles GET /api/hotels.
func (h *HotelHandler) ListHotels(c *gin.Context) {
	q := application.HotelQuery{
		City:      c.Query("city"),
		Amenities: c.Query("amenities"),
		SortBy:    c.Query("sortBy"),
		Page:      parsePagination(c),
	}
	var ok bool
	if q.MinPrice, ok = optionalFloat(c, "minPrice"); !ok {
		return
	}
	if q.MaxPrice, ok = optionalFloat(c, "maxPrice"); !ok {
		return
	}
	if q.MinRating, ok = optionalFloat(c, "minRating"); !ok {
		return
	}

	result, err := h.hotels.ListHotels(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetHotel handles GET /api/hotels/:id.
func (h *HotelHandler) GetHotel(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "hotel")
	if !ok {
		return
	}

	result, err := h.hotels.GetHotel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetRooms handles GET /api/hotels/:id/rooms.
func (h *HotelHandler) GetRooms(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "hotel")
	if !ok {
		return
	}

	rooms, err := h.hotels.GetRooms(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rooms)
}

// CheckAvailability handles GET /api/hotels/:id/availability.
func (h *HotelHandler) CheckAvailability(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id", "hotel")
	if !ok {
		return
	}

	checkIn, checkOut, rawRoom := c.Query("checkIn"), c.Query("checkOut"), c.Query("roomId")
	if checkIn == "" || checkOut == "" || rawRoom == "" {
		response.BadRequest(c, "checkIn, checkOut, and roomId are required")
		return
	}
	roomID, err := uuid.Parse(rawRoom)
	if err != nil {
		response.BadRequest(c, "Invalid room ID")
		return
	}
	rooms, err := strconv.Atoi(c.DefaultQuery("rooms", "1"))
	if err != nil {
		response.BadRequest(c, "Invalid rooms")
		return
	}

	result, err := h.bookings.CheckAvailability(c.Request.Context(), hotelID, roomID, checkIn, checkOut, rooms)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
