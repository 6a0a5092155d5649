package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/application"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/auth"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/middleware"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/response"
)

// AdminHandler handles the admin console: statistics, catalog management and
// booking oversight.
type AdminHandler struct {
	admin    *application.AdminService
	hotels   *application.HotelService
	bookings *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *application.AdminService, hotels *application.HotelService, bookings *application.BookingService) *AdminHandler {
	return &AdminHandler{admin: admin, hotels: hotels, bookings: bookings}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/stats", h.Stats)

		admin.POST("/hotels", h.CreateHotel)
		admin.PUT("/hotels/:id", h.UpdateHotel)
		admin.DELETE("/hotels/:id", h.DeleteHotel)
		admin.POST("/hotels/:id/rooms", h.CreateRoom)
		admin.PUT("/rooms/:roomId", h.UpdateRoom)
		admin.DELETE("/rooms/:roomId", h.DeleteRoom)

		admin.GET("/bookings", h.ListBookings)
		admin.PATCH("/bookings/:id/status", h.UpdateBookingStatus)
	}
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// CreateHotel handles POST /api/admin/hotels.
func (h *AdminHandler) CreateHotel(c *gin.Context) {
	var req application.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.hotels.CreateHotel(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result, "Hotel created successfully")
}

// UpdateHotel handles PUT /api/admin/hotels/:id.
func (h *AdminHandler) UpdateHotel(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "hotel")
	if !ok {
		return
	}
	var req application.UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.hotels.UpdateHotel(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result, "Hotel updated successfully")
}

// DeleteHotel handles DELETE /api/admin/hotels/:id.
func (h *AdminHandler) DeleteHotel(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "hotel")
	if !ok {
		return
	}
	if err := h.hotels.DeleteHotel(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, nil, "Hotel deleted successfully")
}

// CreateRoom handles POST /api/admin/hotels/:id/rooms.
func (h *AdminHandler) CreateRoom(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id", "hotel")
	if !ok {
		return
	}
	var req application.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.hotels.CreateRoom(c.Request.Context(), hotelID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result, "Room created successfully")
}

// UpdateRoom handles PUT /api/admin/rooms/:roomId.
func (h *AdminHandler) UpdateRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "roomId", "room")
	if !ok {
		return
	}
	var req application.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.hotels.UpdateRoom(c.Request.Context(), roomID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result, "Room updated successfully")
}

// DeleteRoom handles DELETE /api/admin/rooms/:roomId.
func (h *AdminHandler) DeleteRoom(c *gin.Context) {
	roomID, ok := parseIDParam(c, "roomId", "room")
	if !ok {
		return
	}
	if err := h.hotels.DeleteRoom(c.Request.Context(), roomID); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, nil, "Room deleted successfully")
}

// ListBookings handles GET /api/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	result, err := h.bookings.ListBookings(c.Request.Context(), c.Query("status"), parsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBookingStatus handles PATCH /api/admin/bookings/:id/status.
func (h *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}
	var req application.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.bookings.UpdateStatus(c.Request.Context(), bookingID, adminID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, result, "Booking status updated successfully")
}
