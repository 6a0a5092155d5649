package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/application"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/auth"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/middleware"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/response"
)

// ReviewHandler handles hotel review requests.
type ReviewHandler struct {
	service *application.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes registers review routes under /hotels/:id/reviews.
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	reviews := r.Group("/hotels/:id/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.POST("", middleware.AuthMiddleware(jwtManager), h.CreateReview)
	}
}

// CreateReview handles POST /api/hotels/:id/reviews.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}
	hotelID, ok := parseIDParam(c, "id", "hotel")
	if !ok {
		return
	}

	var req application.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateReview(c.Request.Context(), hotelID, userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result, "Review created successfully")
}

// ListReviews handles GET /api/hotels/:id/reviews.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	hotelID, ok := parseIDParam(c, "id", "hotel")
	if !ok {
		return
	}

	result, err := h.service.ListReviews(c.Request.Context(), hotelID, parsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
