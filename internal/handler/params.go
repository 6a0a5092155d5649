package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/limotraffics98-droid/Hotel-booking-system/internal/domain"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/middleware"
	"github.com/limotraffics98-droid/Hotel-booking-system/internal/response"
)

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) domain.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(domain.DefaultPageLimit)))
	return domain.NewPage(page, limit)
}

// parseIDParam parses a UUID path parameter, answering 400 when malformed.
func parseIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// optionalFloat parses a float query parameter. Empty means unset.
func optionalFloat(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &v, true
}

// identity returns the authenticated caller, answering 401 when absent.
func identity(c *gin.Context) (uuid.UUID, string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return uuid.Nil, "", false
	}
	role, _ := middleware.GetUserRole(c)
	return userID, role, true
}
