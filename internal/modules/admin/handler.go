package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"roomsewa/internal/pkg/response"
	"roomsewa/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/bookings/stats", h.BookingStats)
	rg.GET("/users", h.ListUsers)
	rg.GET("/rooms", h.ListRooms)
}

func (h *Handler) Dashboard(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	stats, err := h.service.Dashboard(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build dashboard")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) BookingStats(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	stats, breakdown, err := h.service.BookingStats(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute booking stats")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"stats":            stats,
		"status_breakdown": breakdown,
	})
}

// dateRange parses optional from/to query params; to is inclusive of the
// whole day. Writes the error response itself when a date is malformed.
func dateRange(c *gin.Context) (from, to time.Time, ok bool) {
	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid from date")
			return from, to, false
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid to date")
			return from, to, false
		}
		to = t.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, true
}

func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	users, total, err := h.service.ListUsers(c.Request.Context(), repository.UserFilters{
		Role:    c.Query("role"),
		Search:  c.Query("search"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"users":    users,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func (h *Handler) ListRooms(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	rooms, total, err := h.service.ListRooms(c.Request.Context(), repository.RoomFilters{
		City:    c.Query("city"),
		Status:  c.Query("status"),
		Search:  c.Query("search"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list rooms")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"rooms":    rooms,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}
