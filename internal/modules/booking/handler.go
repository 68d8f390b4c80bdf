package booking

import (
	"errors"
	"net/http"
	"strconv"

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
	rg.POST("/bookings/lock-slots", h.LockSlots)
	rg.POST("/bookings", h.CreateBooking)
	rg.POST("/bookings/verify-payment", h.VerifyPayment)
	rg.GET("/bookings/my", h.MyBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
}

func (h *Handler) LockSlots(c *gin.Context) {
	var req LockSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	out, err := h.service.LockSlots(c.Request.Context(), userID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	out, err := h.service.CreateBooking(c.Request.Context(), userID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	out, err := h.service.VerifyPayment(c.Request.Context(), userID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) MyBookings(c *gin.Context) {
	bookings, err := h.service.GetMyBookings(c.Request.Context(), userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), userID(c), role(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Cancellation reason is required")
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), userID(c), role(c), id, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	serviceID, _ := strconv.ParseInt(c.Query("service_id"), 10, 64)
	filterUserID, _ := strconv.ParseInt(c.Query("user_id"), 10, 64)

	bookings, total, err := h.service.List(c.Request.Context(), repository.BookingFilters{
		Status:    c.Query("status"),
		ServiceID: serviceID,
		UserID:    filterUserID,
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, ErrOwnRoom):
		response.Error(c, http.StatusBadRequest, "OWN_ROOM", "You cannot book your own room")
	case errors.Is(err, ErrRoomNotApproved):
		response.Error(c, http.StatusBadRequest, "ROOM_NOT_APPROVED", "Room is not available for booking")
	case errors.Is(err, ErrDateInPast):
		response.Error(c, http.StatusBadRequest, "DATE_IN_PAST", "Booking date cannot be in the past")
	case errors.Is(err, ErrDateTooFar):
		response.Error(c, http.StatusBadRequest, "DATE_TOO_FAR", "Viewing dates must be within the next 3 days")
	case errors.Is(err, ErrDateNotAvailable):
		response.Error(c, http.StatusBadRequest, "DATE_NOT_AVAILABLE", "Room is not available on this date")
	case errors.Is(err, ErrDateConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Room already has an active booking for this date")
	case errors.Is(err, ErrSlotUnavailable):
		response.Error(c, http.StatusConflict, "SLOT_UNAVAILABLE", "One or more slots are no longer available, please pick different slots")
	case errors.Is(err, ErrLockLost):
		response.Error(c, http.StatusConflict, "LOCK_EXPIRED", "Your slot reservation expired before payment completed")
	case errors.Is(err, ErrAlreadyCancelled):
		response.Error(c, http.StatusBadRequest, "ALREADY_CANCELLED", "Booking is already cancelled")
	case errors.Is(err, ErrNotCancellable):
		response.Error(c, http.StatusBadRequest, "NOT_CANCELLABLE", "Booking can no longer be cancelled")
	case errors.Is(err, ErrUnsupportedMethod):
		response.Error(c, http.StatusBadRequest, "UNSUPPORTED_METHOD", "Payment method cannot be verified online")
	case errors.Is(err, repository.ErrServiceNotFound):
		response.Error(c, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func userID(c *gin.Context) int64 {
	v, _ := c.Get("user_id")
	id, _ := v.(int64)
	return id
}

func role(c *gin.Context) string {
	v, _ := c.Get("role")
	r, _ := v.(string)
	return r
}
