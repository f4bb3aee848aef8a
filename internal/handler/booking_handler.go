package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborview/service-reservation/internal/application"
	"github.com/harborview/service-reservation/internal/platform/middleware"
	"github.com/harborview/service-reservation/internal/platform/response"
)

// BookingHandler exposes the guest-facing booking endpoints.
type BookingHandler struct {
	bookings *application.BookingService
	logger   *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings *application.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

// RegisterRoutes registers the booking routes on an authenticated group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.MyBookings)
		bookings.GET("/:id", h.Get)
		bookings.POST("/:id/cancel", h.Cancel)

		staff := bookings.Group("")
		staff.Use(middleware.RequireStaff())
		{
			staff.POST("/:id/confirm", h.Confirm)
			staff.POST("/:id/check-in", h.CheckIn)
			staff.POST("/:id/check-out", h.CheckOut)
		}
	}
}

type createBookingRequest struct {
	RoomID          string `json:"room_id" binding:"required,uuid"`
	CheckIn         string `json:"check_in" binding:"required"`
	CheckOut        string `json:"check_out" binding:"required"`
	SpecialRequests string `json:"special_requests"`
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}
	checkIn, err := time.Parse(time.DateOnly, req.CheckIn)
	if err != nil {
		response.BadRequest(c, "check_in must be formatted as YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse(time.DateOnly, req.CheckOut)
	if err != nil {
		response.BadRequest(c, "check_out must be formatted as YYYY-MM-DD")
		return
	}

	dto, err := h.bookings.CreateBooking(c.Request.Context(), principal.UserID, application.CreateBookingRequest{
		RoomID:          roomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// Get handles GET /bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	dto, err := h.bookings.GetBooking(c.Request.Context(), principal, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// MyBookings handles GET /bookings, listing the caller's own bookings.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	dtos, err := h.bookings.GetGuestBookings(c.Request.Context(), principal.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dtos)
}

// Cancel handles POST /bookings/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	dto, err := h.bookings.CancelBooking(c.Request.Context(), principal, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Confirm handles POST /bookings/:id/confirm.
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.bookings.ConfirmBooking)
}

// CheckIn handles POST /bookings/:id/check-in.
func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.transition(c, h.bookings.CheckIn)
}

// CheckOut handles POST /bookings/:id/check-out.
func (h *BookingHandler) CheckOut(c *gin.Context) {
	h.transition(c, h.bookings.CheckOut)
}

func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*application.BookingDTO, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking id")
		return
	}

	dto, err := op(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
