package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harborview/service-reservation/internal/application"
	bookingDomain "github.com/harborview/service-reservation/internal/domain/booking"
	"github.com/harborview/service-reservation/internal/platform/auth"
	"github.com/harborview/service-reservation/internal/platform/middleware"
	"github.com/harborview/service-reservation/internal/platform/response"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AdminHandler exposes the staff reporting and search endpoints.
type AdminHandler struct {
	bookings *application.BookingService
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{bookings: bookings, logger: logger}
}

// RegisterRoutes registers the admin routes on an authenticated group. Revenue
// reporting is restricted to managers.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireStaff())
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/search", h.SearchBookings)
		admin.GET("/stats/bookings", h.BookingStats)

		manager := admin.Group("")
		manager.Use(middleware.RequireRole(auth.RoleManager))
		{
			manager.GET("/stats/revenue", h.MonthlyRevenue)
		}
	}
}

// ListBookings handles GET /admin/bookings with page/limit pagination.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := paginationParams(c)

	dtos, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dtos, total, page, limit)
}

// SearchBookings handles GET /admin/bookings/search. Filters: status,
// guest_name (case-insensitive substring), check_in_from, check_in_to.
func (h *AdminHandler) SearchBookings(c *gin.Context) {
	var filter bookingDomain.SearchFilter

	if v := c.Query("status"); v != "" {
		status, err := bookingDomain.ParseStatus(v)
		if err != nil {
			response.BadRequest(c, "invalid status: "+v)
			return
		}
		filter.Status = &status
	}
	if v := c.Query("guest_name"); v != "" {
		filter.GuestName = v
	}
	if v := c.Query("check_in_from"); v != "" {
		from, err := time.Parse(time.DateOnly, v)
		if err != nil {
			response.BadRequest(c, "check_in_from must be formatted as YYYY-MM-DD")
			return
		}
		filter.CheckInFrom = &from
	}
	if v := c.Query("check_in_to"); v != "" {
		to, err := time.Parse(time.DateOnly, v)
		if err != nil {
			response.BadRequest(c, "check_in_to must be formatted as YYYY-MM-DD")
			return
		}
		filter.CheckInTo = &to
	}

	dtos, err := h.bookings.SearchBookings(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dtos)
}

// BookingStats handles GET /admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// MonthlyRevenue handles GET /admin/stats/revenue.
func (h *AdminHandler) MonthlyRevenue(c *gin.Context) {
	stats, err := h.bookings.GetMonthlyRevenue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func paginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	return page, limit
}
