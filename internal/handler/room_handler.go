package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborview/service-reservation/internal/application"
	"github.com/harborview/service-reservation/internal/platform/auth"
	"github.com/harborview/service-reservation/internal/platform/middleware"
	"github.com/harborview/service-reservation/internal/platform/response"
)

// RoomHandler exposes the room catalog endpoints. Browsing is public; managing
// the catalog requires the manager role.
type RoomHandler struct {
	rooms  *application.RoomService
	logger *zap.Logger
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(rooms *application.RoomService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{rooms: rooms, logger: logger}
}

// RegisterPublicRoutes registers the unauthenticated browsing routes.
func (h *RoomHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	{
		rooms.GET("", h.ListAvailable)
		rooms.GET("/search", h.Search)
		rooms.GET("/:id", h.Get)
	}
}

// RegisterManagementRoutes registers the catalog management routes, mounted
// under the authenticated admin group.
func (h *RoomHandler) RegisterManagementRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	rooms.Use(middleware.RequireRole(auth.RoleManager))
	{
		rooms.POST("", h.Create)
		rooms.PUT("/:id", h.Update)
		rooms.DELETE("/:id", h.Delete)
	}
}

type saveRoomRequest struct {
	Number          string `json:"number" binding:"required"`
	RoomType        string `json:"room_type" binding:"required"`
	PriceNightCents int64  `json:"price_night_cents"`
	Capacity        int    `json:"capacity" binding:"required"`
	Status          string `json:"status" binding:"required"`
	Description     string `json:"description"`
}

func (r saveRoomRequest) toApplication() application.SaveRoomRequest {
	return application.SaveRoomRequest{
		Number:          r.Number,
		RoomType:        r.RoomType,
		PriceNightCents: r.PriceNightCents,
		Capacity:        r.Capacity,
		Status:          r.Status,
		Description:     r.Description,
	}
}

// ListAvailable handles GET /rooms.
func (h *RoomHandler) ListAvailable(c *gin.Context) {
	dtos, err := h.rooms.ListAvailableRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dtos)
}

// Get handles GET /rooms/:id.
func (h *RoomHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}

	dto, err := h.rooms.GetRoom(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Search handles GET /rooms/search. All query parameters are optional; an
// availability window needs both "from" and "to" dates.
func (h *RoomHandler) Search(c *gin.Context) {
	var query application.RoomSearchQuery

	if v := c.Query("status"); v != "" {
		query.Status = &v
	}
	if v := c.Query("type"); v != "" {
		query.Type = &v
	}
	if v := c.Query("max_price_cents"); v != "" {
		maxPrice, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "max_price_cents must be an integer")
			return
		}
		query.MaxPriceCents = &maxPrice
	}
	if v := c.Query("min_capacity"); v != "" {
		minCapacity, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, "min_capacity must be an integer")
			return
		}
		query.MinCapacity = &minCapacity
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.DateOnly, v)
		if err != nil {
			response.BadRequest(c, "from must be formatted as YYYY-MM-DD")
			return
		}
		query.AvailableFrom = &from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.DateOnly, v)
		if err != nil {
			response.BadRequest(c, "to must be formatted as YYYY-MM-DD")
			return
		}
		query.AvailableTo = &to
	}
	if (query.AvailableFrom == nil) != (query.AvailableTo == nil) {
		response.BadRequest(c, "from and to must be provided together")
		return
	}

	dtos, err := h.rooms.SearchRooms(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dtos)
}

// Create handles POST /admin/rooms.
func (h *RoomHandler) Create(c *gin.Context) {
	var req saveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.rooms.CreateRoom(c.Request.Context(), req.toApplication())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// Update handles PUT /admin/rooms/:id.
func (h *RoomHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}

	var req saveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	dto, err := h.rooms.UpdateRoom(c.Request.Context(), id, req.toApplication())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Delete handles DELETE /admin/rooms/:id.
func (h *RoomHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return
	}

	if err := h.rooms.DeleteRoom(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
