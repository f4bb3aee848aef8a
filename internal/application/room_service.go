package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/harborview/service-reservation/internal/domain/booking"
	roomDomain "github.com/harborview/service-reservation/internal/domain/room"
	"github.com/harborview/service-reservation/internal/platform/cache"
)

const availableRoomsCacheKey = "rooms:available"

// ListingCache caches room listings. A nil implementation is not allowed; use
// a no-op cache in tests instead.
type ListingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// SaveRoomRequest holds the data needed to create or update a room.
type SaveRoomRequest struct {
	Number          string
	RoomType        string
	PriceNightCents int64
	Capacity        int
	Status          string
	Description     string
}

// RoomSearchQuery filters the room search. All fields are optional and
// AND-composed. When both AvailableFrom and AvailableTo are set, rooms with a
// blocking booking overlapping that window are excluded.
type RoomSearchQuery struct {
	Status        *string
	Type          *string
	MaxPriceCents *int64
	MinCapacity   *int
	AvailableFrom *time.Time
	AvailableTo   *time.Time
}

// RoomDTO is the response representation of a room.
type RoomDTO struct {
	ID              uuid.UUID `json:"id"`
	Number          string    `json:"number"`
	RoomType        string    `json:"room_type"`
	PriceNightCents int64     `json:"price_night_cents"`
	Capacity        int       `json:"capacity"`
	Status          string    `json:"status"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RoomService is the application service owning the room catalog.
type RoomService struct {
	rooms    roomDomain.Repository
	bookings bookingDomain.Repository
	cache    ListingCache
	logger   *zap.Logger
}

// NewRoomService creates a new RoomService.
func NewRoomService(
	rooms roomDomain.Repository,
	bookings bookingDomain.Repository,
	listingCache ListingCache,
	logger *zap.Logger,
) *RoomService {
	return &RoomService{
		rooms:    rooms,
		bookings: bookings,
		cache:    listingCache,
		logger:   logger,
	}
}

// GetRoom retrieves a single room by ID.
func (s *RoomService) GetRoom(ctx context.Context, id uuid.UUID) (*RoomDTO, error) {
	rm, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toRoomDTO(rm)
	return &result, nil
}

// ListAvailableRooms returns all rooms currently in the available status,
// served from the cache when warm.
func (s *RoomService) ListAvailableRooms(ctx context.Context) ([]RoomDTO, error) {
	var cached []RoomDTO
	err := s.cache.Get(ctx, availableRoomsCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("room listing cache read failed", zap.Error(err))
	}

	rooms, err := s.rooms.ListByStatus(ctx, roomDomain.StatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}

	dtos := toRoomDTOs(rooms)
	if err := s.cache.Set(ctx, availableRoomsCacheKey, dtos); err != nil {
		s.logger.Warn("room listing cache write failed", zap.Error(err))
	}
	return dtos, nil
}

// SearchRooms retrieves rooms matching the query. An availability window
// filters out rooms holding a blocking booking that overlaps it.
func (s *RoomService) SearchRooms(ctx context.Context, query RoomSearchQuery) ([]RoomDTO, error) {
	filter := roomDomain.SearchFilter{
		MaxPriceCents: query.MaxPriceCents,
		MinCapacity:   query.MinCapacity,
	}
	if query.Status != nil {
		status, err := roomDomain.ParseStatus(*query.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if query.Type != nil {
		roomType, err := roomDomain.ParseType(*query.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = &roomType
	}

	rooms, err := s.rooms.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	if query.AvailableFrom == nil || query.AvailableTo == nil {
		return toRoomDTOs(rooms), nil
	}

	from := bookingDomain.TruncateToDate(*query.AvailableFrom)
	to := bookingDomain.TruncateToDate(*query.AvailableTo)
	if !to.After(from) {
		return nil, bookingDomain.ErrInvalidDateRange
	}

	free := make([]RoomDTO, 0, len(rooms))
	for _, rm := range rooms {
		taken, err := s.bookings.ExistsOverlapping(ctx, rm.ID(), from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to check room availability: %w", err)
		}
		if !taken {
			free = append(free, toRoomDTO(rm))
		}
	}
	return free, nil
}

// CreateRoom adds a new room to the catalog.
func (s *RoomService) CreateRoom(ctx context.Context, req SaveRoomRequest) (*RoomDTO, error) {
	roomType, err := roomDomain.ParseType(req.RoomType)
	if err != nil {
		return nil, err
	}
	status, err := roomDomain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	rm, err := roomDomain.NewRoom(req.Number, roomType, req.PriceNightCents, req.Capacity, status, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.rooms.Save(ctx, rm); err != nil {
		return nil, err
	}
	s.invalidateListing(ctx)

	s.logger.Info("room created",
		zap.String("room_id", rm.ID().String()),
		zap.String("room_number", rm.Number()),
	)

	result := toRoomDTO(rm)
	return &result, nil
}

// UpdateRoom replaces the mutable attributes of an existing room.
func (s *RoomService) UpdateRoom(ctx context.Context, id uuid.UUID, req SaveRoomRequest) (*RoomDTO, error) {
	rm, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	roomType, err := roomDomain.ParseType(req.RoomType)
	if err != nil {
		return nil, err
	}
	status, err := roomDomain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	if err := rm.UpdateDetails(req.Number, roomType, req.PriceNightCents, req.Capacity, status, req.Description); err != nil {
		return nil, err
	}

	if err := s.rooms.Save(ctx, rm); err != nil {
		return nil, err
	}
	s.invalidateListing(ctx)

	result := toRoomDTO(rm)
	return &result, nil
}

// DeleteRoom removes a room from the catalog. A room still referenced by a
// pending, confirmed or checked-in booking cannot be deleted.
func (s *RoomService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	if _, err := s.rooms.FindByID(ctx, id); err != nil {
		return err
	}

	blocked, err := s.bookings.ExistsBlockingForRoom(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check room bookings: %w", err)
	}
	if blocked {
		return roomDomain.ErrRoomHasBookings
	}

	if err := s.rooms.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListing(ctx)

	s.logger.Info("room deleted", zap.String("room_id", id.String()))
	return nil
}

func (s *RoomService) invalidateListing(ctx context.Context) {
	if err := s.cache.Delete(ctx, availableRoomsCacheKey); err != nil {
		s.logger.Warn("room listing cache invalidation failed", zap.Error(err))
	}
}

func toRoomDTO(rm *roomDomain.Room) RoomDTO {
	return RoomDTO{
		ID:              rm.ID(),
		Number:          rm.Number(),
		RoomType:        string(rm.RoomType()),
		PriceNightCents: rm.PriceNightCents(),
		Capacity:        rm.Capacity(),
		Status:          string(rm.Status()),
		Description:     rm.Description(),
		CreatedAt:       rm.CreatedAt(),
		UpdatedAt:       rm.UpdatedAt(),
	}
}

func toRoomDTOs(rooms []*roomDomain.Room) []RoomDTO {
	dtos := make([]RoomDTO, len(rooms))
	for i, rm := range rooms {
		dtos[i] = toRoomDTO(rm)
	}
	return dtos
}
