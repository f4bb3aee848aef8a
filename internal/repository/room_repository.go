package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	roomDomain "github.com/harborview/service-reservation/internal/domain/room"
)

const uniqueViolationCode = "23505"

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoomNumber      string    `gorm:"uniqueIndex;not null;size:20"`
	RoomType        string    `gorm:"not null;size:20"`
	PriceNightCents int64     `gorm:"not null"`
	Capacity        int       `gorm:"not null"`
	Status          string    `gorm:"not null;size:20;index"`
	Description     string    `gorm:"size:1000"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RoomModel) TableName() string {
	return "rooms"
}

// GormRoomRepository is the GORM-based implementation of the room repository.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByID retrieves a room by its unique identifier.
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	var model RoomModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, roomDomain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find room by ID: %w", err)
	}
	return toDomainRoom(&model), nil
}

// ListByStatus retrieves all rooms in the given status, ordered by room number.
func (r *GormRoomRepository) ListByStatus(ctx context.Context, status roomDomain.Status) ([]*roomDomain.Room, error) {
	var models []RoomModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("room_number ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms by status: %w", err)
	}
	return toDomainRooms(models), nil
}

// Search retrieves rooms matching the AND-composed filter, ordered by room
// number. Absent filter fields impose no constraint.
func (r *GormRoomRepository) Search(ctx context.Context, filter roomDomain.SearchFilter) ([]*roomDomain.Room, error) {
	q := r.db.WithContext(ctx).Model(&RoomModel{})

	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.Type != nil {
		q = q.Where("room_type = ?", string(*filter.Type))
	}
	if filter.MaxPriceCents != nil {
		q = q.Where("price_night_cents <= ?", *filter.MaxPriceCents)
	}
	if filter.MinCapacity != nil {
		q = q.Where("capacity >= ?", *filter.MinCapacity)
	}

	var models []RoomModel
	if err := q.Order("room_number ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search rooms: %w", err)
	}
	return toDomainRooms(models), nil
}

// Save creates or updates a room. A duplicate room number maps to
// ErrNumberInUse.
func (r *GormRoomRepository) Save(ctx context.Context, rm *roomDomain.Room) error {
	model := toRoomModel(rm)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return roomDomain.ErrNumberInUse
		}
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// Delete removes a room unconditionally. Guarding against rooms with active
// bookings is the caller's responsibility.
func (r *GormRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&RoomModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return roomDomain.ErrNotFound
	}
	return nil
}

// --- Conversion helpers ---

func toRoomModel(rm *roomDomain.Room) *RoomModel {
	return &RoomModel{
		ID:              rm.ID(),
		RoomNumber:      rm.Number(),
		RoomType:        string(rm.RoomType()),
		PriceNightCents: rm.PriceNightCents(),
		Capacity:        rm.Capacity(),
		Status:          string(rm.Status()),
		Description:     rm.Description(),
		CreatedAt:       rm.CreatedAt(),
		UpdatedAt:       rm.UpdatedAt(),
	}
}

func toDomainRoom(m *RoomModel) *roomDomain.Room {
	return roomDomain.ReconstructRoom(
		m.ID,
		m.RoomNumber,
		roomDomain.Type(m.RoomType),
		m.PriceNightCents,
		m.Capacity,
		roomDomain.Status(m.Status),
		m.Description,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainRooms(models []RoomModel) []*roomDomain.Room {
	rooms := make([]*roomDomain.Room, len(models))
	for i, m := range models {
		rooms[i] = toDomainRoom(&m)
	}
	return rooms
}
