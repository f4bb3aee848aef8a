package room

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a room does not exist.
	ErrNotFound = errors.New("room not found")

	// ErrNumberInUse is returned when saving a room whose number is already
	// taken by another room.
	ErrNumberInUse = errors.New("room number already in use")

	// ErrRoomHasBookings is returned when deleting a room that still has
	// blocking bookings referencing it.
	ErrRoomHasBookings = errors.New("room has active bookings")

	// ErrValidation wraps rejected room input: unknown type or status values,
	// missing number, non-positive capacity, negative price.
	ErrValidation = errors.New("invalid room data")
)

// SearchFilter holds optional, AND-composed room search criteria. Nil fields
// impose no constraint.
type SearchFilter struct {
	Status        *Status
	Type          *Type
	MaxPriceCents *int64
	MinCapacity   *int
}

// Repository defines persistence operations for the room catalog.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)
	ListByStatus(ctx context.Context, status Status) ([]*Room, error)
	Search(ctx context.Context, filter SearchFilter) ([]*Room, error)
	Save(ctx context.Context, r *Room) error
	Delete(ctx context.Context, id uuid.UUID) error
}
