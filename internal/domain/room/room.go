package room

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type enumerates the physical room categories.
type Type string

const (
	TypeSingle Type = "SINGLE"
	TypeDouble Type = "DOUBLE"
	TypeSuite  Type = "SUITE"
)

// IsValid returns true if the type is a recognized room type.
func (t Type) IsValid() bool {
	switch t {
	case TypeSingle, TypeDouble, TypeSuite:
		return true
	}
	return false
}

// ParseType converts a string to a room Type, returning an error if invalid.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown room type %q", ErrValidation, s)
	}
	return t, nil
}

// Status enumerates the operational states of a room. Status is informational
// only; date-range availability is determined by bookings, not by this field.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusOccupied    Status = "OCCUPIED"
	StatusMaintenance Status = "MAINTENANCE"
)

// IsValid returns true if the status is a recognized room status.
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusMaintenance:
		return true
	}
	return false
}

// ParseStatus converts a string to a room Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: unknown room status %q", ErrValidation, s)
	}
	return st, nil
}

// Room is the aggregate root for the room catalog.
type Room struct {
	id              uuid.UUID
	number          string
	roomType        Type
	priceNightCents int64
	capacity        int
	status          Status
	description     string

	createdAt time.Time
	updatedAt time.Time
}

func validateAttributes(number string, roomType Type, priceNightCents int64, capacity int, status Status) error {
	if number == "" {
		return fmt.Errorf("%w: room number is required", ErrValidation)
	}
	if !roomType.IsValid() {
		return fmt.Errorf("%w: unknown room type %q", ErrValidation, roomType)
	}
	if priceNightCents < 0 {
		return fmt.Errorf("%w: nightly price must not be negative", ErrValidation)
	}
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrValidation)
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown room status %q", ErrValidation, status)
	}
	return nil
}

// NewRoom creates a new room record with validated required fields.
func NewRoom(number string, roomType Type, priceNightCents int64, capacity int, status Status, description string) (*Room, error) {
	if err := validateAttributes(number, roomType, priceNightCents, capacity, status); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Room{
		id:              uuid.New(),
		number:          number,
		roomType:        roomType,
		priceNightCents: priceNightCents,
		capacity:        capacity,
		status:          status,
		description:     description,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructRoom rebuilds a Room from persistence data (no validation).
func ReconstructRoom(
	id uuid.UUID,
	number string,
	roomType Type,
	priceNightCents int64,
	capacity int,
	status Status,
	description string,
	createdAt, updatedAt time.Time,
) *Room {
	return &Room{
		id:              id,
		number:          number,
		roomType:        roomType,
		priceNightCents: priceNightCents,
		capacity:        capacity,
		status:          status,
		description:     description,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// ID returns the room's unique identifier.
func (r *Room) ID() uuid.UUID { return r.id }

// Number returns the human-facing room number.
func (r *Room) Number() string { return r.number }

// RoomType returns the room category.
func (r *Room) RoomType() Type { return r.roomType }

// PriceNightCents returns the nightly rate in cents.
func (r *Room) PriceNightCents() int64 { return r.priceNightCents }

// Capacity returns the maximum number of guests.
func (r *Room) Capacity() int { return r.capacity }

// Status returns the room's operational status.
func (r *Room) Status() Status { return r.status }

// Description returns the free-text room description.
func (r *Room) Description() string { return r.description }

// CreatedAt returns the creation timestamp.
func (r *Room) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Room) UpdatedAt() time.Time { return r.updatedAt }

// UpdateDetails replaces the editable room fields, validating them the same way
// as NewRoom.
func (r *Room) UpdateDetails(number string, roomType Type, priceNightCents int64, capacity int, status Status, description string) error {
	if err := validateAttributes(number, roomType, priceNightCents, capacity, status); err != nil {
		return err
	}

	r.number = number
	r.roomType = roomType
	r.priceNightCents = priceNightCents
	r.capacity = capacity
	r.status = status
	r.description = description
	r.updatedAt = time.Now().UTC()
	return nil
}

// SetStatus changes only the operational status.
func (r *Room) SetStatus(status Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown room status %q", ErrValidation, status)
	}
	r.status = status
	r.updatedAt = time.Now().UTC()
	return nil
}
