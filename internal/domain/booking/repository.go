package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SearchFilter holds optional, AND-composed booking search criteria. Nil or
// zero-valued fields impose no constraint.
type SearchFilter struct {
	Status      *Status
	CheckInFrom *time.Time
	CheckInTo   *time.Time
	GuestName   string
}

// MonthlyRevenue is one aggregated revenue row per (year, month) of check-in
// date over revenue-recognized bookings.
type MonthlyRevenue struct {
	Year         int
	Month        int
	RevenueCents int64
	BookingCount int64
}

// Repository defines persistence operations for bookings.
//
// Create must atomically re-verify the availability of the booking's room and
// date range before inserting, so that two concurrent creates for overlapping
// ranges on the same room cannot both succeed; the loser gets
// ErrDatesUnavailable.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindByGuestID(ctx context.Context, guestID uuid.UUID) ([]*Booking, error)

	// Update persists a status mutation with an optimistic version check and
	// returns ErrVersionConflict when a concurrent writer won.
	Update(ctx context.Context, b *Booking) error

	// ExistsOverlapping reports whether any blocking booking on the room
	// intersects the half-open range [checkIn, checkOut).
	ExistsOverlapping(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error)

	// ExistsBlockingForRoom reports whether the room has any blocking booking
	// at all, regardless of dates.
	ExistsBlockingForRoom(ctx context.Context, roomID uuid.UUID) (bool, error)

	Search(ctx context.Context, filter SearchFilter) ([]*Booking, error)
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	MonthlyRevenue(ctx context.Context) ([]MonthlyRevenue, error)
	FindByStatusAndCheckIn(ctx context.Context, status Status, checkIn time.Time) ([]*Booking, error)
}
