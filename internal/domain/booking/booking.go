package booking

import (
	"time"

	"github.com/google/uuid"
)

// Booking is the aggregate root for the reservation domain. A stay occupies the
// half-open date range [checkIn, checkOut); the guest and room references are
// immutable after creation.
type Booking struct {
	id              uuid.UUID
	guestID         uuid.UUID
	roomID          uuid.UUID
	checkIn         time.Time
	checkOut        time.Time
	totalPriceCents int64
	status          Status
	specialRequests string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// TruncateToDate normalizes a timestamp to midnight UTC. Bookings are
// date-granular; all range comparisons happen on truncated values.
func TruncateToDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NightsBetween returns the whole number of nights in [checkIn, checkOut).
func NightsBetween(checkIn, checkOut time.Time) int64 {
	return int64(TruncateToDate(checkOut).Sub(TruncateToDate(checkIn)).Hours() / 24)
}

// NewBooking creates a new pending booking with the total price derived from
// the room's current nightly rate. The check-in date must not be in the past
// and the range must cover at least one night.
func NewBooking(
	guestID, roomID uuid.UUID,
	checkIn, checkOut time.Time,
	nightlyRateCents int64,
	specialRequests string,
) (*Booking, error) {
	if guestID == uuid.Nil {
		return nil, ErrValidation
	}
	if roomID == uuid.Nil {
		return nil, ErrValidation
	}

	checkIn = TruncateToDate(checkIn)
	checkOut = TruncateToDate(checkOut)
	today := TruncateToDate(time.Now())

	if !checkOut.After(checkIn) || checkIn.Before(today) {
		return nil, ErrInvalidDateRange
	}

	nights := NightsBetween(checkIn, checkOut)
	if nights <= 0 {
		return nil, ErrInvalidDateRange
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		guestID:         guestID,
		roomID:          roomID,
		checkIn:         checkIn,
		checkOut:        checkOut,
		totalPriceCents: nightlyRateCents * nights,
		status:          StatusPending,
		specialRequests: specialRequests,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, guestID, roomID uuid.UUID,
	checkIn, checkOut time.Time,
	totalPriceCents int64,
	status Status,
	specialRequests string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		guestID:         guestID,
		roomID:          roomID,
		checkIn:         checkIn,
		checkOut:        checkOut,
		totalPriceCents: totalPriceCents,
		status:          status,
		specialRequests: specialRequests,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// GuestID returns the owning guest's user ID.
func (b *Booking) GuestID() uuid.UUID { return b.guestID }

// RoomID returns the booked room's ID.
func (b *Booking) RoomID() uuid.UUID { return b.roomID }

// CheckIn returns the check-in date (midnight UTC).
func (b *Booking) CheckIn() time.Time { return b.checkIn }

// CheckOut returns the exclusive check-out date (midnight UTC).
func (b *Booking) CheckOut() time.Time { return b.checkOut }

// TotalPriceCents returns the stored total price in cents. It is fixed at
// creation time and never recomputed from the room's current rate.
func (b *Booking) TotalPriceCents() int64 { return b.totalPriceCents }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// SpecialRequests returns the guest's free-text special requests.
func (b *Booking) SpecialRequests() string { return b.specialRequests }

// Nights returns the number of nights covered by the stay.
func (b *Booking) Nights() int64 { return NightsBetween(b.checkIn, b.checkOut) }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// Confirm transitions the booking from pending to confirmed.
func (b *Booking) Confirm() error { return b.transition(StatusConfirmed) }

// CheckInGuest marks the guest as arrived. Allowed from pending or confirmed.
func (b *Booking) CheckInGuest() error { return b.transition(StatusCheckedIn) }

// CheckOutGuest marks the stay as finished. Allowed only from checked-in.
func (b *Booking) CheckOutGuest() error { return b.transition(StatusCheckedOut) }

// Cancel cancels the booking unless it is already in a terminal state.
func (b *Booking) Cancel() error { return b.transition(StatusCancelled) }

func (b *Booking) transition(target Status) error {
	if !b.status.CanTransitionTo(target) {
		return &InvalidTransitionError{From: b.status, Attempted: target}
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
