package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a booking does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrInvalidDateRange is returned when check-out is not after check-in or
	// check-in lies in the past.
	ErrInvalidDateRange = errors.New("invalid check-in or check-out date")

	// ErrRoomNotAvailable is returned when the room's own status forbids new
	// bookings, independent of any date range.
	ErrRoomNotAvailable = errors.New("room is not available")

	// ErrDatesUnavailable is returned when an overlapping blocking booking
	// already occupies the requested dates.
	ErrDatesUnavailable = errors.New("room is not available for the selected dates")

	// ErrUnauthorized is returned when the acting principal may not modify the
	// booking.
	ErrUnauthorized = errors.New("not allowed to modify this booking")

	// ErrVersionConflict is returned when an optimistic update lost against a
	// concurrent writer.
	ErrVersionConflict = errors.New("booking was modified by another transaction")

	// ErrValidation is returned for missing required creation fields.
	ErrValidation = errors.New("validation error")
)

// InvalidTransitionError reports a status transition that the lifecycle state
// machine does not permit. The booking is left unmodified.
type InvalidTransitionError struct {
	From      Status
	Attempted Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change booking from %s to %s", e.From, e.Attempted)
}
