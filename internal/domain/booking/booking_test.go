package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func futureDate(days int) time.Time {
	return TruncateToDate(time.Now().AddDate(0, 0, days))
}

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	b, err := NewBooking(uuid.New(), uuid.New(), futureDate(10), futureDate(13), 100_00, "")
	require.NoError(t, err)
	return b
}

func TestNewBooking(t *testing.T) {
	t.Run("derives total price from nightly rate and nights", func(t *testing.T) {
		b, err := NewBooking(uuid.New(), uuid.New(), futureDate(10), futureDate(13), 100_00, "late arrival")
		require.NoError(t, err)

		assert.Equal(t, int64(3), b.Nights())
		assert.Equal(t, int64(300_00), b.TotalPriceCents())
		assert.Equal(t, StatusPending, b.Status())
		assert.Equal(t, "late arrival", b.SpecialRequests())
		assert.Equal(t, int64(1), b.Version())
		assert.NotEqual(t, uuid.Nil, b.ID())
	})

	t.Run("single night stay", func(t *testing.T) {
		b, err := NewBooking(uuid.New(), uuid.New(), futureDate(5), futureDate(6), 250_00, "")
		require.NoError(t, err)

		assert.Equal(t, int64(1), b.Nights())
		assert.Equal(t, int64(250_00), b.TotalPriceCents())
	})

	t.Run("truncates timestamps to dates", func(t *testing.T) {
		checkIn := time.Now().AddDate(0, 0, 10).Add(14 * time.Hour)
		checkOut := time.Now().AddDate(0, 0, 12).Add(9 * time.Hour)

		b, err := NewBooking(uuid.New(), uuid.New(), checkIn, checkOut, 100_00, "")
		require.NoError(t, err)

		assert.Equal(t, TruncateToDate(checkIn), b.CheckIn())
		assert.Equal(t, TruncateToDate(checkOut), b.CheckOut())
		assert.Equal(t, int64(2), b.Nights())
	})

	t.Run("rejects check-out equal to check-in", func(t *testing.T) {
		_, err := NewBooking(uuid.New(), uuid.New(), futureDate(10), futureDate(10), 100_00, "")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("rejects check-out before check-in", func(t *testing.T) {
		_, err := NewBooking(uuid.New(), uuid.New(), futureDate(13), futureDate(10), 100_00, "")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("rejects check-in in the past", func(t *testing.T) {
		_, err := NewBooking(uuid.New(), uuid.New(), futureDate(-1), futureDate(3), 100_00, "")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("allows check-in today", func(t *testing.T) {
		b, err := NewBooking(uuid.New(), uuid.New(), futureDate(0), futureDate(2), 100_00, "")
		require.NoError(t, err)
		assert.Equal(t, int64(2), b.Nights())
	})

	t.Run("rejects missing guest or room", func(t *testing.T) {
		_, err := NewBooking(uuid.Nil, uuid.New(), futureDate(10), futureDate(12), 100_00, "")
		assert.ErrorIs(t, err, ErrValidation)

		_, err = NewBooking(uuid.New(), uuid.Nil, futureDate(10), futureDate(12), 100_00, "")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestBookingTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		apply   func(*Booking) error
		want    Status
		allowed bool
	}{
		{"pending to confirmed", StatusPending, (*Booking).Confirm, StatusConfirmed, true},
		{"pending to checked in", StatusPending, (*Booking).CheckInGuest, StatusCheckedIn, true},
		{"pending to cancelled", StatusPending, (*Booking).Cancel, StatusCancelled, true},
		{"pending to checked out", StatusPending, (*Booking).CheckOutGuest, StatusCheckedOut, false},
		{"confirmed to checked in", StatusConfirmed, (*Booking).CheckInGuest, StatusCheckedIn, true},
		{"confirmed to cancelled", StatusConfirmed, (*Booking).Cancel, StatusCancelled, true},
		{"confirmed to confirmed", StatusConfirmed, (*Booking).Confirm, StatusConfirmed, false},
		{"confirmed to checked out", StatusConfirmed, (*Booking).CheckOutGuest, StatusCheckedOut, false},
		{"checked in to checked out", StatusCheckedIn, (*Booking).CheckOutGuest, StatusCheckedOut, true},
		{"checked in to cancelled", StatusCheckedIn, (*Booking).Cancel, StatusCancelled, true},
		{"checked in to confirmed", StatusCheckedIn, (*Booking).Confirm, StatusConfirmed, false},
		{"checked out to cancelled", StatusCheckedOut, (*Booking).Cancel, StatusCancelled, false},
		{"checked out to confirmed", StatusCheckedOut, (*Booking).Confirm, StatusConfirmed, false},
		{"cancelled to confirmed", StatusCancelled, (*Booking).Confirm, StatusConfirmed, false},
		{"cancelled to checked in", StatusCancelled, (*Booking).CheckInGuest, StatusCheckedIn, false},
		{"cancelled to cancelled", StatusCancelled, (*Booking).Cancel, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBooking(t)
			b.status = tt.from

			err := tt.apply(b)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.want, b.Status())
				return
			}

			var transitionErr *InvalidTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, tt.from, transitionErr.From)
			assert.Equal(t, tt.want, transitionErr.Attempted)
			assert.Equal(t, tt.from, b.Status(), "rejected transition must not change state")
		})
	}
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Cancel())

	err := b.Confirm()
	require.Error(t, err)
	assert.Equal(t, "cannot change booking from CANCELLED to CONFIRMED", err.Error())

	var transitionErr *InvalidTransitionError
	assert.True(t, errors.As(err, &transitionErr))
}

func TestStatusProperties(t *testing.T) {
	assert.True(t, StatusPending.IsBlocking())
	assert.True(t, StatusConfirmed.IsBlocking())
	assert.True(t, StatusCheckedIn.IsBlocking())
	assert.False(t, StatusCheckedOut.IsBlocking())
	assert.False(t, StatusCancelled.IsBlocking())

	assert.True(t, StatusCheckedOut.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())

	_, err := ParseStatus("UNKNOWN")
	assert.Error(t, err)

	parsed, err := ParseStatus("CHECKED_IN")
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, parsed)
}

func TestNightsBetween(t *testing.T) {
	in := time.Date(2027, 3, 10, 15, 30, 0, 0, time.UTC)
	out := time.Date(2027, 3, 14, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(4), NightsBetween(in, out))
	assert.Equal(t, int64(0), NightsBetween(in, in))
}

func TestIncrementVersion(t *testing.T) {
	b := newTestBooking(t)
	require.Equal(t, int64(1), b.Version())

	b.IncrementVersion()
	assert.Equal(t, int64(2), b.Version())
}

func TestReconstructBooking(t *testing.T) {
	id, guestID, roomID := uuid.New(), uuid.New(), uuid.New()
	in, out := futureDate(5), futureDate(8)
	created := time.Now().Add(-time.Hour)

	b := ReconstructBooking(id, guestID, roomID, in, out, 450_00, StatusConfirmed, "quiet floor", 3, created, created)

	assert.Equal(t, id, b.ID())
	assert.Equal(t, guestID, b.GuestID())
	assert.Equal(t, roomID, b.RoomID())
	assert.Equal(t, StatusConfirmed, b.Status())
	assert.Equal(t, int64(450_00), b.TotalPriceCents())
	assert.Equal(t, int64(3), b.Version())
	assert.Equal(t, int64(3), b.Nights())
}
