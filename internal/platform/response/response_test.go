package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/service-reservation/internal/domain/booking"
	"github.com/harborview/service-reservation/internal/domain/guest"
	"github.com/harborview/service-reservation/internal/domain/room"
)

func renderError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, err)
	return w
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"booking not found", booking.ErrNotFound, http.StatusNotFound},
		{"room not found", room.ErrNotFound, http.StatusNotFound},
		{"guest not found", guest.ErrNotFound, http.StatusNotFound},
		{"invalid date range", booking.ErrInvalidDateRange, http.StatusBadRequest},
		{"booking validation", booking.ErrValidation, http.StatusBadRequest},
		{"room validation", room.ErrValidation, http.StatusBadRequest},
		{"unauthorized", booking.ErrUnauthorized, http.StatusForbidden},
		{"room not available", booking.ErrRoomNotAvailable, http.StatusConflict},
		{"dates unavailable", booking.ErrDatesUnavailable, http.StatusConflict},
		{"version conflict", booking.ErrVersionConflict, http.StatusConflict},
		{"room has bookings", room.ErrRoomHasBookings, http.StatusConflict},
		{"room number in use", room.ErrNumberInUse, http.StatusConflict},
		{
			"invalid transition",
			&booking.InvalidTransitionError{From: booking.StatusCancelled, Attempted: booking.StatusConfirmed},
			http.StatusConflict,
		},
		{"opaque failure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := renderError(t, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestErrorRendersRoomInputFailuresAsBadRequest(t *testing.T) {
	_, err := room.ParseType("PENTHOUSE")
	require.Error(t, err)
	w := renderError(t, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "PENTHOUSE")

	_, err = room.NewRoom("101", room.TypeSingle, -5, 0, room.StatusAvailable, "")
	require.Error(t, err)
	w = renderError(t, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorHidesOpaqueFailureDetails(t *testing.T) {
	w := renderError(t, errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}
