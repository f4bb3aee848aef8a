// Package response centralizes the JSON envelope and the mapping from domain
// errors to HTTP status codes, so handlers never translate errors themselves.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborview/service-reservation/internal/domain/booking"
	"github.com/harborview/service-reservation/internal/domain/guest"
	"github.com/harborview/service-reservation/internal/domain/room"
)

// Success writes a 200 response with the data envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 response with the data envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// Paginated writes a 200 response with items and pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"meta": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// Error maps a domain error onto an HTTP status. Expected business outcomes
// keep their specific message; anything unrecognized is treated as an opaque
// persistence failure and rendered generically.
func Error(c *gin.Context, err error) {
	var transitionErr *booking.InvalidTransitionError

	switch {
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, room.ErrNotFound),
		errors.Is(err, guest.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, booking.ErrInvalidDateRange),
		errors.Is(err, booking.ErrValidation),
		errors.Is(err, room.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, booking.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, booking.ErrRoomNotAvailable),
		errors.Is(err, booking.ErrDatesUnavailable),
		errors.Is(err, booking.ErrVersionConflict),
		errors.Is(err, room.ErrRoomHasBookings),
		errors.Is(err, room.ErrNumberInUse),
		errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
