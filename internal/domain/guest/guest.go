package guest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a guest does not exist.
var ErrNotFound = errors.New("guest not found")

// Guest is the stored identity a booking's ownership check and the guest-name
// search run against. Token verification itself happens in the auth layer.
type Guest struct {
	ID        uuid.UUID
	Username  string
	FullName  string
	Email     string
	Role      string
	CreatedAt time.Time
}

// Repository defines persistence operations for guests.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Guest, error)
	Save(ctx context.Context, g *Guest) error
}
