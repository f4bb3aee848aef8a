package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	guestDomain "github.com/harborview/service-reservation/internal/domain/guest"
)

// GuestModel is the GORM model for the guests table.
type GuestModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"uniqueIndex;not null;size:100"`
	FullName  string    `gorm:"not null;size:200"`
	Email     string    `gorm:"not null;size:200"`
	Role      string    `gorm:"not null;size:30"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (GuestModel) TableName() string {
	return "guests"
}

// GormGuestRepository is the GORM-based implementation of the guest repository.
type GormGuestRepository struct {
	db *gorm.DB
}

// NewGormGuestRepository creates a new GormGuestRepository.
func NewGormGuestRepository(db *gorm.DB) *GormGuestRepository {
	return &GormGuestRepository{db: db}
}

// FindByID retrieves a guest by their unique identifier.
func (r *GormGuestRepository) FindByID(ctx context.Context, id uuid.UUID) (*guestDomain.Guest, error) {
	var model GuestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, guestDomain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find guest by ID: %w", err)
	}
	return toDomainGuest(&model), nil
}

// Save creates or updates a guest record.
func (r *GormGuestRepository) Save(ctx context.Context, g *guestDomain.Guest) error {
	model := &GuestModel{
		ID:        g.ID,
		Username:  g.Username,
		FullName:  g.FullName,
		Email:     g.Email,
		Role:      g.Role,
		CreatedAt: g.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save guest: %w", err)
	}
	return nil
}

func toDomainGuest(m *GuestModel) *guestDomain.Guest {
	return &guestDomain.Guest{
		ID:        m.ID,
		Username:  m.Username,
		FullName:  m.FullName,
		Email:     m.Email,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}
