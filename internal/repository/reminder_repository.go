package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReminderModel is the GORM model for the reminders table. One row per booking
// that already received its stay reminder.
type ReminderModel struct {
	BookingID uuid.UUID `gorm:"type:uuid;primaryKey"`
	SentAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReminderModel) TableName() string {
	return "reminders"
}

// GormReminderLog is the GORM-based reminder dedup log.
type GormReminderLog struct {
	db *gorm.DB
}

// NewGormReminderLog creates a new GormReminderLog.
func NewGormReminderLog(db *gorm.DB) *GormReminderLog {
	return &GormReminderLog{db: db}
}

// AlreadySent reports whether a reminder was already recorded for the booking.
func (r *GormReminderLog) AlreadySent(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ReminderModel{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check reminder log: %w", err)
	}
	return count > 0, nil
}

// MarkSent records the reminder. Recording the same booking twice is a no-op,
// so two worker replicas cannot trip each other.
func (r *GormReminderLog) MarkSent(ctx context.Context, bookingID uuid.UUID) error {
	model := &ReminderModel{BookingID: bookingID, SentAt: time.Now().UTC()}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error; err != nil {
		return fmt.Errorf("failed to record reminder: %w", err)
	}
	return nil
}
