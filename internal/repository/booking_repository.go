package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/harborview/service-reservation/internal/domain/booking"
	roomDomain "github.com/harborview/service-reservation/internal/domain/room"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	GuestID         uuid.UUID `gorm:"type:uuid;index;not null"`
	RoomID          uuid.UUID `gorm:"type:uuid;index;not null"`
	CheckInDate     time.Time `gorm:"type:date;not null;index"`
	CheckOutDate    time.Time `gorm:"type:date;not null"`
	TotalPriceCents int64     `gorm:"not null"`
	Status          string    `gorm:"not null;size:20;index"`
	SpecialRequests string    `gorm:"size:1000"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Create inserts a new booking. The overlap check and the insert run in one
// transaction holding a row lock on the room, so two concurrent creates for
// overlapping ranges on the same room serialize and the second one fails with
// ErrDatesUnavailable.
func (r *GormBookingRepository) Create(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lockedRoom RoomModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", b.RoomID()).
			First(&lockedRoom).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return roomDomain.ErrNotFound
			}
			return fmt.Errorf("failed to lock room: %w", err)
		}

		var count int64
		if err := tx.Model(&BookingModel{}).
			Where("room_id = ? AND status IN ? AND check_in_date < ? AND check_out_date > ?",
				b.RoomID(), blockingStatusStrings(), model.CheckOutDate, model.CheckInDate).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to re-check overlap: %w", err)
		}
		if count > 0 {
			return bookingDomain.ErrDatesUnavailable
		}

		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookingDomain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByGuestID retrieves all bookings owned by the given guest, most recent
// check-in first.
func (r *GormBookingRepository) FindByGuestID(ctx context.Context, guestID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("guest_id = ?", guestID).
		Order("check_in_date DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find guest bookings: %w", err)
	}
	return toDomainBookings(models)
}

// Update persists a status mutation with an optimistic version check.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)

	expectedVersion := b.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return bookingDomain.ErrVersionConflict
	}
	return nil
}

// ExistsOverlapping reports whether any blocking booking on the room
// intersects the half-open range [checkIn, checkOut).
func (r *GormBookingRepository) ExistsOverlapping(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("room_id = ? AND status IN ? AND check_in_date < ? AND check_out_date > ?",
			roomID, blockingStatusStrings(),
			bookingDomain.TruncateToDate(checkOut), bookingDomain.TruncateToDate(checkIn)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check overlap: %w", err)
	}
	return count > 0, nil
}

// ExistsBlockingForRoom reports whether the room has any blocking booking at
// all, regardless of dates.
func (r *GormBookingRepository) ExistsBlockingForRoom(ctx context.Context, roomID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("room_id = ? AND status IN ?", roomID, blockingStatusStrings()).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check room bookings: %w", err)
	}
	return count > 0, nil
}

// Search retrieves bookings matching the AND-composed filter, most recent
// check-in first. The guest-name filter is a case-insensitive substring match
// on the guest's full name.
func (r *GormBookingRepository) Search(ctx context.Context, filter bookingDomain.SearchFilter) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&BookingModel{})

	if filter.Status != nil {
		q = q.Where("bookings.status = ?", string(*filter.Status))
	}
	if filter.CheckInFrom != nil {
		q = q.Where("bookings.check_in_date >= ?", bookingDomain.TruncateToDate(*filter.CheckInFrom))
	}
	if filter.CheckInTo != nil {
		q = q.Where("bookings.check_out_date <= ?", bookingDomain.TruncateToDate(*filter.CheckInTo))
	}
	if filter.GuestName != "" {
		q = q.Joins("JOIN guests ON guests.id = bookings.guest_id").
			Where("LOWER(guests.full_name) LIKE ?", "%"+strings.ToLower(filter.GuestName)+"%")
	}

	var models []BookingModel
	if err := q.Order("bookings.check_in_date DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search bookings: %w", err)
	}
	return toDomainBookings(models)
}

// ListAll retrieves all bookings with pagination, most recent check-in first.
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("check_in_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[bookingDomain.Status]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[bookingDomain.Status]int64)
	for _, sc := range results {
		counts[bookingDomain.Status(sc.Status)] = sc.Count
	}
	return counts, nil
}

// MonthlyRevenue aggregates revenue-recognized bookings by year and month of
// check-in date, most recent first.
func (r *GormBookingRepository) MonthlyRevenue(ctx context.Context) ([]bookingDomain.MonthlyRevenue, error) {
	type revenueRow struct {
		Year         int
		Month        int
		RevenueCents int64
		BookingCount int64
	}

	var rows []revenueRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			EXTRACT(YEAR FROM check_in_date)::int AS year,
			EXTRACT(MONTH FROM check_in_date)::int AS month,
			COALESCE(SUM(total_price_cents), 0) AS revenue_cents,
			COUNT(*) AS booking_count
		FROM bookings
		WHERE status IN ?
		GROUP BY 1, 2
		ORDER BY 1 DESC, 2 DESC`, revenueStatusStrings()).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly revenue: %w", err)
	}

	revenue := make([]bookingDomain.MonthlyRevenue, len(rows))
	for i, row := range rows {
		revenue[i] = bookingDomain.MonthlyRevenue{
			Year:         row.Year,
			Month:        row.Month,
			RevenueCents: row.RevenueCents,
			BookingCount: row.BookingCount,
		}
	}
	return revenue, nil
}

// FindByStatusAndCheckIn retrieves bookings with the exact status and check-in
// date. Used by the reminder scheduler.
func (r *GormBookingRepository) FindByStatusAndCheckIn(ctx context.Context, status bookingDomain.Status, checkIn time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND check_in_date = ?", string(status), bookingDomain.TruncateToDate(checkIn)).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by status and check-in: %w", err)
	}
	return toDomainBookings(models)
}

// --- Conversion helpers ---

func blockingStatusStrings() []string {
	statuses := make([]string, len(bookingDomain.BlockingStatuses))
	for i, s := range bookingDomain.BlockingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

func revenueStatusStrings() []string {
	statuses := make([]string, len(bookingDomain.RevenueStatuses))
	for i, s := range bookingDomain.RevenueStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:              b.ID(),
		GuestID:         b.GuestID(),
		RoomID:          b.RoomID(),
		CheckInDate:     b.CheckIn(),
		CheckOutDate:    b.CheckOut(),
		TotalPriceCents: b.TotalPriceCents(),
		Status:          string(b.Status()),
		SpecialRequests: b.SpecialRequests(),
		Version:         b.Version(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.GuestID,
		m.RoomID,
		bookingDomain.TruncateToDate(m.CheckInDate),
		bookingDomain.TruncateToDate(m.CheckOutDate),
		m.TotalPriceCents,
		status,
		m.SpecialRequests,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		b, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}
