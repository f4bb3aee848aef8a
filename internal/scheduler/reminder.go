package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/harborview/service-reservation/internal/domain/booking"
	guestDomain "github.com/harborview/service-reservation/internal/domain/guest"
)

type upcomingStayFinder interface {
	FindByStatusAndCheckIn(ctx context.Context, status bookingDomain.Status, checkIn time.Time) ([]*bookingDomain.Booking, error)
}

type guestDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*guestDomain.Guest, error)
}

type stayNotifier interface {
	NotifyUpcomingStay(ctx context.Context, guestEmail string, b *bookingDomain.Booking) error
}

// ReminderLog records which bookings already received a reminder, so repeated
// ticks within the same day stay idempotent.
type ReminderLog interface {
	AlreadySent(ctx context.Context, bookingID uuid.UUID) (bool, error)
	MarkSent(ctx context.Context, bookingID uuid.UUID) error
}

// ReminderScheduler periodically finds confirmed bookings checking in tomorrow
// and requests a reminder notification for each guest.
type ReminderScheduler struct {
	interval time.Duration
	bookings upcomingStayFinder
	guests   guestDirectory
	log      ReminderLog
	notifier stayNotifier
	logger   *zap.Logger
}

// NewReminderScheduler creates a scheduler running at the given interval.
func NewReminderScheduler(
	interval time.Duration,
	bookings upcomingStayFinder,
	guests guestDirectory,
	log ReminderLog,
	notifier stayNotifier,
	logger *zap.Logger,
) *ReminderScheduler {
	return &ReminderScheduler{
		interval: interval,
		bookings: bookings,
		guests:   guests,
		log:      log,
		notifier: notifier,
		logger:   logger,
	}
}

// Start runs the scheduler loop until the context is cancelled. One pass runs
// immediately on startup.
func (s *ReminderScheduler) Start(ctx context.Context) {
	s.logger.Info("reminder scheduler started", zap.Duration("interval", s.interval))

	s.RunOnce(ctx, time.Now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		case now := <-ticker.C:
			s.RunOnce(ctx, now)
		}
	}
}

// RunOnce executes a single reminder pass for stays checking in the day after
// now. A failure on one booking does not stop the others.
func (s *ReminderScheduler) RunOnce(ctx context.Context, now time.Time) {
	tomorrow := bookingDomain.TruncateToDate(now).AddDate(0, 0, 1)

	stays, err := s.bookings.FindByStatusAndCheckIn(ctx, bookingDomain.StatusConfirmed, tomorrow)
	if err != nil {
		s.logger.Error("failed to load tomorrow's confirmed stays", zap.Error(err))
		return
	}
	if len(stays) == 0 {
		return
	}

	sent := 0
	for _, b := range stays {
		if s.remind(ctx, b) {
			sent++
		}
	}

	s.logger.Info("reminder pass finished",
		zap.String("check_in", tomorrow.Format(time.DateOnly)),
		zap.Int("candidates", len(stays)),
		zap.Int("sent", sent),
	)
}

func (s *ReminderScheduler) remind(ctx context.Context, b *bookingDomain.Booking) bool {
	done, err := s.log.AlreadySent(ctx, b.ID())
	if err != nil {
		s.logger.Error("failed to check reminder log",
			zap.String("booking_id", b.ID().String()),
			zap.Error(err),
		)
		return false
	}
	if done {
		return false
	}

	g, err := s.guests.FindByID(ctx, b.GuestID())
	if err != nil {
		s.logger.Error("failed to load guest for reminder",
			zap.String("booking_id", b.ID().String()),
			zap.Error(err),
		)
		return false
	}

	if err := s.notifier.NotifyUpcomingStay(ctx, g.Email, b); err != nil {
		s.logger.Error("failed to request stay reminder",
			zap.String("booking_id", b.ID().String()),
			zap.Error(err),
		)
		return false
	}

	if err := s.log.MarkSent(ctx, b.ID()); err != nil {
		s.logger.Error("failed to record sent reminder",
			zap.String("booking_id", b.ID().String()),
			zap.Error(err),
		)
	}
	return true
}
