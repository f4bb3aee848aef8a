package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/harborview/service-reservation/internal/domain/booking"
	roomDomain "github.com/harborview/service-reservation/internal/domain/room"
	"github.com/harborview/service-reservation/internal/platform/auth"
)

// Notifier delivers best-effort notifications. Implementations must not block
// the booking lifecycle; failures are logged and swallowed.
type Notifier interface {
	NotifyHousekeeping(ctx context.Context, b *bookingDomain.Booking) error
	NotifyUpcomingStay(ctx context.Context, guestEmail string, b *bookingDomain.Booking) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	RoomID          uuid.UUID
	CheckIn         time.Time
	CheckOut        time.Time
	SpecialRequests string
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID `json:"id"`
	GuestID         uuid.UUID `json:"guest_id"`
	RoomID          uuid.UUID `json:"room_id"`
	CheckIn         string    `json:"check_in"`
	CheckOut        string    `json:"check_out"`
	Nights          int64     `json:"nights"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Status          string    `json:"status"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// BookingStatsDTO holds the dashboard booking counts, computed fresh on every
// call.
type BookingStatsDTO struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Confirmed  int64 `json:"confirmed"`
	CheckedIn  int64 `json:"checked_in"`
	CheckedOut int64 `json:"checked_out"`
	Cancelled  int64 `json:"cancelled"`
}

// RevenueStatsDTO is one monthly revenue row over revenue-recognized bookings.
type RevenueStatsDTO struct {
	Year         int   `json:"year"`
	Month        int   `json:"month"`
	RevenueCents int64 `json:"revenue_cents"`
	BookingCount int64 `json:"booking_count"`
}

// BookingService is the application service owning the booking lifecycle.
type BookingService struct {
	bookings bookingDomain.Repository
	rooms    roomDomain.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	rooms roomDomain.Repository,
	notifier Notifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		rooms:    rooms,
		notifier: notifier,
		logger:   logger,
	}
}

// canModifyBooking is the capability policy applied before mutating a booking
// on a guest's behalf: the owner or any staff member may act, nobody else.
func canModifyBooking(p auth.Principal, b *bookingDomain.Booking) bool {
	return p.IsStaff() || p.UserID == b.GuestID()
}

// CreateBooking creates a pending booking for the given guest. The room must
// exist and be available, the date range must be valid and in the future, and
// no blocking booking may overlap it. The overlap condition is re-verified
// atomically by the repository insert, so concurrent overlapping requests
// cannot both succeed.
func (s *BookingService) CreateBooking(ctx context.Context, guestID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	rm, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if rm.Status() != roomDomain.StatusAvailable {
		return nil, bookingDomain.ErrRoomNotAvailable
	}

	b, err := bookingDomain.NewBooking(
		guestID,
		rm.ID(),
		req.CheckIn,
		req.CheckOut,
		rm.PriceNightCents(),
		req.SpecialRequests,
	)
	if err != nil {
		return nil, err
	}

	overlap, err := s.bookings.ExistsOverlapping(ctx, rm.ID(), b.CheckIn(), b.CheckOut())
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if overlap {
		return nil, bookingDomain.ErrDatesUnavailable
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID().String()),
		zap.String("room_id", rm.ID().String()),
		zap.String("guest_id", guestID.String()),
		zap.Int64("total_price_cents", b.TotalPriceCents()),
	)

	result := toBookingDTO(b)
	return &result, nil
}

// ConfirmBooking transitions a pending booking to confirmed.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.applyTransition(ctx, bookingID, (*bookingDomain.Booking).Confirm)
}

// CheckIn marks the guest as arrived.
func (s *BookingService) CheckIn(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.applyTransition(ctx, bookingID, (*bookingDomain.Booking).CheckInGuest)
}

// CheckOut finishes the stay and asks housekeeping to prepare the vacated
// room. The notification is fire-and-forget: it is not awaited and its failure
// never rolls back the committed transition.
func (s *BookingService) CheckOut(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	dto, err := s.applyTransition(ctx, bookingID, (*bookingDomain.Booking).CheckOutGuest)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		s.logger.Error("failed to reload booking for housekeeping notification",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err),
		)
		return dto, nil
	}

	go func() {
		if err := s.notifier.NotifyHousekeeping(context.WithoutCancel(ctx), b); err != nil {
			s.logger.Error("failed to notify housekeeping",
				zap.String("booking_id", b.ID().String()),
				zap.Error(err),
			)
		}
	}()

	return dto, nil
}

// CancelBooking cancels a booking on behalf of the acting principal. Only the
// owning guest or a staff member may cancel; terminal bookings stay untouched.
func (s *BookingService) CancelBooking(ctx context.Context, actor auth.Principal, bookingID uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !canModifyBooking(actor, b) {
		return nil, bookingDomain.ErrUnauthorized
	}

	if err := b.Cancel(); err != nil {
		return nil, err
	}

	b.IncrementVersion()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", b.ID().String()),
		zap.String("cancelled_by", actor.UserID.String()),
	)

	result := toBookingDTO(b)
	return &result, nil
}

// GetBooking retrieves a single booking visible to the acting principal.
func (s *BookingService) GetBooking(ctx context.Context, actor auth.Principal, bookingID uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !canModifyBooking(actor, b) {
		return nil, bookingDomain.ErrUnauthorized
	}
	result := toBookingDTO(b)
	return &result, nil
}

// GetGuestBookings retrieves all bookings owned by the given guest.
func (s *BookingService) GetGuestBookings(ctx context.Context, guestID uuid.UUID) ([]BookingDTO, error) {
	bookings, err := s.bookings.FindByGuestID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// SearchBookings retrieves bookings matching the optional filters, most recent
// check-in first.
func (s *BookingService) SearchBookings(ctx context.Context, filter bookingDomain.SearchFilter) ([]BookingDTO, error) {
	bookings, err := s.bookings.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// ListAllBookings returns a paginated list of all bookings.
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking counts, recomputed on demand.
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	stats := &BookingStatsDTO{
		Pending:    counts[bookingDomain.StatusPending],
		Confirmed:  counts[bookingDomain.StatusConfirmed],
		CheckedIn:  counts[bookingDomain.StatusCheckedIn],
		CheckedOut: counts[bookingDomain.StatusCheckedOut],
		Cancelled:  counts[bookingDomain.StatusCancelled],
	}
	for _, c := range counts {
		stats.Total += c
	}
	return stats, nil
}

// GetMonthlyRevenue returns revenue grouped by year and month of check-in
// date, most recent first. Only confirmed, checked-in and checked-out bookings
// count.
func (s *BookingService) GetMonthlyRevenue(ctx context.Context) ([]RevenueStatsDTO, error) {
	rows, err := s.bookings.MonthlyRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly revenue: %w", err)
	}

	stats := make([]RevenueStatsDTO, len(rows))
	for i, row := range rows {
		stats[i] = RevenueStatsDTO{
			Year:         row.Year,
			Month:        row.Month,
			RevenueCents: row.RevenueCents,
			BookingCount: row.BookingCount,
		}
	}
	return stats, nil
}

// applyTransition loads the booking, applies the domain transition and
// persists it with an optimistic version check. A rejected transition leaves
// the stored booking unmodified.
func (s *BookingService) applyTransition(
	ctx context.Context,
	bookingID uuid.UUID,
	transition func(*bookingDomain.Booking) error,
) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := transition(b); err != nil {
		return nil, err
	}

	b.IncrementVersion()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking status changed",
		zap.String("booking_id", b.ID().String()),
		zap.String("status", b.Status().String()),
	)

	result := toBookingDTO(b)
	return &result, nil
}

// --- Helpers ---

func toBookingDTO(b *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              b.ID(),
		GuestID:         b.GuestID(),
		RoomID:          b.RoomID(),
		CheckIn:         b.CheckIn().Format(time.DateOnly),
		CheckOut:        b.CheckOut().Format(time.DateOnly),
		Nights:          b.Nights(),
		TotalPriceCents: b.TotalPriceCents(),
		Status:          b.Status().String(),
		SpecialRequests: b.SpecialRequests(),
		CreatedAt:       b.CreatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = toBookingDTO(b)
	}
	return dtos
}
