package application

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/harborview/service-reservation/internal/domain/booking"
	roomDomain "github.com/harborview/service-reservation/internal/domain/room"
	"github.com/harborview/service-reservation/internal/platform/cache"
)

// memBookingRepo is a mutex-guarded in-memory booking repository. Create holds
// the lock across the overlap check and the insert, mirroring the transactional
// guarantee of the real repository. guestNames stands in for the guests table
// that the real Search joins against.
type memBookingRepo struct {
	mu         sync.Mutex
	bookings   map[uuid.UUID]*bookingDomain.Booking
	guestNames map[uuid.UUID]string
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{
		bookings:   make(map[uuid.UUID]*bookingDomain.Booking),
		guestNames: make(map[uuid.UUID]string),
	}
}

func (r *memBookingRepo) setGuestName(guestID uuid.UUID, fullName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guestNames[guestID] = fullName
}

func (r *memBookingRepo) overlapsLocked(roomID uuid.UUID, checkIn, checkOut time.Time) bool {
	for _, b := range r.bookings {
		if b.RoomID() == roomID && b.Status().IsBlocking() &&
			b.CheckIn().Before(checkOut) && b.CheckOut().After(checkIn) {
			return true
		}
	}
	return false
}

func (r *memBookingRepo) Create(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.overlapsLocked(b.RoomID(), b.CheckIn(), b.CheckOut()) {
		return bookingDomain.ErrDatesUnavailable
	}
	r.bookings[b.ID()] = snapshot(b)
	return nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingDomain.ErrNotFound
	}
	return snapshot(b), nil
}

func (r *memBookingRepo) FindByGuestID(_ context.Context, guestID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.GuestID() == guestID {
			result = append(result, snapshot(b))
		}
	}
	sortByCheckInDesc(result)
	return result, nil
}

func (r *memBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[b.ID()]
	if !ok || stored.Version() != b.Version()-1 {
		return bookingDomain.ErrVersionConflict
	}
	r.bookings[b.ID()] = snapshot(b)
	return nil
}

func (r *memBookingRepo) ExistsOverlapping(_ context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlapsLocked(roomID, checkIn, checkOut), nil
}

func (r *memBookingRepo) ExistsBlockingForRoom(_ context.Context, roomID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.RoomID() == roomID && b.Status().IsBlocking() {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) Search(_ context.Context, filter bookingDomain.SearchFilter) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*bookingDomain.Booking
	for _, b := range r.bookings {
		if filter.Status != nil && b.Status() != *filter.Status {
			continue
		}
		if filter.CheckInFrom != nil && b.CheckIn().Before(bookingDomain.TruncateToDate(*filter.CheckInFrom)) {
			continue
		}
		if filter.CheckInTo != nil && b.CheckOut().After(bookingDomain.TruncateToDate(*filter.CheckInTo)) {
			continue
		}
		if filter.GuestName != "" {
			name := r.guestNames[b.GuestID()]
			if !strings.Contains(strings.ToLower(name), strings.ToLower(filter.GuestName)) {
				continue
			}
		}
		result = append(result, snapshot(b))
	}
	sortByCheckInDesc(result)
	return result, nil
}

func (r *memBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		all = append(all, snapshot(b))
	}
	sortByCheckInDesc(all)

	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memBookingRepo) CountByStatus(_ context.Context) (map[bookingDomain.Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[bookingDomain.Status]int64)
	for _, b := range r.bookings {
		counts[b.Status()]++
	}
	return counts, nil
}

func (r *memBookingRepo) MonthlyRevenue(_ context.Context) ([]bookingDomain.MonthlyRevenue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	type key struct{ year, month int }
	agg := make(map[key]*bookingDomain.MonthlyRevenue)
	for _, b := range r.bookings {
		recognized := false
		for _, s := range bookingDomain.RevenueStatuses {
			if b.Status() == s {
				recognized = true
				break
			}
		}
		if !recognized {
			continue
		}

		k := key{b.CheckIn().Year(), int(b.CheckIn().Month())}
		row, ok := agg[k]
		if !ok {
			row = &bookingDomain.MonthlyRevenue{Year: k.year, Month: k.month}
			agg[k] = row
		}
		row.RevenueCents += b.TotalPriceCents()
		row.BookingCount++
	}

	result := make([]bookingDomain.MonthlyRevenue, 0, len(agg))
	for _, row := range agg {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year > result[j].Year
		}
		return result[i].Month > result[j].Month
	})
	return result, nil
}

func (r *memBookingRepo) FindByStatusAndCheckIn(_ context.Context, status bookingDomain.Status, checkIn time.Time) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := bookingDomain.TruncateToDate(checkIn)
	var result []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.Status() == status && b.CheckIn().Equal(day) {
			result = append(result, snapshot(b))
		}
	}
	return result, nil
}

func snapshot(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		b.ID(), b.GuestID(), b.RoomID(),
		b.CheckIn(), b.CheckOut(),
		b.TotalPriceCents(), b.Status(), b.SpecialRequests(),
		b.Version(), b.CreatedAt(), b.UpdatedAt(),
	)
}

func sortByCheckInDesc(bookings []*bookingDomain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CheckIn().After(bookings[j].CheckIn())
	})
}

// memRoomRepo is an in-memory room repository.
type memRoomRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*roomDomain.Room
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{rooms: make(map[uuid.UUID]*roomDomain.Room)}
}

func (r *memRoomRepo) put(rm *roomDomain.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[rm.ID()] = rm
}

func (r *memRoomRepo) FindByID(_ context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[id]
	if !ok {
		return nil, roomDomain.ErrNotFound
	}
	return rm, nil
}

func (r *memRoomRepo) ListByStatus(_ context.Context, status roomDomain.Status) ([]*roomDomain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*roomDomain.Room
	for _, rm := range r.rooms {
		if rm.Status() == status {
			result = append(result, rm)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number() < result[j].Number() })
	return result, nil
}

func (r *memRoomRepo) Search(_ context.Context, filter roomDomain.SearchFilter) ([]*roomDomain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*roomDomain.Room
	for _, rm := range r.rooms {
		if filter.Status != nil && rm.Status() != *filter.Status {
			continue
		}
		if filter.Type != nil && rm.RoomType() != *filter.Type {
			continue
		}
		if filter.MaxPriceCents != nil && rm.PriceNightCents() > *filter.MaxPriceCents {
			continue
		}
		if filter.MinCapacity != nil && rm.Capacity() < *filter.MinCapacity {
			continue
		}
		result = append(result, rm)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number() < result[j].Number() })
	return result, nil
}

func (r *memRoomRepo) Save(_ context.Context, rm *roomDomain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.rooms {
		if id != rm.ID() && existing.Number() == rm.Number() {
			return roomDomain.ErrNumberInUse
		}
	}
	r.rooms[rm.ID()] = rm
	return nil
}

func (r *memRoomRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return roomDomain.ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}

// fakeNotifier records notification requests and can be told to fail.
type fakeNotifier struct {
	mu           sync.Mutex
	housekeeping []uuid.UUID
	reminders    []uuid.UUID
	err          error
}

func (n *fakeNotifier) NotifyHousekeeping(_ context.Context, b *bookingDomain.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.housekeeping = append(n.housekeeping, b.ID())
	return nil
}

func (n *fakeNotifier) NotifyUpcomingStay(_ context.Context, _ string, b *bookingDomain.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.reminders = append(n.reminders, b.ID())
	return nil
}

func (n *fakeNotifier) housekeepingCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.housekeeping)
}

// memCache is an in-memory stand-in for the Redis listing cache.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	hits    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrMiss
	}
	c.hits++
	return json.Unmarshal(data, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
