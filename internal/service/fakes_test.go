package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/seatbook-api/internal/models"
	appErrors "github.com/noah-isme/seatbook-api/pkg/errors"
	"github.com/noah-isme/seatbook-api/pkg/workweek"
)

func day(s string) time.Time {
	t, err := workweek.Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func employee(id string, required int, days ...time.Weekday) models.User {
	return models.User{
		ID:                  id,
		Username:            "user-" + id,
		FullName:            "User " + id,
		Role:                models.RoleEmployee,
		IsActive:            true,
		DefaultWorkDays:     models.WorkDays(days),
		RequiredDaysPerWeek: required,
	}
}

func seatsN(n int) []models.Seat {
	seats := make([]models.Seat, n)
	for i := range seats {
		id := string(rune('a'+i)) + "-seat"
		seats[i] = models.Seat{ID: id, SeatNumber: id, IsActive: true}
	}
	return seats
}

type fakeUserRepo struct {
	users    []models.User
	err      error
	listCall int
	idsCall  [][]string
}

func (f *fakeUserRepo) ListForAutoBooking(ctx context.Context) ([]models.User, error) {
	f.listCall++
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.User(nil), f.users...), nil
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	f.idsCall = append(f.idsCall, ids)
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []models.User
	for _, u := range f.users {
		if wanted[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

type fakeSeatRepo struct {
	seats []models.Seat
	err   error
}

func (f *fakeSeatRepo) ListActive(ctx context.Context) ([]models.Seat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Seat(nil), f.seats...), nil
}

// fakeBookingStore enforces the confirmed (seat, date) and (user, date) uniqueness the database
// indexes provide.
type fakeBookingStore struct {
	mu           sync.Mutex
	bookings     []models.Booking
	listErr      error
	createErr    func(b *models.Booking) error
	beforeCreate func(b *models.Booking)
	creates      int
}

func (f *fakeBookingStore) ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status == models.BookingStatusConfirmed && !b.BookingDate.Before(from) && !b.BookingDate.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) ListConfirmedByDate(ctx context.Context, date time.Time) ([]models.Booking, error) {
	return f.ListConfirmedBetween(ctx, date, date)
}

func (f *fakeBookingStore) ListByUser(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.From != nil && b.BookingDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && b.BookingDate.After(*filter.To) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func (f *fakeBookingStore) CreateConfirmed(ctx context.Context, booking *models.Booking) error {
	if f.beforeCreate != nil {
		f.beforeCreate(booking)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		if err := f.createErr(booking); err != nil {
			return err
		}
	}
	for _, b := range f.bookings {
		if b.Status != models.BookingStatusConfirmed || !b.BookingDate.Equal(booking.BookingDate) {
			continue
		}
		if b.SeatID == booking.SeatID {
			return appErrors.Clone(appErrors.ErrSeatTaken, "")
		}
		if b.UserID == booking.UserID {
			return appErrors.Clone(appErrors.ErrUserAlreadyBooked, "")
		}
	}
	booking.ID = uuid.NewString()
	booking.Status = models.BookingStatusConfirmed
	booking.WeekNumber = workweek.ISOWeek(booking.BookingDate)
	f.bookings = append(f.bookings, *booking)
	return nil
}

// insert adds a confirmed booking directly, bypassing CreateConfirmed hooks.
func (f *fakeBookingStore) insert(userID, seatID string, date time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, models.Booking{
		ID:          uuid.NewString(),
		UserID:      userID,
		SeatID:      seatID,
		BookingDate: date,
		Status:      models.BookingStatusConfirmed,
	})
}

func (f *fakeBookingStore) snapshot() []models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Booking(nil), f.bookings...)
}

type fakeAuditRepo struct {
	mu   sync.Mutex
	logs []models.AuditLog
	err  error
}

func (f *fakeAuditRepo) Create(ctx context.Context, log *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.logs = append(f.logs, *log)
	return nil
}

type memoryCacheRepo struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes []string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, pattern)
	m.entries = make(map[string][]byte)
	return nil
}
