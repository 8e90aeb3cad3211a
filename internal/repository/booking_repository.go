package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/seatbook-api/internal/models"
	appErrors "github.com/noah-isme/seatbook-api/pkg/errors"
	"github.com/noah-isme/seatbook-api/pkg/workweek"
)

const (
	bookingColumns = `id, user_id, seat_id, booking_date, week_number, status, is_auto_booked, check_in_time, check_out_time, created_at, updated_at`

	uniqueViolation    = "23505"
	seatDateConstraint = "bookings_seat_date_confirmed_key"
	userDateConstraint = "bookings_user_date_confirmed_key"
)

// BookingRepository persists seat reservations. Seat and user exclusivity per date are enforced by
// partial unique indexes on confirmed rows.
type BookingRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db, now: time.Now}
}

// ListConfirmedBetween returns confirmed bookings with from <= booking_date <= to.
func (r *BookingRepository) ListConfirmedBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = 'confirmed' AND booking_date BETWEEN $1 AND $2 ORDER BY booking_date ASC, seat_id ASC`
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, workweek.Date(from), workweek.Date(to)); err != nil {
		return nil, fmt.Errorf("list confirmed bookings: %w", err)
	}
	return bookings, nil
}

// ListConfirmedByDate returns confirmed bookings on a single date.
func (r *BookingRepository) ListConfirmedByDate(ctx context.Context, date time.Time) ([]models.Booking, error) {
	return r.ListConfirmedBetween(ctx, date, date)
}

// ListByUser returns a user's bookings matching the filter, newest date first.
func (r *BookingRepository) ListByUser(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{filter.UserID}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("booking_date >= $%d", len(args)+1))
		args = append(args, workweek.Date(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("booking_date <= $%d", len(args)+1))
		args = append(args, workweek.Date(*filter.To))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY booking_date DESC`
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("list bookings by user: %w", err)
	}
	return bookings, nil
}

// CreateConfirmed inserts a confirmed booking. A unique violation is reported as ErrSeatTaken or
// ErrUserAlreadyBooked so callers can treat it as a per-date conflict.
func (r *BookingRepository) CreateConfirmed(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := r.now().UTC()
	booking.BookingDate = workweek.Date(booking.BookingDate)
	booking.WeekNumber = workweek.ISOWeek(booking.BookingDate)
	booking.Status = models.BookingStatusConfirmed
	booking.CreatedAt = now
	booking.UpdatedAt = now

	const query = `INSERT INTO bookings (id, user_id, seat_id, booking_date, week_number, status, is_auto_booked, created_at, updated_at)
VALUES (:id, :user_id, :seat_id, :booking_date, :week_number, :status, :is_auto_booked, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return mapBookingError(err)
	}
	return nil
}

func mapBookingError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		switch pqErr.Constraint {
		case seatDateConstraint:
			return appErrors.Wrap(err, appErrors.ErrSeatTaken.Code, appErrors.ErrSeatTaken.Status, appErrors.ErrSeatTaken.Message)
		case userDateConstraint:
			return appErrors.Wrap(err, appErrors.ErrUserAlreadyBooked.Code, appErrors.ErrUserAlreadyBooked.Status, appErrors.ErrUserAlreadyBooked.Message)
		default:
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "booking already exists")
		}
	}
	return fmt.Errorf("create booking: %w", err)
}
