package service

import (
	"context"
	"time"

	"github.com/noah-isme/seatbook-api/internal/dto"
	"github.com/noah-isme/seatbook-api/internal/models"
	appErrors "github.com/noah-isme/seatbook-api/pkg/errors"
	"github.com/noah-isme/seatbook-api/pkg/workweek"
)

type bookingQueryRepository interface {
	ListConfirmedByDate(ctx context.Context, date time.Time) ([]models.Booking, error)
	ListByUser(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// BookingService answers employee-facing booking queries.
type BookingService struct {
	bookings bookingQueryRepository
	seats    activeSeatLister
	users    userLookup
	now      func() time.Time
}

// NewBookingService constructs a BookingService.
func NewBookingService(bookings bookingQueryRepository, seats activeSeatLister, users userLookup) *BookingService {
	return &BookingService{bookings: bookings, seats: seats, users: users, now: time.Now}
}

// AvailableSeats partitions active seats into free and booked for a date.
func (s *BookingService) AvailableSeats(ctx context.Context, rawDate string) (*dto.AvailableSeatsResponse, error) {
	date, err := workweek.Parse(rawDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	seats, err := s.seats.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load seats")
	}
	bookings, err := s.bookings.ListConfirmedByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}

	bySeat := make(map[string]models.Booking, len(bookings))
	for _, b := range bookings {
		bySeat[b.SeatID] = b
	}

	resp := &dto.AvailableSeatsResponse{
		Date:           workweek.Format(date),
		AvailableSeats: []models.Seat{},
		BookedSeats:    []dto.BookedSeat{},
		TotalSeats:     len(seats),
	}
	for _, seat := range seats {
		if b, taken := bySeat[seat.ID]; taken {
			resp.BookedSeats = append(resp.BookedSeats, dto.BookedSeat{Seat: seat, BookingID: b.ID, UserID: b.UserID})
			continue
		}
		resp.AvailableSeats = append(resp.AvailableSeats, seat)
	}
	resp.BookedCount = len(resp.BookedSeats)
	resp.AvailableCount = len(resp.AvailableSeats)
	return resp, nil
}

// WeeklyStatus grades a user's attendance for the week containing rawWeekStart. An empty value
// means the current week. Only bookings with both check-in and check-out count as attended.
func (s *BookingService) WeeklyStatus(ctx context.Context, userID, rawWeekStart string) (*dto.WeeklyStatusResponse, error) {
	monday := workweek.StartOf(s.now())
	if rawWeekStart != "" {
		parsed, err := workweek.Parse(rawWeekStart)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		monday = workweek.StartOf(parsed)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	friday := monday.AddDate(0, 0, 4)
	bookings, err := s.bookings.ListByUser(ctx, models.BookingFilter{
		UserID: userID,
		Status: models.BookingStatusConfirmed,
		From:   &monday,
		To:     &friday,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}

	attended := 0
	for _, b := range bookings {
		if b.Attended() {
			attended++
		}
	}

	status := dto.ComplianceRed
	if attended >= user.RequiredDaysPerWeek {
		status = dto.ComplianceGreen
	}

	year, week := monday.ISOWeek()
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return &dto.WeeklyStatusResponse{
		UserID:              userID,
		WeekStartDate:       workweek.Format(monday),
		WeekNumber:          week,
		Year:                year,
		RequiredDaysPerWeek: user.RequiredDaysPerWeek,
		BookedDays:          len(bookings),
		AttendedDays:        attended,
		Status:              status,
		Bookings:            bookings,
	}, nil
}

// MyBookings lists a user's confirmed bookings between the optional from and to dates.
func (s *BookingService) MyBookings(ctx context.Context, userID, rawFrom, rawTo string) ([]models.Booking, error) {
	filter := models.BookingFilter{UserID: userID, Status: models.BookingStatusConfirmed}
	if rawFrom != "" {
		from, err := workweek.Parse(rawFrom)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		filter.From = &from
	}
	if rawTo != "" {
		to, err := workweek.Parse(rawTo)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}

	bookings, err := s.bookings.ListByUser(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}
