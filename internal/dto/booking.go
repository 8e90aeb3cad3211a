package dto

import "github.com/noah-isme/seatbook-api/internal/models"

// AvailableSeatsResponse partitions active seats for a date.
type AvailableSeatsResponse struct {
	Date           string        `json:"date"`
	AvailableSeats []models.Seat `json:"availableSeats"`
	BookedSeats    []BookedSeat  `json:"bookedSeats"`
	TotalSeats     int           `json:"totalSeats"`
	BookedCount    int           `json:"bookedCount"`
	AvailableCount int           `json:"availableCount"`
}

// BookedSeat is a seat together with the user holding it.
type BookedSeat struct {
	models.Seat
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
}

// ComplianceStatus is the traffic-light outcome of a weekly attendance check.
type ComplianceStatus string

const (
	ComplianceGreen ComplianceStatus = "green"
	ComplianceRed   ComplianceStatus = "red"
)

// WeeklyStatusResponse reports a user's office attendance against their requirement.
type WeeklyStatusResponse struct {
	UserID              string           `json:"userId"`
	WeekStartDate       string           `json:"weekStartDate"`
	WeekNumber          int              `json:"weekNumber"`
	Year                int              `json:"year"`
	RequiredDaysPerWeek int              `json:"requiredDaysPerWeek"`
	BookedDays          int              `json:"bookedDays"`
	AttendedDays        int              `json:"attendedDays"`
	Status              ComplianceStatus `json:"status"`
	Bookings            []models.Booking `json:"bookings"`
}
