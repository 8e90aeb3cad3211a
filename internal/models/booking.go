package models

import "time"

// BookingStatus enumerates the lifecycle of a seat reservation.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking reserves one seat for one user on one calendar date.
type Booking struct {
	ID           string        `db:"id" json:"id"`
	UserID       string        `db:"user_id" json:"userId"`
	SeatID       string        `db:"seat_id" json:"seatId"`
	BookingDate  time.Time     `db:"booking_date" json:"bookingDate"`
	WeekNumber   int           `db:"week_number" json:"weekNumber"`
	Status       BookingStatus `db:"status" json:"status"`
	IsAutoBooked bool          `db:"is_auto_booked" json:"isAutoBooked"`
	CheckInTime  *time.Time    `db:"check_in_time" json:"checkInTime,omitempty"`
	CheckOutTime *time.Time    `db:"check_out_time" json:"checkOutTime,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

// Attended reports whether the booking has both a check-in and a check-out.
func (b Booking) Attended() bool {
	return b.CheckInTime != nil && b.CheckOutTime != nil
}

// BookingFilter narrows booking listings.
type BookingFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Status BookingStatus
}
