package models

import "time"

// Seat is a bookable desk.
type Seat struct {
	ID          string    `db:"id" json:"id"`
	SeatNumber  string    `db:"seat_number" json:"seatNumber"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
