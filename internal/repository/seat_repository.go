package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/seatbook-api/internal/models"
)

// SeatRepository reads the seat inventory.
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository constructs a SeatRepository.
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// ListActive returns bookable seats ordered by id ascending.
func (r *SeatRepository) ListActive(ctx context.Context) ([]models.Seat, error) {
	const query = `SELECT id, seat_number, description, is_active, created_at, updated_at FROM seats WHERE is_active = TRUE ORDER BY id ASC`
	var seats []models.Seat
	if err := r.db.SelectContext(ctx, &seats, query); err != nil {
		return nil, fmt.Errorf("list active seats: %w", err)
	}
	return seats, nil
}
