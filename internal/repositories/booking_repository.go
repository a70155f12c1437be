package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"restaurant_pos_backend/internal/models"
)

// BookingRepository exposes the booking lookup the batch linkage pass needs.
// Bookings are owned by the lodging side; the order core only reads them.
type BookingRepository interface {
	FindActiveByTableNumber(tableNumber string) (*models.Booking, error)
}

type bookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// FindActiveByTableNumber matches the table number against the booking's
// room_number field, which may hold a comma-separated list of numbers.
func (r *bookingRepository) FindActiveByTableNumber(tableNumber string) (*models.Booking, error) {
	pattern := fmt.Sprintf(`(^|,)\s*%s\s*(,|$)`, regexp.QuoteMeta(tableNumber))

	var b models.Booking
	query := `SELECT id, grc_no, room_number, guest_name, mobile_no, status, is_active
	          FROM bookings
	          WHERE room_number ~ $1
	            AND status IN ('Booked', 'Checked In')
	            AND is_active = TRUE
	          LIMIT 1`
	err := r.db.QueryRow(query, pattern).Scan(
		&b.ID, &b.GRCNo, &b.RoomNumber, &b.GuestName, &b.MobileNo, &b.Status, &b.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding booking for table %s: %v", ErrDatabaseError, tableNumber, err)
	}
	return &b, nil
}
