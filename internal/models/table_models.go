package models

import "time"

// TableStatus values for a physical table resource.
const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
)

// IsValidTableStatus checks if the provided status string is a valid table status.
func IsValidTableStatus(status string) bool {
	switch status {
	case TableStatusAvailable, TableStatusOccupied:
		return true
	default:
		return false
	}
}

// RestaurantTable represents a physical dining table. TableNumber is the
// human-readable identifier clients reference; it is the single source of
// truth for occupancy updates because legacy order fields may reference the
// same table inconsistently by id.
type RestaurantTable struct {
	ID          int64     `json:"id" db:"id"`
	TableNumber string    `json:"table_number" db:"table_number" binding:"required"`
	Capacity    *int      `json:"capacity,omitempty" db:"capacity"`
	Location    *string   `json:"location,omitempty" db:"location"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Booking is the subset of a lodging booking the order core links against.
// RoomNumber may hold a comma-separated list of room/table numbers.
type Booking struct {
	ID         int64   `json:"id" db:"id"`
	GRCNo      *string `json:"grc_no,omitempty" db:"grc_no"`
	RoomNumber string  `json:"room_number" db:"room_number"`
	GuestName  *string `json:"guest_name,omitempty" db:"guest_name"`
	MobileNo   *string `json:"mobile_no,omitempty" db:"mobile_no"`
	Status     string  `json:"status" db:"status"`
	IsActive   bool    `json:"is_active" db:"is_active"`
}
