package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restaurant_pos_backend/internal/models"
)

// TableRepository defines the interface for table resource operations.
// Occupancy mutations are targeted conditional updates by table number, never
// a read-modify-write held across an order operation.
type TableRepository interface {
	GetTableByNumber(tableNumber string) (*models.RestaurantTable, error)
	UpdateStatusByNumber(executor SQLExecutor, tableNumber string, status string) (int64, error)
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) GetTableByNumber(tableNumber string) (*models.RestaurantTable, error) {
	var t models.RestaurantTable
	query := `SELECT id, table_number, capacity, location, status, created_at, updated_at
	          FROM restaurant_tables WHERE table_number = $1`
	err := r.db.QueryRow(query, tableNumber).Scan(
		&t.ID, &t.TableNumber, &t.Capacity, &t.Location, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table %s: %v", ErrDatabaseError, tableNumber, err)
	}
	return &t, nil
}

// UpdateStatusByNumber returns the number of rows touched; zero means no table
// record carries that number. Callers decide whether that is an error.
func (r *tableRepository) UpdateStatusByNumber(executor SQLExecutor, tableNumber string, status string) (int64, error) {
	query := `UPDATE restaurant_tables SET status = $1, updated_at = $2 WHERE table_number = $3`
	result, err := executor.Exec(query, status, time.Now(), tableNumber)
	if err != nil {
		return 0, fmt.Errorf("%w: updating status for table %s: %v", ErrDatabaseError, tableNumber, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for table %s: %v", ErrDatabaseError, tableNumber, err)
	}
	return rowsAffected, nil
}
