package services

import (
	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/pkg/utils"
)

// TableService toggles table occupancy from order lifecycle events. Tables
// are resolved by human-readable table number only, because legacy order
// fields reference the same table inconsistently by id. A missing table
// record is a logged no-op, never a failure of the owning order operation.
type TableService interface {
	Occupy(tableNumber string)
	Release(tableNumber string, status string)
}

type tableService struct {
	tableRepo repositories.TableRepository
	db        repositories.SQLExecutor
}

// NewTableService creates a new instance of TableService.
func NewTableService(tableRepo repositories.TableRepository, db repositories.SQLExecutor) TableService {
	return &tableService{tableRepo: tableRepo, db: db}
}

func (s *tableService) Occupy(tableNumber string) {
	if tableNumber == "" {
		return
	}
	s.setStatus(tableNumber, models.TableStatusOccupied)
}

// Release moves a table to the caller-specified status, defaulting to
// available when the status is empty or not a valid table status.
func (s *tableService) Release(tableNumber string, status string) {
	if tableNumber == "" {
		return
	}
	if !models.IsValidTableStatus(status) {
		status = models.TableStatusAvailable
	}
	s.setStatus(tableNumber, status)
}

func (s *tableService) setStatus(tableNumber, status string) {
	rows, err := s.tableRepo.UpdateStatusByNumber(s.db, tableNumber, status)
	if err != nil {
		utils.LogWarn("Table status update failed", map[string]interface{}{
			"table_number": tableNumber, "status": status, "error": err.Error(),
		})
		return
	}
	if rows == 0 {
		utils.LogWarn("Table not found for status update", map[string]interface{}{
			"table_number": tableNumber, "status": status,
		})
	}
}
