package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"restaurant_pos_backend/internal/database"
	"restaurant_pos_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Restaurant Table Handlers

// CreateRestaurantTable handles creation of a new dining table
func CreateRestaurantTable(c *gin.Context) {
	var table models.RestaurantTable
	if err := c.ShouldBindJSON(&table); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	query := `INSERT INTO restaurant_tables (table_number, capacity, location, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at, updated_at`

	table.CreatedAt = time.Now()
	table.UpdatedAt = time.Now()
	if table.Status == "" {
		table.Status = models.TableStatusAvailable
	}

	err := db.QueryRow(query,
		table.TableNumber, table.Capacity, table.Location, table.Status,
		table.CreatedAt, table.UpdatedAt,
	).Scan(&table.ID, &table.CreatedAt, &table.UpdatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restaurant table: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, table)
}

// GetRestaurantTables handles fetching all dining tables
func GetRestaurantTables(c *gin.Context) {
	db := database.GetDB()
	statusFilter := c.Query("status")

	queryStr := "SELECT id, table_number, capacity, location, status, created_at, updated_at FROM restaurant_tables"
	var args []interface{}
	if statusFilter != "" {
		queryStr += " WHERE status = $1"
		args = append(args, statusFilter)
	}
	queryStr += " ORDER BY table_number"

	rows, err := db.Query(queryStr, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch restaurant tables: " + err.Error()})
		return
	}
	defer rows.Close()

	tables := []models.RestaurantTable{}
	for rows.Next() {
		var tbl models.RestaurantTable
		if err := rows.Scan(
			&tbl.ID, &tbl.TableNumber, &tbl.Capacity, &tbl.Location, &tbl.Status,
			&tbl.CreatedAt, &tbl.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan restaurant table: " + err.Error()})
			return
		}
		tables = append(tables, tbl)
	}
	c.JSON(http.StatusOK, tables)
}

// GetRestaurantTableByNumber handles fetching a single table by its number
func GetRestaurantTableByNumber(c *gin.Context) {
	tableNumber := c.Param("tableNumber")

	db := database.GetDB()
	var tbl models.RestaurantTable
	query := "SELECT id, table_number, capacity, location, status, created_at, updated_at FROM restaurant_tables WHERE table_number = $1"
	err := db.QueryRow(query, tableNumber).Scan(
		&tbl.ID, &tbl.TableNumber, &tbl.Capacity, &tbl.Location, &tbl.Status,
		&tbl.CreatedAt, &tbl.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant table not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch restaurant table: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, tbl)
}

// UpdateRestaurantTableStatus handles manual occupancy overrides
func UpdateRestaurantTableStatus(c *gin.Context) {
	tableNumber := c.Param("tableNumber")

	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	if !models.IsValidTableStatus(payload.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid table status: " + payload.Status})
		return
	}

	db := database.GetDB()
	query := "UPDATE restaurant_tables SET status = $1, updated_at = NOW() WHERE table_number = $2"
	result, err := db.Exec(query, payload.Status, tableNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update table status: " + err.Error()})
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant table not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table status updated", "table_number": tableNumber, "status": payload.Status})
}
