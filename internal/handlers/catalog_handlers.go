package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"restaurant_pos_backend/internal/database"
	"restaurant_pos_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Menu Item Handlers

// CreateMenuItem handles creation of a new menu item
func CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	query := `INSERT INTO menu_items (name, price, category, time_to_prepare, is_available, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`

	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	if item.TimeToPrepare == 0 {
		item.TimeToPrepare = 15
	}

	err := db.QueryRow(query,
		item.Name, item.Price, item.Category, item.TimeToPrepare, item.IsAvailable,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetMenuItems handles fetching all menu items
func GetMenuItems(c *gin.Context) {
	db := database.GetDB()
	categoryFilter := c.Query("category")

	queryStr := "SELECT id, name, price, category, time_to_prepare, is_available, created_at, updated_at FROM menu_items"
	var args []interface{}
	if categoryFilter != "" {
		queryStr += " WHERE category = $1"
		args = append(args, categoryFilter)
	}
	queryStr += " ORDER BY name"

	rows, err := db.Query(queryStr, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu items: " + err.Error()})
		return
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Price, &item.Category, &item.TimeToPrepare,
			&item.IsAvailable, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan menu item: " + err.Error()})
			return
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, items)
}

// GetMenuItemByID handles fetching a single menu item by ID
func GetMenuItemByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item ID"})
		return
	}

	db := database.GetDB()
	var item models.MenuItem
	query := "SELECT id, name, price, category, time_to_prepare, is_available, created_at, updated_at FROM menu_items WHERE id = $1"
	err = db.QueryRow(query, id).Scan(
		&item.ID, &item.Name, &item.Price, &item.Category, &item.TimeToPrepare,
		&item.IsAvailable, &item.CreatedAt, &item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu item: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// Variation Handlers

// CreateVariation handles creation of a new variation
func CreateVariation(c *gin.Context) {
	var variation models.Variation
	if err := c.ShouldBindJSON(&variation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	query := `INSERT INTO variations (menu_item_id, name, price) VALUES ($1, $2, $3) RETURNING id`
	err := db.QueryRow(query, variation.MenuItemID, variation.Name, variation.Price).Scan(&variation.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create variation: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, variation)
}

// GetVariations handles fetching all variations, optionally for one menu item
func GetVariations(c *gin.Context) {
	db := database.GetDB()

	queryStr := "SELECT id, menu_item_id, name, price FROM variations"
	var args []interface{}
	if menuItemID := c.Query("menu_item_id"); menuItemID != "" {
		queryStr += " WHERE menu_item_id = $1"
		args = append(args, menuItemID)
	}
	queryStr += " ORDER BY name"

	rows, err := db.Query(queryStr, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch variations: " + err.Error()})
		return
	}
	defer rows.Close()

	variations := []models.Variation{}
	for rows.Next() {
		var v models.Variation
		if err := rows.Scan(&v.ID, &v.MenuItemID, &v.Name, &v.Price); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan variation: " + err.Error()})
			return
		}
		variations = append(variations, v)
	}
	c.JSON(http.StatusOK, variations)
}

// Addon Handlers

// CreateAddon handles creation of a new addon
func CreateAddon(c *gin.Context) {
	var addon models.Addon
	if err := c.ShouldBindJSON(&addon); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	db := database.GetDB()
	query := `INSERT INTO addons (name, price) VALUES ($1, $2) RETURNING id`
	err := db.QueryRow(query, addon.Name, addon.Price).Scan(&addon.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create addon: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, addon)
}

// GetAddons handles fetching all addons
func GetAddons(c *gin.Context) {
	db := database.GetDB()

	rows, err := db.Query("SELECT id, name, price FROM addons ORDER BY name")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch addons: " + err.Error()})
		return
	}
	defer rows.Close()

	addons := []models.Addon{}
	for rows.Next() {
		var a models.Addon
		if err := rows.Scan(&a.ID, &a.Name, &a.Price); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan addon: " + err.Error()})
			return
		}
		addons = append(addons, a)
	}
	c.JSON(http.StatusOK, addons)
}
