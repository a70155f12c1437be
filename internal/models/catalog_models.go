package models

import "time"

// MenuItem is a catalog entry. Price and TimeToPrepare are snapshotted onto
// line items at order time.
type MenuItem struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name" binding:"required"`
	Price         float64   `json:"price" db:"price"`
	Category      *string   `json:"category,omitempty" db:"category"`
	TimeToPrepare int       `json:"time_to_prepare" db:"time_to_prepare"` // minutes
	IsAvailable   bool      `json:"is_available" db:"is_available"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Variation is a catalog-defined price override selectable per line item
// (e.g. half/full portion). Its price replaces the menu item base price.
type Variation struct {
	ID         int64   `json:"id" db:"id"`
	MenuItemID *int64  `json:"menu_item_id,omitempty" db:"menu_item_id"`
	Name       string  `json:"name" db:"name" binding:"required"`
	Price      float64 `json:"price" db:"price"`
}

// Addon is a catalog-defined price addition selectable per line item.
type Addon struct {
	ID    int64   `json:"id" db:"id"`
	Name  string  `json:"name" db:"name" binding:"required"`
	Price float64 `json:"price" db:"price"`
}
