package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"restaurant_pos_backend/internal/models"
)

// CatalogRepository is the read-only menu/variation/addon lookup consumed by
// the pricing engine. It is injected, never reached through a global.
type CatalogRepository interface {
	FindMenuItem(id int64) (*models.MenuItem, error)
	FindVariation(id int64) (*models.Variation, error)
	FindAddon(id int64) (*models.Addon, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) FindMenuItem(id int64) (*models.MenuItem, error) {
	var m models.MenuItem
	query := `SELECT id, name, price, category, time_to_prepare, is_available, created_at, updated_at
	          FROM menu_items WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&m.ID, &m.Name, &m.Price, &m.Category, &m.TimeToPrepare, &m.IsAvailable, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu item %d: %v", ErrDatabaseError, id, err)
	}
	return &m, nil
}

func (r *catalogRepository) FindVariation(id int64) (*models.Variation, error) {
	var v models.Variation
	query := `SELECT id, menu_item_id, name, price FROM variations WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&v.ID, &v.MenuItemID, &v.Name, &v.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting variation %d: %v", ErrDatabaseError, id, err)
	}
	return &v, nil
}

func (r *catalogRepository) FindAddon(id int64) (*models.Addon, error) {
	var a models.Addon
	query := `SELECT id, name, price FROM addons WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&a.ID, &a.Name, &a.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting addon %d: %v", ErrDatabaseError, id, err)
	}
	return &a, nil
}
