package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"restaurant_pos_backend/internal/models"
)

// TicketRepository defines the interface for kitchen ticket operations.
// One ticket exists per order, located by order id.
type TicketRepository interface {
	CreateTicket(executor SQLExecutor, ticket *models.KitchenTicket) (int64, error)
	GetTicketByOrderID(orderID int64) (*models.KitchenTicket, error)
	GetTickets(status *string) ([]models.KitchenTicket, error)
	UpdateTicketItems(executor SQLExecutor, ticket *models.KitchenTicket) error
	UpdateTicketStatusByOrder(executor SQLExecutor, orderID int64, status string) (int64, error)
	UpdateTicketTableByOrder(executor SQLExecutor, orderID int64, tableNumber string) (int64, error)
}

type ticketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new instance of TicketRepository.
func NewTicketRepository(db *sql.DB) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, order_id, order_number, order_type, table_number, customer_name,
	items, extra_items, status, priority, created_at, updated_at`

func marshalTicketItems(items []models.TicketItem) ([]byte, error) {
	if items == nil {
		items = []models.TicketItem{}
	}
	return json.Marshal(items)
}

func scanTicketRow(s scanner) (*models.KitchenTicket, error) {
	var t models.KitchenTicket
	var itemsRaw, extraItemsRaw []byte

	err := s.Scan(
		&t.ID, &t.OrderID, &t.OrderNumber, &t.OrderType, &t.TableNumber, &t.CustomerName,
		&itemsRaw, &extraItemsRaw, &t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Items = []models.TicketItem{}
	t.ExtraItems = []models.TicketItem{}
	if len(itemsRaw) > 0 {
		if err := json.Unmarshal(itemsRaw, &t.Items); err != nil {
			return nil, fmt.Errorf("decoding ticket items: %w", err)
		}
	}
	if len(extraItemsRaw) > 0 {
		if err := json.Unmarshal(extraItemsRaw, &t.ExtraItems); err != nil {
			return nil, fmt.Errorf("decoding ticket extra items: %w", err)
		}
	}
	return &t, nil
}

func (r *ticketRepository) CreateTicket(executor SQLExecutor, ticket *models.KitchenTicket) (int64, error) {
	query := `INSERT INTO kitchen_tickets
	            (order_id, order_number, order_type, table_number, customer_name,
	             items, extra_items, status, priority, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`

	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now()
	}
	if ticket.UpdatedAt.IsZero() {
		ticket.UpdatedAt = time.Now()
	}

	itemsJSON, err := marshalTicketItems(ticket.Items)
	if err != nil {
		return 0, fmt.Errorf("%w: encoding ticket items: %v", ErrDatabaseError, err)
	}
	extraItemsJSON, err := marshalTicketItems(ticket.ExtraItems)
	if err != nil {
		return 0, fmt.Errorf("%w: encoding ticket extra items: %v", ErrDatabaseError, err)
	}

	err = executor.QueryRow(query,
		ticket.OrderID, ticket.OrderNumber, ticket.OrderType, ticket.TableNumber, ticket.CustomerName,
		itemsJSON, extraItemsJSON, ticket.Status, ticket.Priority, ticket.CreatedAt, ticket.UpdatedAt,
	).Scan(&ticket.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating kitchen ticket for order %d: %v", ErrDatabaseError, ticket.OrderID, err)
	}
	return ticket.ID, nil
}

func (r *ticketRepository) GetTicketByOrderID(orderID int64) (*models.KitchenTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM kitchen_tickets WHERE order_id = $1`
	ticket, err := scanTicketRow(r.db.QueryRow(query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting ticket for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return ticket, nil
}

func (r *ticketRepository) GetTickets(status *string) ([]models.KitchenTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM kitchen_tickets`
	var args []interface{}
	if status != nil && *status != "" {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying kitchen tickets: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	tickets := []models.KitchenTicket{}
	for rows.Next() {
		t, err := scanTicketRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning kitchen ticket: %v", ErrDatabaseError, err)
		}
		tickets = append(tickets, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating kitchen ticket rows: %v", ErrDatabaseError, err)
	}
	return tickets, nil
}

// UpdateTicketItems overwrites both projected item collections.
func (r *ticketRepository) UpdateTicketItems(executor SQLExecutor, ticket *models.KitchenTicket) error {
	query := `UPDATE kitchen_tickets SET items = $1, extra_items = $2, updated_at = $3 WHERE order_id = $4`

	itemsJSON, err := marshalTicketItems(ticket.Items)
	if err != nil {
		return fmt.Errorf("%w: encoding ticket items: %v", ErrDatabaseError, err)
	}
	extraItemsJSON, err := marshalTicketItems(ticket.ExtraItems)
	if err != nil {
		return fmt.Errorf("%w: encoding ticket extra items: %v", ErrDatabaseError, err)
	}

	ticket.UpdatedAt = time.Now()
	result, err := executor.Exec(query, itemsJSON, extraItemsJSON, ticket.UpdatedAt, ticket.OrderID)
	if err != nil {
		return fmt.Errorf("%w: updating ticket items for order ID %d: %v", ErrDatabaseError, ticket.OrderID, err)
	}
	return checkRowsAffected(result)
}

// UpdateTicketStatusByOrder is the update-many-by-query path used when an
// order reaches a new status. Returns the number of tickets touched.
func (r *ticketRepository) UpdateTicketStatusByOrder(executor SQLExecutor, orderID int64, status string) (int64, error) {
	query := `UPDATE kitchen_tickets SET status = $1, updated_at = $2 WHERE order_id = $3`
	result, err := executor.Exec(query, status, time.Now(), orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: updating ticket status for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for ticket status update: %v", ErrDatabaseError, err)
	}
	return rowsAffected, nil
}

func (r *ticketRepository) UpdateTicketTableByOrder(executor SQLExecutor, orderID int64, tableNumber string) (int64, error) {
	query := `UPDATE kitchen_tickets SET table_number = $1, updated_at = $2 WHERE order_id = $3`
	result, err := executor.Exec(query, tableNumber, time.Now(), orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: updating ticket table for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for ticket table update: %v", ErrDatabaseError, err)
	}
	return rowsAffected, nil
}
