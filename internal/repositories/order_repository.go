package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_pos_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// listQueryBudget bounds the order listing query. Queries running past the
// budget surface ErrQueryTimeout instead of hanging the request.
const listQueryBudget = 5 * time.Second

// OrderRepository defines the interface for order-related database operations.
// Item collections live in JSONB columns, so every mutation below is one
// conditional single-row update; there is no multi-aggregate transaction.
type OrderRepository interface {
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error) // orders, total count, error
	UpdateOrderItems(executor SQLExecutor, order *models.Order) error
	UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error
	UpdateOrderPayment(executor SQLExecutor, order *models.Order) error
	UpdateOrderTable(executor SQLExecutor, orderID int64, tableNumber string, updatedAt time.Time) error
	UpdateOrderFields(executor SQLExecutor, order *models.Order) error
	UpdateBookingLink(executor SQLExecutor, orderID int64, booking *models.Booking) error
	GetUnlinkedOrders() ([]models.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_number, items, extra_items, subtotal, discount,
	sgst_rate, cgst_rate, sgst, cgst, gst, total_amount, status, priority,
	customer_name, customer_phone, guest_count, staff_name,
	table_id, table_number, table_no, booking_id, grc_no, room_number,
	guest_name, guest_phone, notes, payment_details, created_at, updated_at`

// --- JSONB helpers ---

func marshalItems(items []models.LineItem) ([]byte, error) {
	if items == nil {
		items = []models.LineItem{}
	}
	return json.Marshal(items)
}

func marshalNullable(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func scanOrderRow(s scanner, extraDest ...interface{}) (*models.Order, error) {
	var o models.Order
	var itemsRaw, extraItemsRaw []byte
	var discountRaw, paymentRaw []byte

	dest := []interface{}{
		&o.ID, &o.OrderNumber, &itemsRaw, &extraItemsRaw, &o.Subtotal, &discountRaw,
		&o.SGSTRate, &o.CGSTRate, &o.SGST, &o.CGST, &o.GST, &o.TotalAmount, &o.Status, &o.Priority,
		&o.CustomerName, &o.CustomerPhone, &o.GuestCount, &o.StaffName,
		&o.TableID, &o.TableNumber, &o.TableNo, &o.BookingID, &o.GRCNo, &o.RoomNumber,
		&o.GuestName, &o.GuestPhone, &o.Notes, &paymentRaw, &o.CreatedAt, &o.UpdatedAt,
	}
	dest = append(dest, extraDest...)

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	o.Items = []models.LineItem{}
	o.ExtraItems = []models.LineItem{}
	if len(itemsRaw) > 0 {
		if err := json.Unmarshal(itemsRaw, &o.Items); err != nil {
			return nil, fmt.Errorf("decoding order items: %w", err)
		}
	}
	if len(extraItemsRaw) > 0 {
		if err := json.Unmarshal(extraItemsRaw, &o.ExtraItems); err != nil {
			return nil, fmt.Errorf("decoding order extra items: %w", err)
		}
	}
	if len(discountRaw) > 0 {
		o.Discount = &models.Discount{}
		if err := json.Unmarshal(discountRaw, o.Discount); err != nil {
			return nil, fmt.Errorf("decoding order discount: %w", err)
		}
	}
	if len(paymentRaw) > 0 {
		o.PaymentDetails = &models.PaymentDetails{}
		if err := json.Unmarshal(paymentRaw, o.PaymentDetails); err != nil {
			return nil, fmt.Errorf("decoding order payment details: %w", err)
		}
	}
	return &o, nil
}

// --- Order Methods ---

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (order_number, items, extra_items, subtotal, discount,
	             sgst_rate, cgst_rate, sgst, cgst, gst, total_amount, status, priority,
	             customer_name, customer_phone, guest_count, staff_name,
	             table_id, table_number, table_no, booking_id, notes,
	             created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
	                  $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	          RETURNING id`

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now()
	}

	itemsJSON, err := marshalItems(order.Items)
	if err != nil {
		return 0, fmt.Errorf("%w: encoding items: %v", ErrDatabaseError, err)
	}
	extraItemsJSON, err := marshalItems(order.ExtraItems)
	if err != nil {
		return 0, fmt.Errorf("%w: encoding extra items: %v", ErrDatabaseError, err)
	}
	var discountJSON interface{}
	if order.Discount != nil {
		if discountJSON, err = json.Marshal(order.Discount); err != nil {
			return 0, fmt.Errorf("%w: encoding discount: %v", ErrDatabaseError, err)
		}
	}

	err = executor.QueryRow(query,
		order.OrderNumber, itemsJSON, extraItemsJSON, order.Subtotal, discountJSON,
		order.SGSTRate, order.CGSTRate, order.SGST, order.CGST, order.GST, order.TotalAmount,
		order.Status, order.Priority,
		order.CustomerName, order.CustomerPhone, order.GuestCount, order.StaffName,
		order.TableID, order.TableNumber, order.TableNo, order.BookingID, order.Notes,
		order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%w: order number %s", ErrDuplicateKey, order.OrderNumber)
		}
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrderRow(r.db.QueryRow(query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + orderColumns + `, COUNT(*) OVER() as total_count FROM orders`)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.TableNumber != nil && *filters.TableNumber != "" {
		conditions = append(conditions, fmt.Sprintf("table_number = $%d", argCounter))
		args = append(args, *filters.TableNumber)
		argCounter++
	}
	if filters.Date != nil && *filters.Date != "" {
		parsedDate, err := time.Parse("2006-01-02", *filters.Date)
		if err == nil {
			startOfDay := time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, parsedDate.Location())
			endOfDay := startOfDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
			conditions = append(conditions, fmt.Sprintf("created_at BETWEEN $%d AND $%d", argCounter, argCounter+1))
			args = append(args, startOfDay, endOfDay)
			argCounter += 2
		}
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), listQueryBudget)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, fmt.Errorf("%w: listing orders", ErrQueryTimeout)
		}
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOrderRow(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, *o)
	}
	if err = rows.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, fmt.Errorf("%w: listing orders", ErrQueryTimeout)
		}
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

// UpdateOrderItems overwrites both item collections together with the derived
// money figures and status in a single conditional update.
func (r *orderRepository) UpdateOrderItems(executor SQLExecutor, order *models.Order) error {
	query := `UPDATE orders
	          SET items = $1, extra_items = $2, subtotal = $3, discount = $4,
	              sgst = $5, cgst = $6, gst = $7, total_amount = $8, status = $9, updated_at = $10
	          WHERE id = $11`

	itemsJSON, err := marshalItems(order.Items)
	if err != nil {
		return fmt.Errorf("%w: encoding items: %v", ErrDatabaseError, err)
	}
	extraItemsJSON, err := marshalItems(order.ExtraItems)
	if err != nil {
		return fmt.Errorf("%w: encoding extra items: %v", ErrDatabaseError, err)
	}
	discountJSON, err := marshalNullable(orderDiscount(order))
	if err != nil {
		return fmt.Errorf("%w: encoding discount: %v", ErrDatabaseError, err)
	}

	order.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		itemsJSON, extraItemsJSON, order.Subtotal, discountJSON,
		order.SGST, order.CGST, order.GST, order.TotalAmount, order.Status, order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating items for order ID %d: %v", ErrDatabaseError, order.ID, err)
	}
	return checkRowsAffected(result)
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newStatus, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return checkRowsAffected(result)
}

// UpdateOrderPayment persists the terminal payment state: status, discount,
// recomputed totals and the payment details blob.
func (r *orderRepository) UpdateOrderPayment(executor SQLExecutor, order *models.Order) error {
	query := `UPDATE orders
	          SET status = $1, discount = $2, subtotal = $3,
	              sgst = $4, cgst = $5, gst = $6, total_amount = $7,
	              payment_details = $8, updated_at = $9
	          WHERE id = $10`

	discountJSON, err := marshalNullable(orderDiscount(order))
	if err != nil {
		return fmt.Errorf("%w: encoding discount: %v", ErrDatabaseError, err)
	}
	paymentJSON, err := marshalNullable(orderPayment(order))
	if err != nil {
		return fmt.Errorf("%w: encoding payment details: %v", ErrDatabaseError, err)
	}

	order.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		order.Status, discountJSON, order.Subtotal,
		order.SGST, order.CGST, order.GST, order.TotalAmount,
		paymentJSON, order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating payment for order ID %d: %v", ErrDatabaseError, order.ID, err)
	}
	return checkRowsAffected(result)
}

// UpdateOrderTable writes both table number representations in lockstep.
func (r *orderRepository) UpdateOrderTable(executor SQLExecutor, orderID int64, tableNumber string, updatedAt time.Time) error {
	query := `UPDATE orders SET table_number = $1, table_no = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, tableNumber, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating table for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return checkRowsAffected(result)
}

// UpdateOrderFields persists the closed partial-update set: customer fields,
// notes, priority and status. Item collections are not touched here.
func (r *orderRepository) UpdateOrderFields(executor SQLExecutor, order *models.Order) error {
	query := `UPDATE orders
	          SET customer_name = $1, customer_phone = $2, guest_count = $3, staff_name = $4,
	              notes = $5, priority = $6, status = $7, updated_at = $8
	          WHERE id = $9`

	order.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		order.CustomerName, order.CustomerPhone, order.GuestCount, order.StaffName,
		order.Notes, order.Priority, order.Status, order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating fields for order ID %d: %v", ErrDatabaseError, order.ID, err)
	}
	return checkRowsAffected(result)
}

func (r *orderRepository) UpdateBookingLink(executor SQLExecutor, orderID int64, booking *models.Booking) error {
	query := `UPDATE orders
	          SET booking_id = $1, grc_no = $2, room_number = $3, guest_name = $4, guest_phone = $5, updated_at = $6
	          WHERE id = $7`
	result, err := executor.Exec(query,
		booking.ID, booking.GRCNo, booking.RoomNumber, booking.GuestName, booking.MobileNo, time.Now(),
		orderID,
	)
	if err != nil {
		return fmt.Errorf("%w: linking order ID %d to booking %d: %v", ErrDatabaseError, orderID, booking.ID, err)
	}
	return checkRowsAffected(result)
}

// GetUnlinkedOrders returns orders missing a booking reference, for the batch
// reconciliation pass.
func (r *orderRepository) GetUnlinkedOrders() ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE booking_id IS NULL OR grc_no IS NULL`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying unlinked orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning unlinked order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, *o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating unlinked order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func checkRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func orderDiscount(order *models.Order) interface{} {
	if order.Discount == nil {
		return nil
	}
	return order.Discount
}

func orderPayment(order *models.Order) interface{} {
	if order.PaymentDetails == nil {
		return nil
	}
	return order.PaymentDetails
}
