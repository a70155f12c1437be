package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrOrderNotFound      = errors.New("order not found")
	ErrItemNotFound       = errors.New("order item not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidItemStatus  = errors.New("invalid item status")
	ErrOrderAlreadyPaid   = errors.New("order is already paid")
)

// --- Data Transfer Objects (DTOs) ---

// CreateOrderRequest is used for creating a new order.
// TableNo is a legacy alias for TableNumber; either is accepted.
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" binding:"required,dive"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone *string            `json:"customer_phone"`
	GuestCount    *int               `json:"guest_count"`
	StaffName     *string            `json:"staff_name"`
	TableID       *int64             `json:"table_id"`
	TableNumber   string             `json:"table_number"`
	TableNo       string             `json:"table_no"`
	BookingID     *int64             `json:"booking_id"`
	Notes         *string            `json:"notes"`
	Priority      *string            `json:"priority"`
	Discount      *models.Discount   `json:"discount"`
	SGSTRate      *float64           `json:"sgst_rate"`
	CGSTRate      *float64           `json:"cgst_rate"`
}

// UpdateOrderStatusRequest is used for updating the status of an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateItemStatusRequest is used for updating a single line item's status.
type UpdateItemStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AddItemsRequest appends new items to one of the order's item collections.
type AddItemsRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,dive"`
}

// ProcessPaymentRequest records a payment event against an order.
type ProcessPaymentRequest struct {
	Method             string   `json:"method"`
	Amount             *float64 `json:"amount"`
	TransactionID      string   `json:"transaction_id"`
	LoyaltyPointsUsed  int      `json:"loyalty_points_used"`
	DiscountPercentage float64  `json:"discount_percentage"`
}

// BillingSummary accompanies the payment response.
type BillingSummary struct {
	Subtotal    float64          `json:"subtotal"`
	Discount    *models.Discount `json:"discount,omitempty"`
	FinalAmount float64          `json:"final_amount"`
	PaidAmount  float64          `json:"paid_amount"`
}

// TransferTableRequest moves an order to another table. OldTableStatus is the
// status the vacated table should take, defaulting to available.
type TransferTableRequest struct {
	NewTableNumber string `json:"new_table_number" binding:"required"`
	OldTableStatus string `json:"old_table_status"`
}

// UpdateOrderRequest is the closed partial-update set for older clients.
// Item collections are deliberately not updatable through this path; item
// mutations must go through the add-items and item-status operations so
// pricing is always recomputed.
type UpdateOrderRequest struct {
	CustomerName  *string         `json:"customer_name"`
	CustomerPhone *string         `json:"customer_phone"`
	GuestCount    *int            `json:"guest_count"`
	StaffName     *string         `json:"staff_name"`
	Notes         *string         `json:"notes"`
	Priority      *string         `json:"priority"`
	Status        *string         `json:"status"`
	Items         json.RawMessage `json:"items"`
	ExtraItems    json.RawMessage `json:"extra_items"`
}

// LinkOrdersResult reports the outcome of the booking linkage batch pass.
type LinkOrdersResult struct {
	LinkedCount   int `json:"linked_count"`
	TotalUnlinked int `json:"total_unlinked"`
}

// --- OrderService Interface ---

// OrderService owns the order aggregate. Mutations recompute pricing from the
// full item collections, then propagate best-effort to the kitchen ticket and
// the table resource. Ticket and table propagation never fails the request;
// only primary-aggregate failures do.
type OrderService interface {
	CreateOrder(req CreateOrderRequest, actor *models.Actor) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest, actor *models.Actor) (*models.Order, error)
	UpdateItemStatus(orderID int64, itemRef string, req UpdateItemStatusRequest) (*models.Order, error)
	UpdateExtraItemStatus(orderID int64, itemRef string, req UpdateItemStatusRequest) (*models.Order, error)
	AddItems(orderID int64, req AddItemsRequest, actor *models.Actor) (*models.Order, error)
	AddExtraItems(orderID int64, req AddItemsRequest, actor *models.Actor) (*models.Order, error)
	ProcessPayment(orderID int64, req ProcessPaymentRequest, actor *models.Actor) (*models.Order, *BillingSummary, error)
	TransferTable(orderID int64, req TransferTableRequest, actor *models.Actor) (*models.Order, error)
	UpdateOrder(orderID int64, req UpdateOrderRequest, actor *models.Actor) (*models.Order, error)
	LinkOrdersToBookings() (*LinkOrdersResult, error)
}

type orderService struct {
	orderRepo   repositories.OrderRepository
	bookingRepo repositories.BookingRepository
	pricing     PricingService
	tickets     TicketService
	tables      TableService
	audit       AuditService
	db          *sql.DB
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	bookingRepo repositories.BookingRepository,
	pricing PricingService,
	tickets TicketService,
	tables TableService,
	audit AuditService,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		bookingRepo: bookingRepo,
		pricing:     pricing,
		tickets:     tickets,
		tables:      tables,
		audit:       audit,
		db:          db,
	}
}

const orderNumberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateOrderNumber produces "ORD-<epoch millis>-<4 char suffix>".
func generateOrderNumber() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderNumberCharset[rand.Intn(len(orderNumberCharset))]
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

// --- Method Implementations ---

func (s *orderService) CreateOrder(req CreateOrderRequest, actor *models.Actor) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}

	pricedItems, err := s.pricing.PriceItems(req.Items)
	if err != nil {
		return nil, err
	}

	tableNumber := req.TableNumber
	if tableNumber == "" {
		tableNumber = req.TableNo
	}
	customerName := req.CustomerName
	if customerName == "" && req.StaffName != nil {
		customerName = *req.StaffName
	}
	if customerName == "" {
		customerName = "Guest"
	}
	priority := models.PriorityNormal
	if req.Priority != nil && *req.Priority != "" {
		priority = *req.Priority
	}

	order := &models.Order{
		OrderNumber:   generateOrderNumber(),
		Items:         pricedItems,
		ExtraItems:    []models.LineItem{},
		Discount:      req.Discount,
		Status:        models.OrderStatusPending,
		Priority:      priority,
		CustomerName:  customerName,
		CustomerPhone: req.CustomerPhone,
		GuestCount:    req.GuestCount,
		StaffName:     req.StaffName,
		TableID:       req.TableID,
		TableNumber:   tableNumber,
		TableNo:       tableNumber,
		BookingID:     req.BookingID,
		Notes:         req.Notes,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if req.SGSTRate != nil {
		order.SGSTRate = *req.SGSTRate
	}
	if req.CGSTRate != nil {
		order.CGSTRate = *req.CGSTRate
	}
	s.pricing.Recompute(order)

	if _, err := s.orderRepo.CreateOrder(s.db, order); err != nil {
		return nil, fmt.Errorf("failed to create order record: %w", err)
	}

	// Side effects are best-effort; the order is already committed.
	s.tickets.CreateForOrder(order)
	s.tables.Occupy(tableNumber)
	s.audit.Record(models.AuditActionCreate, models.AuditEntityOrder, order.ID, actor, nil, order)

	return order, nil
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, totalCount, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, totalCount, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID from repository: %w", err)
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest, actor *models.Actor) (*models.Order, error) {
	if !models.IsValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrderStatus, req.Status)
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}
	before := *order

	if err := s.orderRepo.UpdateOrderStatus(s.db, orderID, req.Status, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status in repository: %w", err)
	}
	order.Status = req.Status

	s.tickets.SetStatusForOrder(order.ID, req.Status)
	if models.IsTerminalOrderStatus(req.Status) {
		s.tables.Release(orderTableNumber(order), "")
	}
	s.audit.Record(models.AuditActionUpdate, models.AuditEntityOrder, order.ID, actor, &before, order)

	return order, nil
}

func (s *orderService) UpdateItemStatus(orderID int64, itemRef string, req UpdateItemStatusRequest) (*models.Order, error) {
	return s.updateItemStatus(orderID, itemRef, req.Status, false)
}

func (s *orderService) UpdateExtraItemStatus(orderID int64, itemRef string, req UpdateItemStatusRequest) (*models.Order, error) {
	return s.updateItemStatus(orderID, itemRef, req.Status, true)
}

// updateItemStatus delegates the timing side effects to the item lifecycle
// and evaluates the all-served promotion on every SERVED update.
func (s *orderService) updateItemStatus(orderID int64, itemRef string, status string, extra bool) (*models.Order, error) {
	if !models.IsValidItemStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidItemStatus, status)
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	collection := order.Items
	if extra {
		collection = order.ExtraItems
	}
	index := findLineItem(collection, itemRef)
	if index < 0 {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemRef)
	}

	applyItemStatus(&collection[index], status, time.Now())
	if status == models.ItemStatusServed {
		promoteIfAllServed(order)
	}

	if err := s.orderRepo.UpdateOrderItems(s.db, order); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to persist item status update: %w", err)
	}

	s.tickets.SyncItemStatus(order, extra, index)

	return order, nil
}

func (s *orderService) AddItems(orderID int64, req AddItemsRequest, actor *models.Actor) (*models.Order, error) {
	return s.addItems(orderID, req, actor, false)
}

func (s *orderService) AddExtraItems(orderID int64, req AddItemsRequest, actor *models.Actor) (*models.Order, error) {
	return s.addItems(orderID, req, actor, true)
}

// addItems appends priced items to the addressed collection and recomputes
// the full aggregate from both collections, so repeated additions cannot
// drift the totals.
func (s *orderService) addItems(orderID int64, req AddItemsRequest, actor *models.Actor, extra bool) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items are required", ErrValidation)
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	before := *order

	pricedItems, err := s.pricing.PriceItems(req.Items)
	if err != nil {
		return nil, err
	}

	if extra {
		order.ExtraItems = append(order.ExtraItems, pricedItems...)
	} else {
		order.Items = append(order.Items, pricedItems...)
	}
	s.pricing.Recompute(order)

	if err := s.orderRepo.UpdateOrderItems(s.db, order); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to persist added items: %w", err)
	}

	s.tickets.SyncItems(order)
	s.audit.Record(models.AuditActionUpdate, models.AuditEntityOrder, order.ID, actor, &before, order)

	return order, nil
}

func (s *orderService) ProcessPayment(orderID int64, req ProcessPaymentRequest, actor *models.Actor) (*models.Order, *BillingSummary, error) {
	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.Status == models.OrderStatusPaid {
		return nil, nil, ErrOrderAlreadyPaid
	}
	before := *order

	if req.DiscountPercentage > 0 {
		order.Discount = &models.Discount{Percentage: req.DiscountPercentage}
	}
	s.pricing.Recompute(order)

	method := req.Method
	if method == "" {
		method = "CASH"
	}
	amount := order.TotalAmount
	if req.Amount != nil {
		amount = *req.Amount
	}
	order.Status = models.OrderStatusPaid
	order.PaymentDetails = &models.PaymentDetails{
		Method:            method,
		Amount:            amount,
		TransactionID:     req.TransactionID,
		LoyaltyPointsUsed: req.LoyaltyPointsUsed,
		PaidAt:            time.Now(),
	}

	if err := s.orderRepo.UpdateOrderPayment(s.db, order); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, fmt.Errorf("failed to persist payment: %w", err)
	}

	s.tables.Release(orderTableNumber(order), "")
	s.tickets.SetStatusForOrder(order.ID, models.OrderStatusPaid)
	s.audit.Record(models.AuditActionUpdate, models.AuditEntityOrder, order.ID, actor, &before, order)

	billing := &BillingSummary{
		Subtotal:    order.Subtotal,
		Discount:    order.Discount,
		FinalAmount: order.TotalAmount,
		PaidAmount:  order.PaymentDetails.Amount,
	}
	return order, billing, nil
}

func (s *orderService) TransferTable(orderID int64, req TransferTableRequest, actor *models.Actor) (*models.Order, error) {
	if req.NewTableNumber == "" {
		return nil, fmt.Errorf("%w: new table number is required", ErrValidation)
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	before := *order

	oldTableNumber := orderTableNumber(order)
	if oldTableNumber != "" {
		s.tables.Release(oldTableNumber, req.OldTableStatus)
	}
	s.tables.Occupy(req.NewTableNumber)

	order.TableNumber = req.NewTableNumber
	order.TableNo = req.NewTableNumber
	if err := s.orderRepo.UpdateOrderTable(s.db, order.ID, req.NewTableNumber, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to persist table transfer: %w", err)
	}

	s.tickets.SetTableForOrder(order.ID, req.NewTableNumber)
	s.audit.Record(models.AuditActionUpdate, models.AuditEntityOrder, order.ID, actor, &before, order)

	return order, nil
}

// UpdateOrder is the legacy partial-update path, narrowed to a closed field
// set. Replacing item collections here would bypass pricing recomputation, so
// it is rejected outright.
func (s *orderService) UpdateOrder(orderID int64, req UpdateOrderRequest, actor *models.Actor) (*models.Order, error) {
	if len(req.Items) > 0 || len(req.ExtraItems) > 0 {
		return nil, fmt.Errorf("%w: item collections cannot be replaced through this endpoint; use the add-items and item-status operations", ErrValidation)
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	before := *order

	if req.CustomerName != nil {
		order.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		order.CustomerPhone = req.CustomerPhone
	}
	if req.GuestCount != nil {
		order.GuestCount = req.GuestCount
	}
	if req.StaffName != nil {
		order.StaffName = req.StaffName
	}
	if req.Notes != nil {
		order.Notes = req.Notes
	}
	if req.Priority != nil && *req.Priority != "" {
		order.Priority = *req.Priority
	}
	statusChanged := false
	if req.Status != nil && *req.Status != order.Status {
		if !models.IsValidOrderStatus(*req.Status) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidOrderStatus, *req.Status)
		}
		if order.Status == models.OrderStatusPaid {
			return nil, ErrOrderAlreadyPaid
		}
		order.Status = *req.Status
		statusChanged = true
	}

	if err := s.orderRepo.UpdateOrderFields(s.db, order); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to persist order update: %w", err)
	}

	if statusChanged {
		s.tickets.SetStatusForOrder(order.ID, order.Status)
		if models.IsTerminalOrderStatus(order.Status) {
			s.tables.Release(orderTableNumber(order), "")
		}
	}
	s.audit.Record(models.AuditActionUpdate, models.AuditEntityOrder, order.ID, actor, &before, order)

	return order, nil
}

// LinkOrdersToBookings backfills booking metadata onto orders missing a
// booking reference by matching their table number against active bookings.
// Not on the hot path; doubles as the reconciliation utility for drift.
func (s *orderService) LinkOrdersToBookings() (*LinkOrdersResult, error) {
	unlinked, err := s.orderRepo.GetUnlinkedOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unlinked orders: %w", err)
	}

	linked := 0
	for _, order := range unlinked {
		tableNumber := orderTableNumber(&order)
		if tableNumber == "" {
			continue
		}
		booking, err := s.bookingRepo.FindActiveByTableNumber(tableNumber)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to match booking for order %d: %w", order.ID, err)
		}
		if err := s.orderRepo.UpdateBookingLink(s.db, order.ID, booking); err != nil {
			return nil, fmt.Errorf("failed to link order %d to booking %d: %w", order.ID, booking.ID, err)
		}
		linked++
	}
	return &LinkOrdersResult{LinkedCount: linked, TotalUnlinked: len(unlinked)}, nil
}

// orderTableNumber resolves the table number across the current and legacy
// fields; TableNo wins for older records where only it was written.
func orderTableNumber(order *models.Order) string {
	if order.TableNo != "" {
		return order.TableNo
	}
	return order.TableNumber
}

// findLineItem resolves an item reference: the stable item id first, then a
// legacy positional index for older clients.
func findLineItem(items []models.LineItem, ref string) int {
	for i := range items {
		if items[i].ID == ref {
			return i
		}
	}
	if index, err := strconv.Atoi(ref); err == nil && index >= 0 && index < len(items) {
		return index
	}
	return -1
}
