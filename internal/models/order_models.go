package models

import "time"

// ItemStatus values for a single line item moving through the kitchen.
const (
	ItemStatusPending   = "PENDING"
	ItemStatusPreparing = "PREPARING"
	ItemStatusReady     = "READY"
	ItemStatusServed    = "SERVED"
)

// IsValidItemStatus checks if the provided status string is a valid line item status.
func IsValidItemStatus(status string) bool {
	switch status {
	case ItemStatusPending, ItemStatusPreparing, ItemStatusReady, ItemStatusServed:
		return true
	default:
		return false
	}
}

// OrderStatus values. PAID and CANCELLED are terminal for table occupancy.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusAccepted  = "ORDER_ACCEPTED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusServed    = "SERVED"
	OrderStatusComplete  = "COMPLETE"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusPaid      = "PAID"
)

// IsValidOrderStatus checks if the provided status string is a valid order status.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusPreparing, OrderStatusReady,
		OrderStatusServed, OrderStatusComplete, OrderStatusCancelled, OrderStatusPaid:
		return true
	default:
		return false
	}
}

// IsTerminalOrderStatus reports whether a status releases the table.
func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusPaid || status == OrderStatusCancelled
}

const (
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
)

// ItemVariation is the resolved variation selection snapshotted onto a line item.
type ItemVariation struct {
	VariationID int64   `json:"variation_id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
}

// ItemAddon is one resolved addon selection snapshotted onto a line item.
type ItemAddon struct {
	AddonID int64   `json:"addon_id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
}

// LineItem is one ordered menu entry inside Order.Items or Order.ExtraItems.
// Name and BasePrice are snapshots taken at pricing time; later catalog edits
// must not change historical orders. ID is a stable identifier assigned at
// creation so status updates do not depend on list position.
type LineItem struct {
	ID             string         `json:"id"`
	MenuItemID     int64          `json:"menu_item_id"`
	Name           string         `json:"name"`
	BasePrice      float64        `json:"base_price"`
	Quantity       int            `json:"quantity"`
	ItemTotal      float64        `json:"item_total"`
	Status         string         `json:"status"`
	TimeToPrepare  int            `json:"time_to_prepare"` // minutes
	Variation      *ItemVariation `json:"variation,omitempty"`
	Addons         []ItemAddon    `json:"addons,omitempty"`
	IsFree         bool           `json:"is_free,omitempty"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	ReadyAt        *time.Time     `json:"ready_at,omitempty"`
	ActualPrepTime *string        `json:"actual_prep_time,omitempty"` // "m:ss"
}

// Discount applied to an order. When Percentage is set, Amount is derived from
// the current subtotal on every recomputation.
type Discount struct {
	Percentage float64 `json:"percentage,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	ApprovedBy *int64  `json:"approved_by,omitempty"`
}

// PaymentDetails records the bookkeeping of a payment event. Gateway
// integration is out of scope; TransactionID is whatever the caller supplies.
type PaymentDetails struct {
	Method            string    `json:"method"`
	Amount            float64   `json:"amount"`
	TransactionID     string    `json:"transaction_id,omitempty"`
	LoyaltyPointsUsed int       `json:"loyalty_points_used"`
	PaidAt            time.Time `json:"paid_at"`
}

// Order is the authoritative record of a dine-in transaction.
// TableNumber and TableNo carry the same human-readable table number; TableNo
// exists for older clients and is always written in lockstep with TableNumber.
type Order struct {
	ID             int64           `json:"id" db:"id"`
	OrderNumber    string          `json:"order_number" db:"order_number"`
	Items          []LineItem      `json:"items"`
	ExtraItems     []LineItem      `json:"extra_items"`
	Subtotal       float64         `json:"subtotal" db:"subtotal"`
	Discount       *Discount       `json:"discount,omitempty"`
	SGSTRate       float64         `json:"sgst_rate" db:"sgst_rate"`
	CGSTRate       float64         `json:"cgst_rate" db:"cgst_rate"`
	SGST           float64         `json:"sgst" db:"sgst"`
	CGST           float64         `json:"cgst" db:"cgst"`
	GST            float64         `json:"gst" db:"gst"`
	TotalAmount    float64         `json:"total_amount" db:"total_amount"`
	Status         string          `json:"status" db:"status"`
	Priority       string          `json:"priority" db:"priority"`
	CustomerName   string          `json:"customer_name" db:"customer_name"`
	CustomerPhone  *string         `json:"customer_phone,omitempty" db:"customer_phone"`
	GuestCount     *int            `json:"guest_count,omitempty" db:"guest_count"`
	StaffName      *string         `json:"staff_name,omitempty" db:"staff_name"`
	TableID        *int64          `json:"table_id,omitempty" db:"table_id"`
	TableNumber    string          `json:"table_number" db:"table_number"`
	TableNo        string          `json:"table_no" db:"table_no"`
	BookingID      *int64          `json:"booking_id,omitempty" db:"booking_id"`
	GRCNo          *string         `json:"grc_no,omitempty" db:"grc_no"`
	RoomNumber     *string         `json:"room_number,omitempty" db:"room_number"`
	GuestName      *string         `json:"guest_name,omitempty" db:"guest_name"`
	GuestPhone     *string         `json:"guest_phone,omitempty" db:"guest_phone"`
	Notes          *string         `json:"notes,omitempty" db:"notes"`
	PaymentDetails *PaymentDetails `json:"payment_details,omitempty"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// AllItems returns both item collections, items first.
func (o *Order) AllItems() []LineItem {
	all := make([]LineItem, 0, len(o.Items)+len(o.ExtraItems))
	all = append(all, o.Items...)
	all = append(all, o.ExtraItems...)
	return all
}

// OrderFilters defines the available filters for querying orders.
// This struct is used by both the service and repository layers.
type OrderFilters struct {
	Status      *string `form:"status"`
	TableNumber *string `form:"table_number"`
	Date        *string `form:"date"` // Expected format YYYY-MM-DD
	Page        int     `form:"page"`
	PageSize    int     `form:"page_size"`
}

// Actor identifies who performed a mutation, taken from the auth context.
type Actor struct {
	ID   int64
	Role string
}
