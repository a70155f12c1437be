package models

import "time"

// TicketItem is the kitchen-facing projection of a line item. It carries no
// pricing detail. Ticket items have no identifiers of their own; they mirror
// the order's item collections positionally by index.
type TicketItem struct {
	MenuItemID     int64          `json:"menu_item_id"`
	Name           string         `json:"name"`
	Quantity       int            `json:"quantity"`
	Variation      *ItemVariation `json:"variation,omitempty"`
	Addons         []ItemAddon    `json:"addons,omitempty"`
	Status         string         `json:"status"`
	TimeToPrepare  int            `json:"time_to_prepare"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	ReadyAt        *time.Time     `json:"ready_at,omitempty"`
	ActualPrepTime *string        `json:"actual_prep_time,omitempty"`
}

// KitchenTicket is a derived, denormalized shadow of an order for kitchen
// display, keyed by OrderID. The order record stays authoritative; the ticket
// is a best-effort read projection.
type KitchenTicket struct {
	ID           int64        `json:"id" db:"id"`
	OrderID      int64        `json:"order_id" db:"order_id"`
	OrderNumber  string       `json:"order_number" db:"order_number"`
	OrderType    string       `json:"order_type" db:"order_type"`
	TableNumber  string       `json:"table_number" db:"table_number"`
	CustomerName string       `json:"customer_name" db:"customer_name"`
	Items        []TicketItem `json:"items"`
	ExtraItems   []TicketItem `json:"extra_items"`
	Status       string       `json:"status" db:"status"`
	Priority     string       `json:"priority" db:"priority"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

const TicketOrderTypeRestaurant = "restaurant"
