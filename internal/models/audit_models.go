package models

import (
	"encoding/json"
	"time"
)

// AuditEntry is one immutable record of a mutation. Writes are fire-and-forget
// from the order core's perspective.
type AuditEntry struct {
	ID         int64           `json:"id" db:"id"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   int64           `json:"entity_id" db:"entity_id"`
	ActorID    *int64          `json:"actor_id,omitempty" db:"actor_id"`
	ActorRole  *string         `json:"actor_role,omitempty" db:"actor_role"`
	Before     json.RawMessage `json:"before,omitempty" db:"before_state"`
	After      json.RawMessage `json:"after,omitempty" db:"after_state"`
	IPAddress  *string         `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"

	AuditEntityOrder  = "RESTAURANT_ORDER"
	AuditEntityTicket = "KITCHEN_TICKET"
)
