package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"restaurant_pos_backend/internal/models"
)

// AuditRepository persists audit entries. Its failures are the audit
// service's concern, never the originating operation's.
type AuditRepository interface {
	CreateEntry(executor SQLExecutor, entry *models.AuditEntry) (int64, error)
}

type auditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new instance of AuditRepository.
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) CreateEntry(executor SQLExecutor, entry *models.AuditEntry) (int64, error) {
	query := `INSERT INTO audit_logs
	            (action, entity_type, entity_id, actor_id, actor_role, before_state, after_state, ip_address, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var before, after interface{}
	if len(entry.Before) > 0 {
		before = []byte(entry.Before)
	}
	if len(entry.After) > 0 {
		after = []byte(entry.After)
	}

	err := executor.QueryRow(query,
		entry.Action, entry.EntityType, entry.EntityID, entry.ActorID, entry.ActorRole,
		before, after, entry.IPAddress, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating audit entry: %v", ErrDatabaseError, err)
	}
	return entry.ID, nil
}
