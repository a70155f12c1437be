package services

import (
	"encoding/json"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/pkg/utils"
)

// AuditService records mutations fire-and-forget. The write happens off the
// request path; a failed write is logged and forgotten.
type AuditService interface {
	Record(action, entityType string, entityID int64, actor *models.Actor, before, after interface{})
}

type auditService struct {
	auditRepo repositories.AuditRepository
	db        repositories.SQLExecutor
}

// NewAuditService creates a new instance of AuditService.
func NewAuditService(auditRepo repositories.AuditRepository, db repositories.SQLExecutor) AuditService {
	return &auditService{auditRepo: auditRepo, db: db}
}

func (s *auditService) Record(action, entityType string, entityID int64, actor *models.Actor, before, after interface{}) {
	entry := &models.AuditEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if actor != nil {
		actorID := actor.ID
		actorRole := actor.Role
		entry.ActorID = &actorID
		entry.ActorRole = &actorRole
	}
	if before != nil {
		if raw, err := json.Marshal(before); err == nil {
			entry.Before = raw
		}
	}
	if after != nil {
		if raw, err := json.Marshal(after); err == nil {
			entry.After = raw
		}
	}

	go func() {
		if _, err := s.auditRepo.CreateEntry(s.db, entry); err != nil {
			utils.LogWarn("Audit log write failed", map[string]interface{}{
				"action": action, "entity_type": entityType, "entity_id": entityID, "error": err.Error(),
			})
		}
	}()
}
