package audit

import (
	"context"
	"time"

	auditRepo "salonify/database/repository/audit"
	"salonify/models"
	"salonify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder writes audit entries. A failed write is logged and never returned,
// so auditing cannot fail the operation being audited.
type Recorder interface {
	Record(ctx context.Context, actorID, action, entity, entityID string, details map[string]any)
	List(ctx context.Context, entity string, skip int64, limit int) ([]models.AuditEntry, int64, error)
}

type DefaultRecorder struct {
	Repo auditRepo.AuditRepository
}

func NewRecorder(repo auditRepo.AuditRepository) *DefaultRecorder {
	return &DefaultRecorder{Repo: repo}
}

func (r *DefaultRecorder) Record(ctx context.Context, actorID, action, entity, entityID string, details map[string]any) {
	if actorID == "" {
		actorID = models.ActorSystem
	}
	entry := &models.AuditEntry{
		ID:        uuid.New().String(),
		ActorID:   actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		CreatedAt: time.Now(),
	}
	if err := r.Repo.Create(ctx, entry); err != nil {
		utils.GetLogger().Error("failed to write audit entry",
			zap.String("action", action),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
	}
}

func (r *DefaultRecorder) List(ctx context.Context, entity string, skip int64, limit int) ([]models.AuditEntry, int64, error) {
	return r.Repo.List(ctx, entity, skip, limit)
}
