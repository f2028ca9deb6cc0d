package service

import (
	"context"
	"time"

	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
)

type auditor struct {
	store  model.AuditStore
	logger *logger.Logger
	now    func() time.Time
}

func newAuditor(store model.AuditStore, logger *logger.Logger) *auditor {
	return &auditor{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// record appends an entry after the action has been committed. A failed
// append is logged and otherwise ignored.
func (a *auditor) record(ctx context.Context, action model.AuditAction, actor, entity, target, details string) {
	err := a.store.Append(ctx, model.AuditEntry{
		Action:       action,
		Actor:        actor,
		TargetEntity: entity,
		TargetID:     target,
		Details:      details,
		Timestamp:    a.now().UTC(),
	})
	if err != nil {
		a.logger.Error("Audit: failed to append entry",
			"action", string(action),
			"actor", actor,
			"target", target,
			"error", err.Error())
	}
}
