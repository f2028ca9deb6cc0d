package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/deltacargo-server/internal/model"
)

var _ model.AuditStore = (*AuditRepository)(nil)

type AuditRepository struct {
	db *Connection
}

func NewAuditRepository(db *Connection) *AuditRepository {
	return &AuditRepository{
		db: db,
	}
}

func (r *AuditRepository) Append(ctx context.Context, entry model.AuditEntry) error {
	query := `INSERT INTO audit_logs (id, action, performed_by, target_entity, target_id, details, timestamp)
			  VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, query,
		entry.ID, string(entry.Action), entry.Actor, entry.TargetEntity, entry.TargetID, entry.Details, entry.Timestamp,
	)
	if err != nil {
		return wrapErr("failed to append audit entry", err)
	}

	return nil
}
