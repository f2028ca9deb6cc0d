package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditStore appends audit entries. Entries are never updated or removed.
type AuditStore interface {
	Append(ctx context.Context, entry AuditEntry) error
}

// AuditAction names a privileged action.
type AuditAction string

const (
	AuditRegisterUser      AuditAction = "register_user"
	AuditCreateUser        AuditAction = "create_user"
	AuditDeleteUser        AuditAction = "delete_user"
	AuditChangePassword    AuditAction = "change_password"
	AuditResetPassword     AuditAction = "reset_password"
	AuditGeneratePassword  AuditAction = "generate_password"
	AuditSetRole           AuditAction = "set_role"
	AuditSetActive         AuditAction = "set_active"
	AuditBulkUpload        AuditAction = "bulk_upload_tracks"
	AuditBatchUpdateStatus AuditAction = "batch_update_status"
	AuditUpdateStatus      AuditAction = "update_track_status"
	AuditDeleteTrack       AuditAction = "delete_track"
	AuditScannerDeliver    AuditAction = "scanner_deliver"
	AuditScannerDelete     AuditAction = "scanner_delete"
)

// Audit target entities.
const (
	AuditTargetUser  = "user"
	AuditTargetTrack = "track"
)

// AuditEntry is an immutable record of a privileged action.
type AuditEntry struct {
	ID           uuid.UUID
	Action       AuditAction
	Actor        string
	TargetEntity string
	TargetID     string
	Details      string
	Timestamp    time.Time
}
