package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	"github.com/jeevaraksha/hospital-api/pkg/metrics"
	"gorm.io/gorm"
)

// Entry describes one mutation for the audit trail. Old/new snapshots are
// opaque to the recorder: they are persisted and returned verbatim.
type Entry struct {
	UserID     uuid.UUID
	UserName   string
	SessionID  *string
	Action     enums.AuditAction
	EntityType string
	EntityID   *uuid.UUID
	Module     string
	Details    string
	OldValues  json.RawMessage
	NewValues  json.RawMessage
	IPAddress  string
}

// Recorder persists audit entries. When a transaction handle is supplied the
// insert lives or dies with the caller's mutation; with a nil handle the
// write runs against the ambient pool and failures are the caller's to
// report, not to roll anything back over.
type Recorder struct {
	db      *gorm.DB
	metrics *metrics.AuthMetrics
}

// NewRecorder constructs an audit recorder on the ambient connection.
func NewRecorder(db *gorm.DB, m *metrics.AuthMetrics) *Recorder {
	return &Recorder{db: db, metrics: m}
}

// Record inserts the audit entry on tx when provided, otherwise on the
// ambient connection.
func (r *Recorder) Record(ctx context.Context, entry Entry, tx *gorm.DB) error {
	if !entry.Action.IsValid() {
		return fmt.Errorf("invalid audit action %q", entry.Action)
	}
	if entry.EntityType == "" {
		return fmt.Errorf("audit entity type is required")
	}

	handle := tx
	if handle == nil {
		handle = r.db
	}

	row := models.AuditLog{
		UserID:     entry.UserID,
		UserName:   entry.UserName,
		SessionID:  entry.SessionID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Module:     entry.Module,
		Details:    entry.Details,
		OldValues:  entry.OldValues,
		NewValues:  entry.NewValues,
		IPAddress:  entry.IPAddress,
	}

	if err := handle.WithContext(ctx).Create(&row).Error; err != nil {
		r.metrics.IncAuditFailure()
		return fmt.Errorf("insert audit entry: %w", err)
	}

	r.metrics.IncAuditRecord(entry.Action.String())
	return nil
}
