package loginlog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	"github.com/jeevaraksha/hospital-api/pkg/logger"
	"gorm.io/gorm"
)

// Entry describes one login-related event. UserID stays nil when the email
// never resolved to an account; Email keeps the raw submitted value either
// way, deliberately, so failed attempts remain traceable.
type Entry struct {
	UserID    *uuid.UUID
	Email     string
	Action    enums.LoginAction
	IPAddress string
	UserAgent string
}

// Recorder appends login events best-effort: a failed write is logged at
// warn level and never fails the login request it documents.
type Recorder struct {
	db   *gorm.DB
	logg *logger.Logger
}

// NewRecorder constructs a login event recorder.
func NewRecorder(db *gorm.DB, logg *logger.Logger) *Recorder {
	return &Recorder{db: db, logg: logg}
}

// Record appends the entry. Insert errors are warned about, never returned.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r == nil || r.db == nil {
		return
	}

	row := models.LoginLog{
		UserID:    entry.UserID,
		Email:     entry.Email,
		Action:    entry.Action,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil && r.logg != nil {
		ctx = r.logg.WithFields(ctx, map[string]any{
			"login_action": entry.Action.String(),
			"error":        err.Error(),
		})
		r.logg.Warn(ctx, "failed to record login event")
	}
}
