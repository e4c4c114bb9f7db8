package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// AuditLog records an immutable mutation event. Rows are only ever inserted,
// and when the caller supplies a transaction handle the insert commits or
// rolls back with the mutation it documents.
type AuditLog struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	UserName   string            `gorm:"column:user_name"`
	SessionID  *string           `gorm:"column:session_id"`
	Action     enums.AuditAction `gorm:"column:action;type:text;not null"`
	EntityType string            `gorm:"column:entity_type;not null"`
	EntityID   *uuid.UUID        `gorm:"column:entity_id;type:uuid"`
	Module     string            `gorm:"column:module"`
	Details    string            `gorm:"column:details"`
	OldValues  json.RawMessage   `gorm:"column:old_values;type:jsonb"`
	NewValues  json.RawMessage   `gorm:"column:new_values;type:jsonb"`
	IPAddress  string            `gorm:"column:ip_address"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
