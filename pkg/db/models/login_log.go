package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// LoginLog is an append-only record of a login-related event. UserID stays
// nil when the submitted email resolved to no account; the raw email is kept
// regardless for forensics.
type LoginLog struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID        `gorm:"column:user_id;type:uuid"`
	Email     string            `gorm:"column:email;not null"`
	Action    enums.LoginAction `gorm:"column:action;type:text;not null"`
	IPAddress string            `gorm:"column:ip_address"`
	UserAgent string            `gorm:"column:user_agent"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}
