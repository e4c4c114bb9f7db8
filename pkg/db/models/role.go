package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// Role is the closed lookup table referenced by users.role_id.
type Role struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      enums.Role `gorm:"column:role_name;type:text;not null;uniqueIndex"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralization.
func (Role) TableName() string {
	return "roles"
}
