package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// User represents the canonical staff identity record. Lockout state lives
// on the row itself so it survives restarts and is shared by every server
// instance pointing at the same database.
type User struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email          string           `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash   *string          `gorm:"column:password_hash"`
	Name           string           `gorm:"column:name;not null"`
	EmployeeID     string           `gorm:"column:employee_id"`
	Department     string           `gorm:"column:department"`
	Specialization string           `gorm:"column:specialization"`
	Designation    string           `gorm:"column:designation"`
	RoleID         uuid.UUID        `gorm:"column:role_id;type:uuid;not null"`
	Role           *Role            `gorm:"foreignKey:RoleID"`
	Status         enums.UserStatus `gorm:"column:status;not null;default:active"`
	LoginAttempts  int              `gorm:"column:login_attempts;not null;default:0"`
	LockedUntil    *time.Time       `gorm:"column:locked_until"`
	LastLoginAt    *time.Time       `gorm:"column:last_login_at"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// RoleName resolves the joined role name, empty when the association was not
// loaded.
func (u *User) RoleName() enums.Role {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// IsLocked reports whether the lockout window is still open at the given
// instant.
func (u *User) IsLocked(now time.Time) bool {
	return u != nil && u.LockedUntil != nil && u.LockedUntil.After(now)
}
