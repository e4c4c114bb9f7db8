package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// Ward groups beds by floor/unit.
type Ward struct {
	ID            uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string             `gorm:"column:name;not null"`
	Code          string             `gorm:"column:code;type:text;not null;uniqueIndex"`
	WardType      string             `gorm:"column:ward_type"`
	Floor         int                `gorm:"column:floor"`
	TotalCapacity int                `gorm:"column:total_capacity;not null;default:0"`
	Status        enums.RecordStatus `gorm:"column:status;not null;default:active"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
