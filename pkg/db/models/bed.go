package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// Bed belongs to a ward; occupancy drives delete conflicts.
type Bed struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WardID    uuid.UUID       `gorm:"column:ward_id;type:uuid;not null"`
	Ward      *Ward           `gorm:"foreignKey:WardID"`
	BedNumber string          `gorm:"column:bed_number;not null"`
	Status    enums.BedStatus `gorm:"column:status;not null;default:Available"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
