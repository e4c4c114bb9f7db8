package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// Patient is a hospital patient record, soft-deleted via status.
type Patient struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UHID      string              `gorm:"column:uhid;type:text;not null;uniqueIndex"`
	Name      string              `gorm:"column:name;not null"`
	Phone     string              `gorm:"column:phone"`
	Gender    string              `gorm:"column:gender"`
	DOB       *time.Time          `gorm:"column:dob"`
	Address   string              `gorm:"column:address"`
	BloodType string              `gorm:"column:blood_type"`
	Status    enums.PatientStatus `gorm:"column:status;not null;default:active"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
