package beds

import (
	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// WardSummary is a ward row with live bed occupancy counts joined in.
type WardSummary struct {
	models.Ward
	TotalBeds     int `gorm:"column:total_beds" json:"total_beds"`
	AvailableBeds int `gorm:"column:available_beds" json:"available_beds"`
	OccupiedBeds  int `gorm:"column:occupied_beds" json:"occupied_beds"`
}

// BedSummary is a bed row with its ward's display fields joined in.
type BedSummary struct {
	models.Bed
	WardName string `gorm:"column:ward_name" json:"ward_name"`
	WardType string `gorm:"column:ward_type" json:"ward_type,omitempty"`
}

// CreateWardRequest creates a ward.
type CreateWardRequest struct {
	Name          string `json:"name" validate:"required"`
	Code          string `json:"code" validate:"required"`
	WardType      string `json:"ward_type"`
	Floor         int    `json:"floor"`
	TotalCapacity int    `json:"total_capacity"`
}

// UpdateWardRequest carries a partial ward update; nil fields are untouched.
type UpdateWardRequest struct {
	Name          *string `json:"name"`
	WardType      *string `json:"ward_type"`
	Floor         *int    `json:"floor"`
	TotalCapacity *int    `json:"total_capacity"`
}

// Columns flattens the set fields into an update map.
func (r UpdateWardRequest) Columns() map[string]any {
	cols := map[string]any{}
	if r.Name != nil {
		cols["name"] = *r.Name
	}
	if r.WardType != nil {
		cols["ward_type"] = *r.WardType
	}
	if r.Floor != nil {
		cols["floor"] = *r.Floor
	}
	if r.TotalCapacity != nil {
		cols["total_capacity"] = *r.TotalCapacity
	}
	return cols
}

// CreateBedRequest creates a bed in a ward.
type CreateBedRequest struct {
	WardID    uuid.UUID       `json:"ward_id" validate:"required"`
	BedNumber string          `json:"bed_number" validate:"required"`
	Status    enums.BedStatus `json:"status"`
}

// UpdateBedRequest carries a partial bed update. Only Status is open to
// non-admin callers.
type UpdateBedRequest struct {
	WardID    *uuid.UUID       `json:"ward_id"`
	BedNumber *string          `json:"bed_number"`
	Status    *enums.BedStatus `json:"status"`
}

// Columns flattens the set fields into an update map.
func (r UpdateBedRequest) Columns() map[string]any {
	cols := map[string]any{}
	if r.WardID != nil {
		cols["ward_id"] = *r.WardID
	}
	if r.BedNumber != nil {
		cols["bed_number"] = *r.BedNumber
	}
	if r.Status != nil {
		cols["status"] = *r.Status
	}
	return cols
}

// DetailFields reports whether the update touches anything beyond status.
func (r UpdateBedRequest) DetailFields() bool {
	return r.WardID != nil || r.BedNumber != nil
}

// DeleteResult reports the outcome of a ward or bed delete.
type DeleteResult struct {
	Message string `json:"message"`
}

// ListBedsFilter narrows the bed listing.
type ListBedsFilter struct {
	WardID *uuid.UUID
	Status enums.BedStatus
}
