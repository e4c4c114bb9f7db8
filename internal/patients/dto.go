package patients

import (
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	"github.com/jeevaraksha/hospital-api/pkg/pagination"
)

// ListFilter narrows the patient listing.
type ListFilter struct {
	Search string
	Status enums.PatientStatus
	Page   pagination.Page
}

// ListResult carries one page of patients plus the filtered total.
type ListResult struct {
	Data  []models.Patient `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// CreateRequest registers a new patient. UHID is generated server-side.
type CreateRequest struct {
	Name      string `json:"name" validate:"required"`
	DOB       string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender    string `json:"gender" validate:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	BloodType string `json:"blood_group"`
}

// UpdateRequest carries a partial patient update; nil fields are untouched.
// Identity columns (id, uhid, created_at) are not updatable.
type UpdateRequest struct {
	Name      *string              `json:"name"`
	Phone     *string              `json:"phone"`
	Gender    *string              `json:"gender"`
	Address   *string              `json:"address"`
	BloodType *string              `json:"blood_group"`
	Status    *enums.PatientStatus `json:"status"`
}

// Columns flattens the set fields into an update map.
func (r UpdateRequest) Columns() map[string]any {
	cols := map[string]any{}
	if r.Name != nil {
		cols["name"] = *r.Name
	}
	if r.Phone != nil {
		cols["phone"] = *r.Phone
	}
	if r.Gender != nil {
		cols["gender"] = *r.Gender
	}
	if r.Address != nil {
		cols["address"] = *r.Address
	}
	if r.BloodType != nil {
		cols["blood_type"] = *r.BloodType
	}
	if r.Status != nil {
		cols["status"] = *r.Status
	}
	return cols
}

// DeleteResult reports the outcome of a delete.
type DeleteResult struct {
	Message string `json:"message"`
	UHID    string `json:"uhid"`
	Status  string `json:"status,omitempty"`
}
