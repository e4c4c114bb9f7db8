package enums

// PatientStatus tracks a patient record's lifecycle.
type PatientStatus string

const (
	PatientStatusActive     PatientStatus = "active"
	PatientStatusAdmitted   PatientStatus = "admitted"
	PatientStatusDischarged PatientStatus = "discharged"
	PatientStatusDeleted    PatientStatus = "deleted"
)

var validPatientStatuses = []PatientStatus{
	PatientStatusActive,
	PatientStatusAdmitted,
	PatientStatusDischarged,
	PatientStatusDeleted,
}

// String implements fmt.Stringer.
func (s PatientStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PatientStatus.
func (s PatientStatus) IsValid() bool {
	for _, candidate := range validPatientStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// RecordStatus is the minimal lifecycle shared by wards and similar
// soft-deletable reference records.
type RecordStatus string

const (
	RecordStatusActive  RecordStatus = "active"
	RecordStatusDeleted RecordStatus = "deleted"
)

// String implements fmt.Stringer.
func (s RecordStatus) String() string {
	return string(s)
}
