package enums

// BedStatus tracks a bed's occupancy lifecycle.
type BedStatus string

const (
	BedStatusAvailable   BedStatus = "Available"
	BedStatusOccupied    BedStatus = "Occupied"
	BedStatusMaintenance BedStatus = "Maintenance"
	BedStatusDeleted     BedStatus = "deleted"
)

var validBedStatuses = []BedStatus{
	BedStatusAvailable,
	BedStatusOccupied,
	BedStatusMaintenance,
	BedStatusDeleted,
}

// String implements fmt.Stringer.
func (s BedStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BedStatus.
func (s BedStatus) IsValid() bool {
	for _, candidate := range validBedStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
