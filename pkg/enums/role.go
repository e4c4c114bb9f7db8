package enums

import (
	"fmt"
	"strings"
)

// Role represents a staff-level permissions role.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleReceptionist Role = "receptionist"
	RolePharmacist   Role = "pharmacist"
	RoleLabTech      Role = "lab_technician"

	// RoleDemo is the sentinel carried by demonstration tokens. It is never
	// stored on a user row; it only ever appears inside a minted token.
	RoleDemo Role = "demo"
)

var validRoles = []Role{
	RoleAdmin,
	RoleDoctor,
	RoleNurse,
	RoleReceptionist,
	RolePharmacist,
	RoleLabTech,
	RoleDemo,
}

// roleLabels maps free-text labels (role names plus the designations seen on
// staff records) onto the closed Role set for demo impersonation lookup.
var roleLabels = map[string]Role{
	"admin":          RoleAdmin,
	"administrator":  RoleAdmin,
	"doctor":         RoleDoctor,
	"physician":      RoleDoctor,
	"surgeon":        RoleDoctor,
	"consultant":     RoleDoctor,
	"nurse":          RoleNurse,
	"staff nurse":    RoleNurse,
	"head nurse":     RoleNurse,
	"receptionist":   RoleReceptionist,
	"front desk":     RoleReceptionist,
	"pharmacist":     RolePharmacist,
	"lab_technician": RoleLabTech,
	"lab technician": RoleLabTech,
	"technician":     RoleLabTech,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// ParseRoleLabel resolves a free-text label (role name or designation,
// case-insensitive) onto the closed Role set.
func ParseRoleLabel(label string) (Role, bool) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		return "", false
	}
	role, ok := roleLabels[normalized]
	return role, ok
}
