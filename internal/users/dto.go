package users

import (
	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// UserDTO is the transport shape that omits credentials and lockout state.
type UserDTO struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Role           enums.Role `json:"role"`
	EmployeeID     string     `json:"employee_id,omitempty"`
	Department     string     `json:"department,omitempty"`
	Specialization string     `json:"specialization,omitempty"`
	DemoAs         string     `json:"demo_as,omitempty"`
}

// FromModel builds the transport shape. roleOverride replaces the user's
// real role when non-empty (demo sessions); it never reveals the real role
// alongside it.
func FromModel(u *models.User, roleOverride enums.Role) *UserDTO {
	if u == nil {
		return nil
	}

	role := u.RoleName()
	if roleOverride != "" {
		role = roleOverride
	}

	return &UserDTO{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           role,
		EmployeeID:     u.EmployeeID,
		Department:     u.Department,
		Specialization: u.Specialization,
	}
}
