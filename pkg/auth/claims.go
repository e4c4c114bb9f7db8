package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// TokenPayload captures the data available when minting a JWT.
type TokenPayload struct {
	UserID     uuid.UUID
	Name       string
	Email      string
	Role       enums.Role
	EmployeeID string
}

// Claims represents the typed JWT issued to clients. The role claim may be
// the demo sentinel, in which case it never reflects the underlying
// account's real role.
type Claims struct {
	UserID     uuid.UUID  `json:"user_id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       enums.Role `json:"role"`
	EmployeeID string     `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}

// IsDemo reports whether the token was minted for a demonstration session.
func (c *Claims) IsDemo() bool {
	return c != nil && c.Role == enums.RoleDemo
}
