package auth

import (
	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

// Identity is the authenticated caller as seen by handlers and services.
// It is stored in the request context by value and never mutated after the
// authenticator builds it.
type Identity struct {
	UserID     uuid.UUID
	Name       string
	Email      string
	Role       enums.Role
	EmployeeID string
	SessionID  string
	IPAddress  string
}

// Anonymous reports whether no verified token backed this request.
func (id Identity) Anonymous() bool {
	return id.UserID == uuid.Nil
}

// IsDemo reports whether the caller holds a demonstration token.
func (id Identity) IsDemo() bool {
	return id.Role == enums.RoleDemo
}

// HasRole reports whether the caller's role is one of the given roles.
func (id Identity) HasRole(roles ...enums.Role) bool {
	for _, role := range roles {
		if id.Role == role {
			return true
		}
	}
	return false
}

// IdentityFromClaims builds the request identity from verified claims.
func IdentityFromClaims(claims *Claims, ip string) Identity {
	if claims == nil {
		return Identity{}
	}
	return Identity{
		UserID:     claims.UserID,
		Name:       claims.Name,
		Email:      claims.Email,
		Role:       claims.Role,
		EmployeeID: claims.EmployeeID,
		SessionID:  claims.ID,
		IPAddress:  ip,
	}
}
