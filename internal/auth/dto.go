package auth

import (
	"github.com/jeevaraksha/hospital-api/internal/users"
)

// RequestMeta carries per-request client attributes into login logging.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// LoginRequest is the credentials payload for POST /api/auth/login.
type LoginRequest struct {
	// Email is deliberately not format-validated: any submitted value must
	// reach the credential check so the attempt lands in login_logs verbatim.
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`

	Meta RequestMeta `json:"-"`
}

// LoginResult carries the minted token and the authenticated user's profile.
type LoginResult struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}

// DemoRequest selects which real role a demonstration session impersonates.
type DemoRequest struct {
	Role string `json:"role"`

	Meta RequestMeta `json:"-"`
}

// DemoResult mirrors LoginResult plus the demo marker. The user's role field
// always carries the demo sentinel; DemoAs on the user records which real
// role is being shown, for display only.
type DemoResult struct {
	Token  string         `json:"token"`
	User   *users.UserDTO `json:"user"`
	IsDemo bool           `json:"isDemo"`
}

// MeResult is the response for GET /api/auth/me.
type MeResult struct {
	User   *users.UserDTO `json:"user"`
	IsDemo bool           `json:"isDemo"`
}
