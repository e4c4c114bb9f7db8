package enums

// LoginAction names the event recorded on a login_logs row.
type LoginAction string

const (
	LoginActionSuccess LoginAction = "login_success"
	LoginActionFailed  LoginAction = "login_failed"
	LoginActionLocked  LoginAction = "locked"
	LoginActionDemo    LoginAction = "demo_login"
	LoginActionLogout  LoginAction = "logout"
)

var validLoginActions = []LoginAction{
	LoginActionSuccess,
	LoginActionFailed,
	LoginActionLocked,
	LoginActionDemo,
	LoginActionLogout,
}

// String implements fmt.Stringer.
func (a LoginAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known LoginAction.
func (a LoginAction) IsValid() bool {
	for _, candidate := range validLoginActions {
		if candidate == a {
			return true
		}
	}
	return false
}
