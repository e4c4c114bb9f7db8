package middleware

import (
	"net/http"

	"github.com/jeevaraksha/hospital-api/api/responses"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	pkgerrors "github.com/jeevaraksha/hospital-api/pkg/errors"
)

// RequireRoles admits only callers holding one of the listed roles.
// Anonymous callers are refused with the same status as a wrong role.
func RequireRoles(wr *responses.Writer, roles ...enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity.Anonymous() || !identity.HasRole(roles...) {
				wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DemoGuard blocks all mutating verbs for demonstration sessions. Reads
// pass through untouched, which is the whole point of a demo account.
func DemoGuard(wr *responses.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if identity.IsDemo() {
				switch r.Method {
				case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
					wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeForbidden, "demo mode is read-only"))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
