package controllers

import (
	"net/http"

	"github.com/jeevaraksha/hospital-api/api/middleware"
	"github.com/jeevaraksha/hospital-api/api/responses"
	"github.com/jeevaraksha/hospital-api/api/validators"
	"github.com/jeevaraksha/hospital-api/internal/auth"
	pkgerrors "github.com/jeevaraksha/hospital-api/pkg/errors"
)

// AuthLogin wires POST /api/auth/login.
func AuthLogin(svc auth.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		body.Meta = auth.RequestMeta{
			IPAddress: middleware.ClientIP(r),
			UserAgent: r.UserAgent(),
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, result)
	}
}

// AuthDemo wires POST /api/auth/demo.
func AuthDemo(svc auth.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.DemoRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				wr.Error(r.Context(), w, err)
				return
			}
		}
		body.Meta = auth.RequestMeta{
			IPAddress: middleware.ClientIP(r),
			UserAgent: r.UserAgent(),
		}

		result, err := svc.DemoLogin(r.Context(), body)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, result)
	}
}

// AuthMe wires GET /api/auth/me.
func AuthMe(svc auth.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		result, err := svc.CurrentUser(r.Context(), identity)
		if err != nil {
			wr.Error(r.Context(), w, err)
			return
		}
		wr.JSON(w, http.StatusOK, result)
	}
}

// AuthLogout wires POST /api/auth/logout. Logout always succeeds; an expired
// or garbled token still gets a 200 so clients can clear local state.
func AuthLogout(svc auth.Service, wr *responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.Logout(r.Context(), validators.ExtractBearerToken(r), auth.RequestMeta{
			IPAddress: middleware.ClientIP(r),
			UserAgent: r.UserAgent(),
		})
		wr.JSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	}
}
