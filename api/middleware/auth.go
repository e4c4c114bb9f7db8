package middleware

import (
	"errors"
	"net/http"

	"github.com/jeevaraksha/hospital-api/api/responses"
	"github.com/jeevaraksha/hospital-api/api/validators"
	pkgauth "github.com/jeevaraksha/hospital-api/pkg/auth"
	"github.com/jeevaraksha/hospital-api/pkg/config"
	pkgerrors "github.com/jeevaraksha/hospital-api/pkg/errors"
	"github.com/jeevaraksha/hospital-api/pkg/logger"
)

// Authenticate verifies a bearer token when one is present and seeds the
// request context with an immutable identity value. Requests without
// credentials continue anonymously; gates downstream decide whether that is
// acceptable. A token that is present but unusable fails here: expired
// tokens get a payload carrying expired:true so clients re-login instead of
// retrying.
func Authenticate(cfg config.JWTConfig, wr *responses.Writer, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := validators.ExtractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), pkgauth.Identity{})))
				return
			}

			claims, err := pkgauth.Parse(cfg, token)
			if err != nil {
				if errors.Is(err, pkgauth.ErrTokenExpired) {
					wr.Error(r.Context(), w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token").
						WithDetail("expired", true))
					return
				}
				wr.Error(r.Context(), w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			identity := pkgauth.IdentityFromClaims(claims, ClientIP(r))
			ctx := WithIdentity(r.Context(), identity)

			if logg != nil {
				fields := map[string]any{
					"user_id":    identity.UserID.String(),
					"actor_role": identity.Role.String(),
				}
				if identity.IsDemo() {
					fields["demo"] = true
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(wr *responses.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityFromContext(r.Context()).Anonymous() {
				wr.Error(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no token provided"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
