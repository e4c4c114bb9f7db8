package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jeevaraksha/hospital-api/api/controllers"
	"github.com/jeevaraksha/hospital-api/api/middleware"
	"github.com/jeevaraksha/hospital-api/api/responses"
	"github.com/jeevaraksha/hospital-api/internal/audit"
	"github.com/jeevaraksha/hospital-api/internal/auth"
	"github.com/jeevaraksha/hospital-api/internal/beds"
	"github.com/jeevaraksha/hospital-api/internal/patients"
	"github.com/jeevaraksha/hospital-api/pkg/config"
	"github.com/jeevaraksha/hospital-api/pkg/db"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	"github.com/jeevaraksha/hospital-api/pkg/logger"
	"github.com/jeevaraksha/hospital-api/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redis.Client
	Registry *prometheus.Registry

	AuthService    auth.Service
	PatientService patients.Service
	BedService     beds.Service
	AuditQuery     *audit.QueryService
}

// NewRouter assembles the full HTTP surface under /api.
func NewRouter(deps Deps) http.Handler {
	wr := responses.NewWriter(deps.Logger, deps.Config.App.IsProd())

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(wr, deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(deps.Config.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		deps.Config.AuthRateLimit.LoginWindow,
		deps.Config.AuthRateLimit.LoginIPLimit,
		deps.Config.AuthRateLimit.LoginEmailLimit,
	)

	var limiterStore middleware.RateLimiterStore
	if deps.Redis != nil {
		limiterStore = deps.Redis
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", controllers.Health(deps.DB, wr))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, wr, deps.Logger)).
				Post("/login", controllers.AuthLogin(deps.AuthService, wr))
			r.Post("/demo", controllers.AuthDemo(deps.AuthService, wr))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, wr))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(deps.Config.JWT, wr, deps.Logger))
				r.Get("/me", controllers.AuthMe(deps.AuthService, wr))
			})
		})

		// Everything below requires a verified token; demo sessions are
		// read-only.
		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Authenticate(deps.Config.JWT, wr, deps.Logger),
				middleware.RequireAuth(wr),
				middleware.DemoGuard(wr),
			)

			adminOnly := middleware.RequireRoles(wr, enums.RoleAdmin)

			r.Route("/patients", func(r chi.Router) {
				r.Get("/", controllers.PatientsList(deps.PatientService, wr))
				r.Get("/uhid/{uhid}", controllers.PatientsGetByUHID(deps.PatientService, wr))
				r.Get("/{id}", controllers.PatientsGet(deps.PatientService, wr))
				r.Post("/", controllers.PatientsCreate(deps.PatientService, wr))
				r.Patch("/{id}", controllers.PatientsUpdate(deps.PatientService, wr))
				// Open to all staff; the controller downgrades ?hard=true
				// to a soft delete for non-admins.
				r.Delete("/{id}", controllers.PatientsDelete(deps.PatientService, wr))
			})

			r.Route("/wards", func(r chi.Router) {
				r.Get("/", controllers.WardsList(deps.BedService, wr))
				r.With(adminOnly).Post("/", controllers.WardsCreate(deps.BedService, wr))
				r.With(adminOnly).Patch("/{id}", controllers.WardsUpdate(deps.BedService, wr))
				r.With(adminOnly).Delete("/{id}", controllers.WardsDelete(deps.BedService, wr))
			})

			r.Route("/beds", func(r chi.Router) {
				r.Get("/", controllers.BedsList(deps.BedService, wr))
				r.With(adminOnly).Post("/", controllers.BedsCreate(deps.BedService, wr))
				r.Patch("/{id}", controllers.BedsUpdate(deps.BedService, wr))
				r.With(adminOnly).Delete("/{id}", controllers.BedsDelete(deps.BedService, wr))
			})

			r.With(adminOnly).Get("/audit-logs", controllers.AuditLogsList(deps.AuditQuery, wr))
		})
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	return r
}
