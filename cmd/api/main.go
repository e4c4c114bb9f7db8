package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jeevaraksha/hospital-api/api/routes"
	"github.com/jeevaraksha/hospital-api/internal/audit"
	"github.com/jeevaraksha/hospital-api/internal/auth"
	"github.com/jeevaraksha/hospital-api/internal/beds"
	"github.com/jeevaraksha/hospital-api/internal/loginlog"
	"github.com/jeevaraksha/hospital-api/internal/patients"
	"github.com/jeevaraksha/hospital-api/internal/users"
	"github.com/jeevaraksha/hospital-api/pkg/config"
	"github.com/jeevaraksha/hospital-api/pkg/db"
	"github.com/jeevaraksha/hospital-api/pkg/logger"
	"github.com/jeevaraksha/hospital-api/pkg/metrics"
	"github.com/jeevaraksha/hospital-api/pkg/migrate"
	"github.com/jeevaraksha/hospital-api/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	authMetrics := metrics.NewAuthMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	loginRecorder := loginlog.NewRecorder(dbClient.DB(), logg)
	auditRecorder := audit.NewRecorder(dbClient.DB(), authMetrics)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:      userRepo,
		LoginRecorder: loginRecorder,
		TxRunner:      dbClient,
		JWTConfig:     cfg.JWT,
		LockoutConfig: cfg.Lockout,
		Metrics:       authMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	patientService := patients.NewService(patients.NewRepository(dbClient.DB()), dbClient, auditRecorder, nil)
	bedService := beds.NewService(beds.NewRepository(dbClient.DB()), dbClient, auditRecorder)
	auditQuery := audit.NewQueryService(dbClient.DB())

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			Registry:       registry,
			AuthService:    authService,
			PatientService: patientService,
			BedService:     bedService,
			AuditQuery:     auditQuery,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
