package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "jeeva"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	// PlaceholderJWTSecret ships in .env.example for local bring-up and is
	// refused outright in production.
	PlaceholderJWTSecret = "jeevaraksha-secret-key-change-in-production"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Lockout       LockoutConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if cfg.App.IsProd() && cfg.JWT.Secret == PlaceholderJWTSecret {
		return nil, fmt.Errorf("placeholder jwt secret is not allowed in production")
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"JEEVA_APP_ENV" default:"development"`
	Port         string `envconfig:"JEEVA_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"JEEVA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JEEVA_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"JEEVA_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"JEEVA_DB_DSN"`

	LegacyHost     string `envconfig:"JEEVA_DB_HOST" default:"localhost"`
	LegacyPort     int    `envconfig:"JEEVA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"JEEVA_DB_USER" default:"postgres"`
	LegacyPassword string `envconfig:"JEEVA_DB_PASSWORD" default:"postgres"`
	LegacyName     string `envconfig:"JEEVA_DB_NAME" default:"jeeva_raksha"`
	LegacySSLMode  string `envconfig:"JEEVA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"JEEVA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JEEVA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JEEVA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JEEVA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	AcquireTimeout  time.Duration `envconfig:"JEEVA_DB_ACQUIRE_TIMEOUT" default:"5s"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN or discrete host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.LegacyUser),
		url.QueryEscape(d.LegacyPassword),
		d.LegacyHost,
		d.LegacyPort,
		d.LegacyName,
		d.LegacySSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"JEEVA_REDIS_URL"`
	Address      string        `envconfig:"JEEVA_REDIS_ADDR"`
	Password     string        `envconfig:"JEEVA_REDIS_PASSWORD"`
	DB           int           `envconfig:"JEEVA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JEEVA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JEEVA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JEEVA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JEEVA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JEEVA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all. The API
// degrades to no auth rate limiting when it is absent.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"JEEVA_JWT_SECRET" default:"jeevaraksha-secret-key-change-in-production"`
	Issuer            string `envconfig:"JEEVA_JWT_ISSUER" default:"jeeva-raksha"`
	ExpirationMinutes int    `envconfig:"JEEVA_JWT_EXPIRATION_MINUTES" default:"480"`
}

// TokenTTL returns the access token lifetime (8 hours by default).
func (j JWTConfig) TokenTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"JEEVA_BCRYPT_COST" default:"10"`
}

type LockoutConfig struct {
	MaxAttempts  int           `envconfig:"JEEVA_LOCKOUT_MAX_ATTEMPTS" default:"5"`
	LockDuration time.Duration `envconfig:"JEEVA_LOCKOUT_DURATION" default:"15m"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"JEEVA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"JEEVA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"10"`
	LoginIPLimit    int           `envconfig:"JEEVA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"JEEVA_AUTO_MIGRATE" default:"false"`
}
