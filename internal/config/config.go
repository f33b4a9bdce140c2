package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName     string
	AppEnv      string
	AppURL      string
	Port        string
	AppTimezone string
	Origin      string // CORS origins, comma separated

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver         string
	DBConnection     string
	DBMigrateOnStart bool

	// Security
	JWTSecret       string
	JWTExpiry       time.Duration
	DoctorJWTExpiry time.Duration
	AdminToken      string

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Observability (optional)
	SentryDSN string

	// Storage: S3-compatible when S3_BUCKET is set, local disk otherwise
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PublicURL string // Optional: CDN or public bucket URL
	UploadDir   string

	// Jobs
	ConsultationSweepInterval time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	port := envString("PORT", "4000")

	cfg := &Config{
		// Application
		AppName:     envString("APP_NAME", "FitBloom"),
		AppEnv:      envRequired("APP_ENV"), // 'development' or 'production'
		AppURL:      envString("APP_URL", "http://localhost:"+port),
		Port:        port,
		AppTimezone: envString("APP_TIMEZONE", "UTC"),
		Origin:      envString("ORIGIN", "*"),

		// Database
		DBDriver:         envString("DB_DRIVER", "sqlite"),
		DBConnection:     envString("DB_CONNECTION", "./data/fitbloom.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),
		DBMigrateOnStart: envBool("DB_MIGRATE_ON_START", true),

		// Security
		JWTSecret:       envRequired("JWT_SECRET"),
		JWTExpiry:       envDuration("JWT_EXPIRY", 168*time.Hour),        // 7 days
		DoctorJWTExpiry: envDuration("DOCTOR_JWT_EXPIRY", 720*time.Hour), // 30 days
		AdminToken:      envString("ADMIN_TOKEN", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "FitBloom <noreply@example.com>"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3PublicURL: envString("S3_PUBLIC_URL", ""),
		UploadDir:   envString("UPLOAD_DIR", "./data/uploads"),

		// Jobs
		ConsultationSweepInterval: envDuration("CONSULTATION_SWEEP_INTERVAL", 15*time.Minute),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows email to fall back to log mode.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Location returns the practice time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		slog.Warn("config invalid time zone, using UTC", "key", "APP_TIMEZONE", "value", c.AppTimezone)
		return time.UTC
	}
	return loc
}

// Sanitized returns a copy of the config without secrets or credentials.
// Safe to log.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:     c.AppName,
		AppEnv:      c.AppEnv,
		AppURL:      c.AppURL,
		Port:        c.Port,
		AppTimezone: c.AppTimezone,
		Origin:      c.Origin,

		DBDriver:         c.DBDriver,
		DBMigrateOnStart: c.DBMigrateOnStart,

		JWTExpiry:       c.JWTExpiry,
		DoctorJWTExpiry: c.DoctorJWTExpiry,

		EmailFrom: c.EmailFrom,

		S3Region:    c.S3Region,
		S3Bucket:    c.S3Bucket,
		S3Endpoint:  c.S3Endpoint,
		S3PublicURL: c.S3PublicURL,
		UploadDir:   c.UploadDir,

		ConsultationSweepInterval: c.ConsultationSweepInterval,
	}
}
