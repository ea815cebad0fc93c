package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL       string
	DebugQueryLogging bool

	// Auth0
	Auth0Domain   string
	Auth0Audience string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// Public base URL of the API, listed in the OpenAPI document when set
	PublicAPIURL string

	// Users whose email is listed here get the admin role on first login
	AdminEmails []string

	// Storage: S3 when a bucket is set, local disk otherwise
	S3        S3Config
	UploadDir string

	// Replay store for Idempotency-Key requests
	IdempotencyDBPath string

	RateLimitPerMinute int
	RateLimitBurst     int

	// How often payment-due reminders go out; zero disables the worker
	ReminderInterval time.Duration
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Enabled reports whether uploads go to S3
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DebugQueryLogging: getEnvBool("DEBUG_QUERY_LOGGING", false),
		Auth0Domain:       getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:     getEnv("AUTH0_AUDIENCE", ""),
		Port:              getEnv("PORT", "8080"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:               getEnv("ENV", "development"),
		PublicAPIURL:      strings.TrimSuffix(getEnv("PUBLIC_API_URL", ""), "/"),
		AdminEmails:       splitList(strings.ToLower(getEnv("ADMIN_EMAILS", ""))),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
		},
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		IdempotencyDBPath:  getEnv("IDEMPOTENCY_DB_PATH", "./idempotency.db"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 10),
		ReminderInterval:   getEnvDuration("REMINDER_INTERVAL", 24*time.Hour),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// IsAdminEmail reports whether email is in ADMIN_EMAILS, ignoring case
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth0Domain == "" {
		return fmt.Errorf("AUTH0_DOMAIN is required")
	}
	if c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_AUDIENCE is required")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	if c.ReminderInterval < 0 {
		return fmt.Errorf("REMINDER_INTERVAL must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
