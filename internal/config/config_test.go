package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/committee")
	t.Setenv("AUTH0_DOMAIN", "example.auth0.com")
	t.Setenv("AUTH0_AUDIENCE", "https://api.example.com")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.DebugQueryLogging)
	assert.False(t, cfg.S3.Enabled())
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Empty(t, cfg.AdminEmails)
	assert.Equal(t, 24*time.Hour, cfg.ReminderInterval)
	assert.Empty(t, cfg.PublicAPIURL)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_EMAILS", "Boss@Example.com, ops@example.com ,")
	t.Setenv("DEBUG_QUERY_LOGGING", "true")
	t.Setenv("S3_BUCKET", "committee-files")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("ENV", "production")
	t.Setenv("REMINDER_INTERVAL", "0s")
	t.Setenv("PUBLIC_API_URL", "https://api.example.com/api/v1/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"boss@example.com", "ops@example.com"}, cfg.AdminEmails)
	assert.True(t, cfg.IsAdminEmail("BOSS@example.com "))
	assert.False(t, cfg.IsAdminEmail("someone@example.com"))
	assert.True(t, cfg.DebugQueryLogging)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.True(t, cfg.IsProduction())
	assert.Zero(t, cfg.ReminderInterval)
	assert.Equal(t, "https://api.example.com/api/v1", cfg.PublicAPIURL)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH0_DOMAIN", "example.auth0.com")
	t.Setenv("AUTH0_AUDIENCE", "aud")

	_, err := Load()
	assert.EqualError(t, err, "DATABASE_URL is required")
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_BURST", "-1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_NegativeReminderInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("REMINDER_INTERVAL", "-1h")

	_, err := Load()
	assert.EqualError(t, err, "REMINDER_INTERVAL must not be negative")
}
