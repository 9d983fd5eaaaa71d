package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/proservis")
	t.Setenv("ADMIN_TELEGRAM_ID", "42")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CRON_SPEC_DUE_CHECK", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.AdminTelegramID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0 8 * * *", cfg.CronSpecDueCheck)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("CRON_SPEC_DUE_CHECK", "30 6 * * 1-5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "30 6 * * 1-5", cfg.CronSpecDueCheck)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_MissingOrInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing token", "TELEGRAM_TOKEN", ""},
		{"missing database", "DATABASE_URL", ""},
		{"missing admin", "ADMIN_TELEGRAM_ID", ""},
		{"non-numeric admin", "ADMIN_TELEGRAM_ID", "admin"},
		{"bad cron spec", "CRON_SPEC_DUE_CHECK", "every morning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadPreview_NeedsNoSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_TELEGRAM_ID", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CRON_SPEC_DUE_CHECK", "")

	cfg, err := LoadPreview()
	require.NoError(t, err)
	assert.Empty(t, cfg.TelegramToken)
	assert.Equal(t, "info", cfg.LogLevel)
}
