package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken      string
	DatabaseURL        string
	AdminTelegramID    int64
	LogLevel           string
	Environment        string
	CronSpecDueCheck   string // Daily scan for maintenance due today
	HTTPAddr           string
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	cfg, err := LoadPreview()
	if err != nil {
		return nil, err
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	return cfg, nil
}

// LoadPreview reads only the settings that need no secrets. The offline
// commands use it so they run without a database or bot token.
func LoadPreview() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.CronSpecDueCheck = os.Getenv("CRON_SPEC_DUE_CHECK")
	if cfg.CronSpecDueCheck == "" {
		cfg.CronSpecDueCheck = "0 8 * * *" // Default: 8:00 AM daily
	}
	if _, err := cron.ParseStandard(cfg.CronSpecDueCheck); err != nil {
		return nil, fmt.Errorf("invalid CRON_SPEC_DUE_CHECK: %w", err)
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	origins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if origins == "" {
		origins = "http://localhost:5173"
	}
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
