package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/logging"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Report    ReportConfig
	Source    SourceConfig
	Sync      SyncConfig
	Selection SelectionConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level slog.Level
	JSON  bool
}

// ReportConfig holds defaults for rendered reports
type ReportConfig struct {
	Currency string // ISO 4217 code used when a portfolio has none
}

// SourceConfig configures the client for the external holdings data source.
// HoldingsPath and GainsPath are JSONPath expressions locating each payload
// inside the source's response body.
type SourceConfig struct {
	Timeout      time.Duration
	HoldingsPath string
	GainsPath    string
}

// SyncConfig holds the cron schedule for pulling portfolios from their source.
// An empty schedule disables scheduled syncing.
type SyncConfig struct {
	Schedule string
}

// SelectionConfig holds selection session and token configuration
type SelectionConfig struct {
	TTL           time.Duration // idle time after which a session is evicted
	SweepSchedule string        // cron schedule for evicting idle sessions
	TokenKey      string        // base64 fernet key; generated at startup when empty
	TokenTTL      time.Duration // maximum age of an accepted selection token
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	level, err := logging.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	sourceTimeout, err := getEnvDuration("SOURCE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	selectionTTL, err := getEnvDuration("SELECTION_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := getEnvDuration("SELECTION_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/harvest.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
		Log: LogConfig{
			Level: level,
			JSON:  getEnv("LOG_FORMAT", "text") == "json",
		},
		Report: ReportConfig{
			Currency: strings.ToUpper(getEnv("REPORT_CURRENCY", "INR")),
		},
		Source: SourceConfig{
			Timeout:      sourceTimeout,
			HoldingsPath: getEnv("SOURCE_HOLDINGS_PATH", "$"),
			GainsPath:    getEnv("SOURCE_GAINS_PATH", "$.capitalGains"),
		},
		Sync: SyncConfig{
			Schedule: getEnv("SYNC_SCHEDULE", ""),
		},
		Selection: SelectionConfig{
			TTL:           selectionTTL,
			SweepSchedule: getEnv("SELECTION_SWEEP_SCHEDULE", "@every 1m"),
			TokenKey:      getEnv("SELECTION_TOKEN_KEY", ""),
			TokenTTL:      tokenTTL,
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration parses a time.Duration environment variable
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

// getEnvList splits a comma-separated environment variable
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
