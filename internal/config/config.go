package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultWasteAPIBaseURL = "http://34.101.242.121:3000/api/v1"

type Config struct {
	// HTTP Server
	Port string

	// Logging
	LogLevel  string
	LogFormat string

	// Waste records API
	WasteAPIBaseURL  string
	WasteAPIUsername string
	WasteAPIPassword string
	WasteAPITimeout  time.Duration

	// Charts
	ChartWidth  int
	ChartHeight int

	// Render history
	HistoryEnabled bool
	SQLiteDBPath   string

	// AMQP (empty URL disables render events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		WasteAPIBaseURL:  getEnv("WASTE_API_BASE_URL", DefaultWasteAPIBaseURL),
		WasteAPIUsername: getEnv("WASTE_API_USERNAME", "admin"),
		WasteAPIPassword: getEnv("WASTE_API_PASSWORD", "admin123"),
		WasteAPITimeout:  getEnvDuration("WASTE_API_TIMEOUT", 30*time.Second),

		ChartWidth:  getEnvInt("CHART_WIDTH", 1400),
		ChartHeight: getEnvInt("CHART_HEIGHT", 800),

		HistoryEnabled: getEnvBool("HISTORY_ENABLED", false),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/wastechart.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "wastechart"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "render_events"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug|info|warn|error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if c.WasteAPIBaseURL == "" {
		errors = append(errors, "waste API base URL cannot be empty")
	} else if u, err := url.ParseRequestURI(c.WasteAPIBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid waste API base URL '%s': %v", c.WasteAPIBaseURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid waste API base URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}
	if c.WasteAPIUsername == "" {
		errors = append(errors, "waste API username cannot be empty")
	}
	if c.WasteAPIPassword == "" {
		errors = append(errors, "waste API password cannot be empty")
	}
	if c.WasteAPITimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid waste API timeout %v: must be at least 1 second", c.WasteAPITimeout))
	}

	if c.ChartWidth < 400 || c.ChartWidth > 4000 {
		errors = append(errors, fmt.Sprintf("invalid chart width %d: must be between 400 and 4000", c.ChartWidth))
	}
	if c.ChartHeight < 300 || c.ChartHeight > 3000 {
		errors = append(errors, fmt.Sprintf("invalid chart height %d: must be between 300 and 3000", c.ChartHeight))
	}

	if c.HistoryEnabled && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when history is enabled")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateWorker checks the subset of settings the history worker depends on.
func (c *Config) ValidateWorker() error {
	var errors []string
	if c.AMQPURL == "" {
		errors = append(errors, "AMQP URL is required for the history worker")
	}
	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path is required for the history worker")
	}
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return c.Validate()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
