package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Logging
	LogLevel  string
	LogFormat string

	// Finance API
	FinanceBackend    string
	FinanceAPIURL     string
	FinanceAPIToken   string
	FinanceAPITimeout time.Duration
	RecentPerSource   int

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Worker
	AlertInterval  time.Duration
	ExportInterval time.Duration

	// HTTP protection
	RateLimitPerMinute int
}

const (
	BackendREST   = "rest"
	BackendMemory = "memory"
)

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		FinanceBackend:    getEnv("FINANCE_BACKEND", BackendMemory),
		FinanceAPIURL:     getEnv("FINANCE_API_URL", "http://localhost:5000/api"),
		FinanceAPIToken:   getEnv("FINANCE_API_TOKEN", ""),
		FinanceAPITimeout: getEnvDuration("FINANCE_API_TIMEOUT", 10*time.Second),
		RecentPerSource:   getEnvInt("RECENT_ACTIVITY_LIMIT", 5),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finboard"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "budget_alerts"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Snapshots"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		AlertInterval:  getEnvDuration("ALERT_INTERVAL", 5*time.Minute),
		ExportInterval: getEnvDuration("EXPORT_INTERVAL", 24*time.Hour),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Validate finance backend
	switch c.FinanceBackend {
	case BackendMemory:
	case BackendREST:
		if parsedURL, err := url.Parse(c.FinanceAPIURL); err != nil || c.FinanceAPIURL == "" {
			errors = append(errors, fmt.Sprintf("invalid finance API URL '%s'", c.FinanceAPIURL))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid finance API URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid finance backend '%s': must be one of [%s %s]", c.FinanceBackend, BackendREST, BackendMemory))
	}

	if c.FinanceAPITimeout < time.Second || c.FinanceAPITimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid finance API timeout %v: must be between 1s and 2m", c.FinanceAPITimeout))
	}

	if c.RecentPerSource < 1 || c.RecentPerSource > 50 {
		errors = append(errors, fmt.Sprintf("invalid recent activity limit %d: must be between 1 and 50", c.RecentPerSource))
	}

	// Validate AMQP URL if provided
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

	// Sheets export needs credentials once a spreadsheet is named
	if c.GoogleSpreadsheetID != "" {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when GOOGLE_SPREADSHEET_ID is set")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.AlertInterval < time.Second || c.AlertInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid alert interval %v: must be between 1 second and 24 hours", c.AlertInterval))
	}
	if c.ExportInterval < time.Minute || c.ExportInterval > 7*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be between 1 minute and 7 days", c.ExportInterval))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1", c.RateLimitPerMinute))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
