package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend string

	// SQLite
	SQLiteDBPath string

	// Remote ledger (PostgREST-style API)
	LedgerURL    string
	LedgerAPIKey string
	LedgerTable  string

	// Auth (GoTrue-style API)
	AuthURL    string
	AuthAPIKey string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Receipt extraction
	ExtractAPIKey  string
	ExtractBaseURL string
	ExtractModel   string

	// Sheets export (worker)
	ExportSpreadsheetID string
	ExportSheetName     string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend: getEnv("DATA_BACKEND", "memory"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/grana.db"),

		LedgerURL:    getEnv("LEDGER_URL", ""),
		LedgerAPIKey: getEnv("LEDGER_API_KEY", ""),
		LedgerTable:  getEnv("LEDGER_TABLE", "transactions"),

		AuthURL:    getEnv("AUTH_URL", ""),
		AuthAPIKey: getEnv("AUTH_API_KEY", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "grana"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		ExtractAPIKey:  getEnv("EXTRACT_API_KEY", ""),
		ExtractBaseURL: getEnv("EXTRACT_BASE_URL", ""),
		ExtractModel:   getEnv("EXTRACT_MODEL", ""),

		ExportSpreadsheetID: getEnv("EXPORT_SPREADSHEET_ID", ""),
		ExportSheetName:     getEnv("EXPORT_SHEET_NAME", "Ledger"),
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

	// Validate data backend
	validBackends := []string{"memory", "sqlite", "rest"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate remote ledger configuration if backend is rest
	if c.DataBackend == "rest" {
		if c.LedgerURL == "" {
			errors = append(errors, "LEDGER_URL is required when using rest backend")
		} else if parsedURL, err := url.Parse(c.LedgerURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid ledger URL '%s': %v", c.LedgerURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid ledger URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
		if c.LedgerAPIKey == "" {
			errors = append(errors, "LEDGER_API_KEY is required when using rest backend")
		}
		if c.LedgerTable == "" {
			errors = append(errors, "ledger table name cannot be empty when using rest backend")
		}
	}

	// Validate auth URL if provided
	if c.AuthURL != "" {
		if parsedURL, err := url.Parse(c.AuthURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid auth URL '%s': %v", c.AuthURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid auth URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
		if c.AuthAPIKey == "" {
			errors = append(errors, "AUTH_API_KEY cannot be empty when AUTH_URL is provided")
		}
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

	// Return combined errors
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
