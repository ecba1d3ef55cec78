package backend

import (
	"fmt"

	"grana/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		LedgerURL:    appConfig.LedgerURL,
		LedgerAPIKey: appConfig.LedgerAPIKey,
		LedgerTable:  appConfig.LedgerTable,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}

	case RESTBackend:
		if c.LedgerURL == "" {
			return fmt.Errorf("ledger URL is required for rest backend")
		}
		if c.LedgerAPIKey == "" {
			return fmt.Errorf("ledger API key is required for rest backend")
		}
		if c.LedgerTable == "" {
			return fmt.Errorf("ledger table name is required for rest backend")
		}

	case MemoryBackend:
		// Memory backend doesn't require additional configuration
	}

	return nil
}
