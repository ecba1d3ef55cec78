package backend

import (
	"context"
	"fmt"
	"log/slog"

	"grana/internal/ledger/memory"
	"grana/internal/ledger/rest"
	"grana/internal/ledger/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case RESTBackend:
		return f.createRESTBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	store, err := sqlite.New(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite ledger: %w", err)
	}

	f.logger.Info("Initialized SQLite ledger backend", "db_path", config.SQLiteDBPath)

	return &Result{
		Ledger:  store,
		Cleanup: store.Close,
	}, nil
}

func (f *DefaultFactory) createRESTBackend(config Config) (*Result, error) {
	client, err := rest.New(config.LedgerURL, config.LedgerAPIKey, config.LedgerTable)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote ledger client: %w", err)
	}

	f.logger.Info("Initialized remote ledger backend",
		"url", config.LedgerURL,
		"table", config.LedgerTable)

	return &Result{
		Ledger:  client,
		Cleanup: nil, // No cleanup needed for the HTTP client
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*Result, error) {
	store := memory.New()

	f.logger.Info("Initialized memory ledger backend")

	return &Result{
		Ledger:  store,
		Cleanup: nil, // No cleanup needed for memory backend
	}, nil
}
