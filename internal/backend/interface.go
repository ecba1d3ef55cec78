package backend

import (
	"context"

	"grana/internal/ledger"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the ledger store and optional cleanup function
type Result struct {
	Ledger  ledger.Store
	Cleanup CleanupFunc
}

// Factory creates ledger backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Remote ledger specific
	LedgerURL    string
	LedgerAPIKey string
	LedgerTable  string
}

// BackendType represents the type of ledger backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	RESTBackend   BackendType = "rest"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, RESTBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
