package backend

import (
	"context"
	"path/filepath"
	"testing"
)

func TestCreateMemoryBackend(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if result.Ledger == nil {
		t.Fatal("CreateBackend() returned nil ledger")
	}
	if result.Cleanup != nil {
		t.Fatal("memory backend should not need cleanup")
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	factory := NewFactory(nil)

	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	result, err := factory.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: dbPath,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if result.Ledger == nil {
		t.Fatal("CreateBackend() returned nil ledger")
	}
	if result.Cleanup == nil {
		t.Fatal("sqlite backend must provide cleanup")
	}
	if err := result.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestCreateBackendRejectsInvalidType(t *testing.T) {
	factory := NewFactory(nil)

	if _, err := factory.CreateBackend(context.Background(), Config{Type: "postgres"}); err == nil {
		t.Fatal("expected error for unknown backend type")
	}
}

func TestCreateRESTBackendRequiresConfig(t *testing.T) {
	factory := NewFactory(nil)

	if _, err := factory.CreateBackend(context.Background(), Config{Type: RESTBackend}); err == nil {
		t.Fatal("expected error when ledger URL is missing")
	}
}
