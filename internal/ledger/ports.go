// Package ledger defines the port to the remote table holding a user's
// transactions.
package ledger

import (
	"context"
	"errors"

	"grana/internal/core"
	"grana/internal/session"
)

// ErrNotFound reports that no row owned by the session matches the given id.
var ErrNotFound = errors.New("transaction not found")

// Store is the authoritative ledger of a user's transactions. Row ownership
// is enforced by the store itself; every call carries the session whose rows
// are visible and mutable.
type Store interface {
	// List returns all of the session owner's transactions ordered by date
	// descending. Ties keep store-assigned order; callers never re-sort.
	List(ctx context.Context, s *session.Session) ([]core.Transaction, error)

	// Insert persists a draft and returns the confirmed record carrying its
	// store-assigned id.
	Insert(ctx context.Context, s *session.Session, d core.Draft) (core.Transaction, error)

	// Update replaces all mutable fields of the row with the transaction's id
	// and returns the confirmed record.
	Update(ctx context.Context, s *session.Session, t core.Transaction) (core.Transaction, error)

	// Delete removes the row with the given id.
	Delete(ctx context.Context, s *session.Session, id string) error
}

// Cleanup releases resources held by a store, where applicable.
type Cleanup func() error
