// Package store maintains the local mirror of a user's transactions and
// keeps it consistent with the remote ledger. The mirror only ever reflects
// confirmed state: every mutation is one remote round trip, applied locally
// after the ledger accepts it.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"grana/internal/core"
	"grana/internal/events"
	"grana/internal/ledger"
	"grana/internal/session"
)

var ErrNoSession = errors.New("no active session")

// EventSink receives confirmed mutations for downstream consumers. Publish
// failures never fail the mutation itself.
type EventSink interface {
	Publish(ctx context.Context, ev events.TransactionEvent) error
}

type Store struct {
	ledger ledger.Store
	sink   EventSink // optional

	mu   sync.Mutex
	sess *session.Session
	txs  []core.Transaction

	// loadSeq increases on every session transition and every Load. A load
	// result is applied only while its recorded value is still current, so a
	// superseded load can never clobber a newer session's collection.
	loadSeq uint64
}

func New(l ledger.Store, sink EventSink) *Store {
	return &Store{ledger: l, sink: sink}
}

// Watch applies the provider's current session and reloads or clears on
// every subsequent change. The returned function unsubscribes.
func (s *Store) Watch(ctx context.Context, p session.Provider) func() {
	apply := func(sess *session.Session) {
		if err := s.SetSession(ctx, sess); err != nil {
			slog.ErrorContext(ctx, "Session change load failed", "error", err)
		}
	}
	apply(p.Current())
	return p.OnChange(apply)
}

// SetSession installs a session and reloads the collection from the ledger.
// A nil session clears the collection. Either way any in-flight load is
// invalidated first.
func (s *Store) SetSession(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	s.loadSeq++
	s.sess = sess
	s.txs = nil
	s.mu.Unlock()

	if sess == nil {
		return nil
	}
	return s.Load(ctx)
}

// Load fetches all of the session owner's transactions, date descending, and
// replaces the collection wholesale. On failure the collection stays empty
// and the error is retryable via another Load. A Load superseded by a newer
// one (or by a session change) discards its result.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	sess := s.sess
	if sess == nil {
		s.mu.Unlock()
		return ErrNoSession
	}
	s.loadSeq++
	token := s.loadSeq
	s.mu.Unlock()

	txs, err := s.ledger.List(ctx, sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.loadSeq {
		slog.DebugContext(ctx, "Discarding superseded load result")
		return nil
	}
	if err != nil {
		s.txs = nil
		return fmt.Errorf("load transactions: %w", err)
	}
	s.txs = txs
	return nil
}

// Add persists a draft and prepends the confirmed record to the head of the
// collection. No re-sort happens: a back-dated entry stays at the head until
// the next Load. On failure the collection is untouched.
func (s *Store) Add(ctx context.Context, d core.Draft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}
	sess, token := s.snapshot()
	if sess == nil {
		return core.Transaction{}, ErrNoSession
	}

	tx, err := s.ledger.Insert(ctx, sess, d)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.mu.Lock()
	if token == s.loadSeq {
		s.txs = append([]core.Transaction{tx}, s.txs...)
	}
	s.mu.Unlock()

	s.publish(ctx, events.Created(sess.UserID, tx))
	return tx, nil
}

// Update replaces all mutable fields of the row with the transaction's id.
// The confirmed record replaces the local entry in place; when no local
// entry matches the id, the collection is left alone.
func (s *Store) Update(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	sess, token := s.snapshot()
	if sess == nil {
		return core.Transaction{}, ErrNoSession
	}

	confirmed, err := s.ledger.Update(ctx, sess, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.mu.Lock()
	if token == s.loadSeq {
		for i := range s.txs {
			if s.txs[i].ID == confirmed.ID {
				s.txs[i] = confirmed
				break
			}
		}
	}
	s.mu.Unlock()

	s.publish(ctx, events.Updated(sess.UserID, confirmed))
	return confirmed, nil
}

// Delete removes the row from the ledger, then filters it out locally.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return core.ErrMissingID
	}
	sess, token := s.snapshot()
	if sess == nil {
		return ErrNoSession
	}

	if err := s.ledger.Delete(ctx, sess, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.mu.Lock()
	if token == s.loadSeq {
		kept := s.txs[:0]
		for _, tx := range s.txs {
			if tx.ID != id {
				kept = append(kept, tx)
			}
		}
		s.txs = kept
	}
	s.mu.Unlock()

	s.publish(ctx, events.Deleted(sess.UserID, id))
	return nil
}

// Transactions returns a copy of the current collection, newest first.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Summary recomputes the derived totals from the current collection.
func (s *Store) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Summarize(s.txs)
}

func (s *Store) snapshot() (*session.Session, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess, s.loadSeq
}

func (s *Store) publish(ctx context.Context, ev events.TransactionEvent) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"action", ev.Action,
			"id", ev.ID,
			"error", err)
	}
}
