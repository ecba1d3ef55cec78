// Package memory implements the ledger store as a mutex-guarded slice.
// It backs tests and single-process deployments that do not need
// persistence.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"grana/internal/core"
	"grana/internal/ledger"
	"grana/internal/session"
)

var ErrNotFound = ledger.ErrNotFound

type ownedRow struct {
	owner string
	seq   int
	tx    core.Transaction
}

type Store struct {
	mu   sync.Mutex
	rows []ownedRow
	seq  int

	// failNext, when set, makes the next operation fail with this error.
	failNext error
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// FailNext injects a failure into the next call. Test hook.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	s.failNext = err
	s.mu.Unlock()
}

func (s *Store) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *Store) List(_ context.Context, sess *session.Session) ([]core.Transaction, error) {
	if sess == nil {
		return nil, errors.New("no session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	var owned []ownedRow
	for _, r := range s.rows {
		if r.owner == sess.UserID {
			owned = append(owned, r)
		}
	}
	// Date descending; ties keep insertion order, mirroring row order in a
	// real table.
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].tx.Date.After(owned[j].tx.Date.Time)
	})

	out := make([]core.Transaction, len(owned))
	for i, r := range owned {
		out[i] = r.tx
	}
	return out, nil
}

func (s *Store) Insert(_ context.Context, sess *session.Session, d core.Draft) (core.Transaction, error) {
	if sess == nil {
		return core.Transaction{}, errors.New("no session")
	}
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return core.Transaction{}, err
	}

	tx := d.WithID(uuid.NewString())
	s.seq++
	s.rows = append(s.rows, ownedRow{owner: sess.UserID, seq: s.seq, tx: tx})
	return tx, nil
}

func (s *Store) Update(_ context.Context, sess *session.Session, t core.Transaction) (core.Transaction, error) {
	if sess == nil {
		return core.Transaction{}, errors.New("no session")
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return core.Transaction{}, err
	}

	for i, r := range s.rows {
		if r.owner == sess.UserID && r.tx.ID == t.ID {
			s.rows[i].tx = t
			return t, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

func (s *Store) Delete(_ context.Context, sess *session.Session, id string) error {
	if sess == nil {
		return errors.New("no session")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}

	for i, r := range s.rows {
		if r.owner == sess.UserID && r.tx.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
