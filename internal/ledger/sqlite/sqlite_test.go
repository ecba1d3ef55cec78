package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"grana/internal/core"
	"grana/internal/session"
)

var ctx = context.Background()

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sess(user string) *session.Session {
	return &session.Session{UserID: user, AccessToken: "t"}
}

func draft(desc string, day int, cents int64) core.Draft {
	return core.Draft{
		Type:        core.Expense,
		Date:        core.NewDate(2025, 4, day),
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Category:    core.Food,
	}
}

func TestInsertAndList(t *testing.T) {
	s := newStore(t)

	first, err := s.Insert(ctx, sess("u1"), draft("older", 1, 100))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if _, err := s.Insert(ctx, sess("u1"), draft("newer", 20, 200)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.Insert(ctx, sess("u2"), draft("foreign", 25, 300)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.List(ctx, sess("u1"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Description != "newer" || got[1].Description != "older" {
		t.Fatalf("expected date-descending order, got %q then %q", got[0].Description, got[1].Description)
	}
}

func TestListTiesKeepInsertOrder(t *testing.T) {
	s := newStore(t)
	for _, desc := range []string{"a", "b", "c"} {
		if _, err := s.Insert(ctx, sess("u1"), draft(desc, 10, 100)); err != nil {
			t.Fatalf("insert %s: %v", desc, err)
		}
	}
	got, err := s.List(ctx, sess("u1"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].Description != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, got[i].Description)
		}
	}
}

func TestUpdate(t *testing.T) {
	s := newStore(t)
	tx, err := s.Insert(ctx, sess("u1"), draft("bus", 5, 480))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	tx.Description = "train"
	tx.Amount = core.Money{Cents: 950}
	updated, err := s.Update(ctx, sess("u1"), tx)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "train" {
		t.Fatalf("update mismatch: %+v", updated)
	}

	got, _ := s.List(ctx, sess("u1"))
	if len(got) != 1 || got[0].Amount.Cents != 950 {
		t.Fatalf("update not persisted: %+v", got)
	}

	if _, err := s.Update(ctx, sess("u2"), tx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign row, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	tx, err := s.Insert(ctx, sess("u1"), draft("x", 1, 100))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.Delete(ctx, sess("u2"), tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign row, got %v", err)
	}
	if err := s.Delete(ctx, sess("u1"), tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, sess("u1"), tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestInsertRejectsInvalidDraft(t *testing.T) {
	s := newStore(t)
	bad := draft("x", 1, 0)
	if _, err := s.Insert(ctx, sess("u1"), bad); err == nil {
		t.Fatalf("expected validation error")
	}
}
