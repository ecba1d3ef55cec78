package memory

import (
	"context"
	"errors"
	"testing"

	"grana/internal/core"
	"grana/internal/session"
)

var ctx = context.Background()

func sess(user string) *session.Session {
	return &session.Session{UserID: user, AccessToken: "t"}
}

func draft(desc string, day int) core.Draft {
	return core.Draft{
		Type:        core.Expense,
		Date:        core.NewDate(2025, 1, day),
		Description: desc,
		Amount:      core.Money{Cents: 100},
		Category:    core.Food,
	}
}

func TestInsertAssignsID(t *testing.T) {
	s := New()
	tx, err := s.Insert(ctx, sess("u1"), draft("coffee", 1))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if tx.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if tx.Description != "coffee" {
		t.Fatalf("payload not preserved: %+v", tx)
	}
}

func TestListOrderAndOwnership(t *testing.T) {
	s := New()
	if _, err := s.Insert(ctx, sess("u1"), draft("old", 1)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.Insert(ctx, sess("u1"), draft("new", 20)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.Insert(ctx, sess("u1"), draft("tie-a", 10)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.Insert(ctx, sess("u1"), draft("tie-b", 10)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.Insert(ctx, sess("u2"), draft("other user", 30)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.List(ctx, sess("u1"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var descs []string
	for _, tx := range got {
		descs = append(descs, tx.Description)
	}
	want := []string{"new", "tie-a", "tie-b", "old"}
	if len(descs) != len(want) {
		t.Fatalf("expected %v, got %v", want, descs)
	}
	for i := range want {
		if descs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, descs)
		}
	}
}

func TestUpdateAndDelete(t *testing.T) {
	s := New()
	tx, err := s.Insert(ctx, sess("u1"), draft("bus", 5))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	tx.Description = "train"
	updated, err := s.Update(ctx, sess("u1"), tx)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "train" {
		t.Fatalf("update not applied: %+v", updated)
	}

	// Another user cannot touch the row.
	if _, err := s.Update(ctx, sess("u2"), tx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign row, got %v", err)
	}
	if err := s.Delete(ctx, sess("u2"), tx.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign row, got %v", err)
	}

	if err := s.Delete(ctx, sess("u1"), tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := s.List(ctx, sess("u1"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty ledger, got %d rows", len(got))
	}
}

func TestFailNext(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	s.FailNext(boom)
	if _, err := s.Insert(ctx, sess("u1"), draft("x", 1)); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	// Failure is consumed; the next call succeeds.
	if _, err := s.Insert(ctx, sess("u1"), draft("x", 1)); err != nil {
		t.Fatalf("expected success after injected failure, got %v", err)
	}
}

func TestInsertValidates(t *testing.T) {
	s := New()
	bad := draft("x", 1)
	bad.Amount = core.Money{Cents: 0}
	if _, err := s.Insert(ctx, sess("u1"), bad); err == nil {
		t.Fatalf("expected validation error")
	}
}
