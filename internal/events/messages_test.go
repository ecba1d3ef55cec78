package events

import (
	"testing"
	"time"

	"grana/internal/core"
)

func sample() core.Transaction {
	return core.Transaction{
		ID:          "tx-1",
		Type:        core.Expense,
		Date:        core.NewDate(2025, 5, 9),
		Description: "market",
		Amount:      core.Money{Cents: 1299},
		Category:    core.Food,
	}
}

func TestCreatedCarriesFullRecord(t *testing.T) {
	ev := Created("user-1", sample())
	if ev.Action != ActionCreated {
		t.Errorf("Action = %v, want %v", ev.Action, ActionCreated)
	}
	if ev.ID != "tx-1" || ev.UserID != "user-1" {
		t.Errorf("identity fields wrong: %+v", ev)
	}
	if ev.AmountCents != 1299 || ev.Date != "2025-05-09" || ev.Category != "Food" {
		t.Errorf("payload fields wrong: %+v", ev)
	}
	if ev.Timestamp.IsZero() || time.Since(ev.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestDeletedCarriesOnlyID(t *testing.T) {
	ev := Deleted("user-1", "tx-1")
	if ev.Action != ActionDeleted || ev.ID != "tx-1" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.AmountCents != 0 || ev.Description != "" {
		t.Errorf("deleted event should not carry a payload: %+v", ev)
	}
}

func TestEventJSONRoundTrip(t *testing.T) {
	ev := Updated("user-1", sample())
	raw, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	parsed, err := FromJSON(raw)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if parsed.Action != ev.Action || parsed.ID != ev.ID || parsed.AmountCents != ev.AmountCents {
		t.Errorf("round trip mismatch: %+v != %+v", parsed, ev)
	}
	if !parsed.Timestamp.Equal(ev.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", parsed.Timestamp, ev.Timestamp)
	}
}

func TestFromJSONInvalid(t *testing.T) {
	if _, err := FromJSON([]byte(`{"amount_cents": "NaN"}`)); err == nil {
		t.Error("FromJSON() should fail with invalid JSON")
	}
}
