package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateParse(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2025-03-09" {
		t.Fatalf("round trip mismatch: %s", d.String())
	}
	if _, err := ParseDate("09/03/2025"); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected error for empty date")
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, 1, 31)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-01-31"` {
		t.Fatalf("unexpected encoding: %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -500}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestTypeAndCategoryValidate(t *testing.T) {
	if err := Income.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := Type("transfer").Validate(); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	for _, c := range Categories() {
		if err := c.Validate(); err != nil {
			t.Fatalf("category %s: %v", c, err)
		}
	}
	if err := Category("Groceries").Validate(); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestDraftValidate(t *testing.T) {
	good := Draft{
		Type:        Expense,
		Date:        NewDate(2025, 1, 1),
		Description: "market",
		Amount:      Money{Cents: 1250},
		Category:    Food,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Draft{
		{Type: "t", Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}, Category: Food},
		{Type: Expense, Date: Date{Time: time.Time{}}, Description: "a", Amount: Money{Cents: 1}, Category: Food},
		{Type: Expense, Date: NewDate(2025, 1, 1), Description: "  ", Amount: Money{Cents: 1}, Category: Food},
		{Type: Expense, Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 0}, Category: Food},
		{Type: Expense, Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: -5}, Category: Food},
		{Type: Expense, Date: NewDate(2025, 1, 1), Description: "a", Amount: Money{Cents: 1}, Category: "x"},
	}
	for i, dr := range bads {
		if err := dr.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	tx := Draft{
		Type:        Income,
		Date:        NewDate(2025, 2, 1),
		Description: "salary",
		Amount:      Money{Cents: 100000},
		Category:    Salary,
	}.WithID("abc-123")
	if err := tx.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	tx.ID = ""
	if err := tx.Validate(); err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestDraftRoundTrip(t *testing.T) {
	dr := Draft{
		Type:        Expense,
		Date:        NewDate(2025, 6, 15),
		Description: "bus",
		Amount:      Money{Cents: 480},
		Category:    Transport,
	}
	if got := dr.WithID("x").Draft(); got != dr {
		t.Fatalf("draft round trip mismatch: %+v != %+v", got, dr)
	}
}
