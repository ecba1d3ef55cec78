package core

import "testing"

func tx(typ Type, cents int64) Transaction {
	return Transaction{
		ID:          "id",
		Type:        typ,
		Date:        NewDate(2025, 1, 1),
		Description: "d",
		Amount:      Money{Cents: cents},
		Category:    Other,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Income.Cents != 0 || s.Expense.Cents != 0 || s.Balance.Cents != 0 {
		t.Fatalf("expected zeros, got %+v", s)
	}
}

func TestSummarizeMixed(t *testing.T) {
	txs := []Transaction{
		tx(Income, 100000),
		tx(Expense, 30000),
		tx(Expense, 15000),
	}
	s := Summarize(txs)
	if s.Income.Cents != 100000 {
		t.Fatalf("income: expected 100000, got %d", s.Income.Cents)
	}
	if s.Expense.Cents != 45000 {
		t.Fatalf("expense: expected 45000, got %d", s.Expense.Cents)
	}
	if s.Balance.Cents != 55000 {
		t.Fatalf("balance: expected 55000, got %d", s.Balance.Cents)
	}
}

func TestSummarizeBalanceIdentity(t *testing.T) {
	collections := [][]Transaction{
		nil,
		{tx(Income, 1)},
		{tx(Expense, 1)},
		{tx(Income, 500), tx(Income, 250)},
		{tx(Income, 999), tx(Expense, 1000)},
		{tx(Income, 1), tx(Expense, 2), tx(Income, 3), tx(Expense, 4)},
	}
	for i, txs := range collections {
		s := Summarize(txs)
		if s.Balance.Cents != s.Income.Cents-s.Expense.Cents {
			t.Fatalf("case %d: balance identity broken: %+v", i, s)
		}
		if s.Income.Cents < 0 || s.Expense.Cents < 0 {
			t.Fatalf("case %d: negative total: %+v", i, s)
		}
	}
}

func TestSummarizeIgnoresUnknownType(t *testing.T) {
	// Defensive: rows with an unknown type contribute to neither total.
	s := Summarize([]Transaction{tx("transfer", 100)})
	if s.Income.Cents != 0 || s.Expense.Cents != 0 || s.Balance.Cents != 0 {
		t.Fatalf("expected zeros, got %+v", s)
	}
}
