package core

// Summary holds the totals derived from a transaction collection.
type Summary struct {
	Income  Money
	Expense Money
	Balance Money
}

// Summarize folds a collection into its totals. It is a pure linear pass:
// income sums amounts of income entries, expense sums the rest, and the
// balance is their difference. An empty collection yields all zeros.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case Income:
			s.Income.Cents += t.Amount.Cents
		case Expense:
			s.Expense.Cents += t.Amount.Cents
		}
	}
	s.Balance.Cents = s.Income.Cents - s.Expense.Cents
	return s
}
