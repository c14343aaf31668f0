package core

import "time"

// MonthlySummary aggregates one calendar month of a user's ledger.
// Balance here is the month's net (income - expense - savings), distinct
// from the user's all-time running balance.
type MonthlySummary struct {
	TotalIncome  Money
	TotalExpense Money
	TotalSavings Money
	Balance      Money
}

// SummarizeMonth folds txs down to totals for the calendar month
// containing now, with month boundaries evaluated in loc.
func SummarizeMonth(txs []Transaction, now time.Time, loc *time.Location) MonthlySummary {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	year, month := now.Year(), now.Month()

	var s MonthlySummary
	for _, t := range txs {
		d := time.UnixMilli(t.Date).In(loc)
		if d.Year() != year || d.Month() != month {
			continue
		}
		switch t.Type {
		case Income:
			s.TotalIncome.Cents += t.Amount.Cents
		case Expense:
			s.TotalExpense.Cents += t.Amount.Cents
		case Savings:
			s.TotalSavings.Cents += t.Amount.Cents
		}
	}
	s.Balance.Cents = s.TotalIncome.Cents - s.TotalExpense.Cents - s.TotalSavings.Cents
	return s
}
