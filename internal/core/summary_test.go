package core

import (
	"testing"
	"time"
)

func TestSummarizeMonth(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, loc)
	inMonth := time.Date(2025, time.March, 2, 0, 0, 0, 0, loc).UnixMilli()
	priorMonth := time.Date(2025, time.February, 27, 0, 0, 0, 0, loc).UnixMilli()
	priorYear := time.Date(2024, time.March, 2, 0, 0, 0, 0, loc).UnixMilli()

	txs := []Transaction{
		{Type: Income, Amount: Money{Cents: 500000}, Date: inMonth},
		{Type: Expense, Amount: Money{Cents: 120000}, Date: inMonth},
		{Type: Savings, Amount: Money{Cents: 50000}, Date: inMonth},
		{Type: Income, Amount: Money{Cents: 999900}, Date: priorMonth},
		{Type: Expense, Amount: Money{Cents: 100}, Date: priorYear},
	}

	s := SummarizeMonth(txs, now, loc)
	if s.TotalIncome.Cents != 500000 {
		t.Errorf("income = %d, want 500000", s.TotalIncome.Cents)
	}
	if s.TotalExpense.Cents != 120000 {
		t.Errorf("expense = %d, want 120000", s.TotalExpense.Cents)
	}
	if s.TotalSavings.Cents != 50000 {
		t.Errorf("savings = %d, want 50000", s.TotalSavings.Cents)
	}
	if s.Balance.Cents != 330000 {
		t.Errorf("balance = %d, want 330000", s.Balance.Cents)
	}
}

func TestSummarizeMonthEmpty(t *testing.T) {
	s := SummarizeMonth(nil, time.Now(), time.UTC)
	if s.Balance.Cents != 0 || s.TotalIncome.Cents != 0 {
		t.Fatalf("empty ledger must summarize to zero, got %+v", s)
	}
}

func TestSummarizeMonthTimezoneBoundary(t *testing.T) {
	// 2025-03-01 02:00 UTC is still February in UTC-5.
	utc := time.UTC
	westOfGreenwich := time.FixedZone("UTC-5", -5*60*60)
	edge := time.Date(2025, time.March, 1, 2, 0, 0, 0, utc).UnixMilli()
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, utc)

	txs := []Transaction{{Type: Income, Amount: Money{Cents: 100}, Date: edge}}

	if s := SummarizeMonth(txs, now, utc); s.TotalIncome.Cents != 100 {
		t.Errorf("UTC: income = %d, want 100", s.TotalIncome.Cents)
	}
	if s := SummarizeMonth(txs, now, westOfGreenwich); s.TotalIncome.Cents != 0 {
		t.Errorf("UTC-5: income = %d, want 0", s.TotalIncome.Cents)
	}
}
