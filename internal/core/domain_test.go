package core

import "testing"

func TestNormalizeType(t *testing.T) {
	cases := []struct {
		in   string
		want TransactionType
	}{
		{"expenses", Expense},
		{"expense", Expense},
		{"income", Income},
		{"savings", Savings},
		{" Expenses ", Expense},
		{"other", TransactionType("other")},
	}
	for _, tc := range cases {
		if got := NormalizeType(tc.in); got != tc.want {
			t.Errorf("NormalizeType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Type:     Income,
		Amount:   Money{Cents: 500000},
		Category: "salary",
		Date:     1700000000000,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Type: "transfer", Amount: Money{Cents: 100}, Category: "c", Date: 1},
		{Type: Income, Amount: Money{Cents: 0}, Category: "c", Date: 1},
		{Type: Income, Amount: Money{Cents: -5}, Category: "c", Date: 1},
		{Type: Income, Amount: Money{Cents: 100}, Category: "   ", Date: 1},
		{Type: Income, Amount: Money{Cents: 100}, Category: "c", Date: 0},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Errorf("case %d expected error", i)
		}
	}
}

func TestBalanceDelta(t *testing.T) {
	cases := []struct {
		typ  TransactionType
		want int64
	}{
		{Income, 1200},
		{Expense, -1200},
		{Savings, 0},
	}
	for _, tc := range cases {
		tx := Transaction{Type: tc.typ, Amount: Money{Cents: 1200}}
		if got := tx.BalanceDelta(); got != tc.want {
			t.Errorf("%s delta = %d, want %d", tc.typ, got, tc.want)
		}
	}
}
