package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
	Savings TransactionType = "savings"
)

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	// Transaction is a single immutable ledger entry. Location is only
	// meaningful for savings entries (which account or wallet holds the
	// saved funds); it stays empty for income and expense.
	Transaction struct {
		ID          string
		UserID      string
		Type        TransactionType
		Amount      Money
		Category    string
		Description string
		Location    string
		Date        int64 // epoch milliseconds
		CreatedAt   time.Time
	}

	// User carries the identity attributes handed over by the external
	// identity provider plus the running spendable balance.
	User struct {
		ID      string
		Name    string
		Email   string
		Image   string
		Balance Money
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidDate         = errors.New("invalid date")
	ErrEmptyCategory       = errors.New("empty category")
	ErrDescriptionTooLong  = errors.New("description too long (max 200 characters)")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// NormalizeType maps caller-facing type tokens onto the canonical
// discriminants. The plural "expenses" is accepted as a synonym for
// "expense"; everything else passes through unchanged.
func NormalizeType(s string) TransactionType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "expenses" {
		return Expense
	}
	return TransactionType(s)
}

// Valid reports whether t is one of the closed set of discriminants.
func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Savings:
		return true
	default:
		return false
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if t.Date <= 0 {
		return ErrInvalidDate
	}
	return nil
}

// BalanceDelta returns the signed effect of recording this transaction on
// the owner's spendable balance, in cents. Savings never touch the
// balance: they model a transfer out of spendable funds into a separate
// tracked bucket. Deleting a transaction applies the negation.
func (t Transaction) BalanceDelta() int64 {
	switch t.Type {
	case Income:
		return t.Amount.Cents
	case Expense:
		return -t.Amount.Cents
	case Savings:
		return 0
	default:
		return 0
	}
}
