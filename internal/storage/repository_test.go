package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustEnsureUser(t *testing.T, repo *SQLiteRepository, id string) {
	t.Helper()
	err := repo.EnsureUser(context.Background(), core.User{ID: id, Name: "n", Email: id + "@example.com"})
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
}

func balanceOf(t *testing.T, repo *SQLiteRepository, id string) int64 {
	t.Helper()
	u, err := repo.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	return u.Balance.Cents
}

func tx(id, userID string, typ core.TransactionType, cents int64) core.Transaction {
	return core.Transaction{
		ID:       id,
		UserID:   userID,
		Type:     typ,
		Amount:   core.Money{Cents: cents},
		Category: "cat",
		Date:     1700000000000,
	}
}

func TestEnsureUserIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustEnsureUser(t, repo, "u1")

	if err := repo.CreateTransaction(ctx, tx("t1", "u1", core.Income, 500)); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Re-authentication must not reset the balance.
	mustEnsureUser(t, repo, "u1")
	if got := balanceOf(t, repo, "u1"); got != 500 {
		t.Fatalf("balance = %d, want 500", got)
	}
}

func TestBalanceFollowsAddAndDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustEnsureUser(t, repo, "u1")

	steps := []struct {
		tx   core.Transaction
		want int64
	}{
		{tx("t1", "u1", core.Income, 500000), 500000},
		{tx("t2", "u1", core.Expense, 120000), 380000},
		{tx("t3", "u1", core.Savings, 50000), 380000}, // savings don't touch balance
	}
	for _, s := range steps {
		if err := repo.CreateTransaction(ctx, s.tx); err != nil {
			t.Fatalf("create %s: %v", s.tx.ID, err)
		}
		if got := balanceOf(t, repo, "u1"); got != s.want {
			t.Fatalf("after %s: balance = %d, want %d", s.tx.ID, got, s.want)
		}
	}

	// Deleting the expense gives the amount back.
	if _, err := repo.DeleteTransaction(ctx, "u1", "t2"); err != nil {
		t.Fatalf("delete t2: %v", err)
	}
	if got := balanceOf(t, repo, "u1"); got != 500000 {
		t.Fatalf("after delete expense: balance = %d, want 500000", got)
	}

	// Deleting income takes it away again; deleting savings is neutral.
	if _, err := repo.DeleteTransaction(ctx, "u1", "t1"); err != nil {
		t.Fatalf("delete t1: %v", err)
	}
	if _, err := repo.DeleteTransaction(ctx, "u1", "t3"); err != nil {
		t.Fatalf("delete t3: %v", err)
	}
	if got := balanceOf(t, repo, "u1"); got != 0 {
		t.Fatalf("after deleting everything: balance = %d, want 0", got)
	}
}

func TestConcurrentAddsNeverLoseBalanceUpdates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustEnsureUser(t, repo, "u1")

	// Every add increments the balance inside its own SQL transaction;
	// no interleaving may drop an update.
	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("t%d", i)
			if err := repo.CreateTransaction(ctx, tx(id, "u1", core.Income, 100)); err != nil {
				errs <- fmt.Errorf("create %s: %w", id, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	if got := balanceOf(t, repo, "u1"); got != workers*100 {
		t.Fatalf("balance = %d, want %d", got, workers*100)
	}
	txs, err := repo.ListTransactions(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != workers {
		t.Fatalf("stored %d transactions, want %d", len(txs), workers)
	}
}

func TestCreateTransactionUnknownUser(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.CreateTransaction(context.Background(), tx("t1", "ghost", core.Income, 100))
	if !errors.Is(err, core.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	// Nothing must have been inserted.
	if _, err := repo.GetTransaction(context.Background(), "t1"); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected no transaction row, got %v", err)
	}
}

func TestDeleteTransactionOwnership(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustEnsureUser(t, repo, "alice")
	mustEnsureUser(t, repo, "bob")

	if err := repo.CreateTransaction(ctx, tx("t1", "alice", core.Income, 1000)); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Bob cannot delete Alice's transaction, knowing its id is not enough.
	if _, err := repo.DeleteTransaction(ctx, "bob", "t1"); !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if got := balanceOf(t, repo, "alice"); got != 1000 {
		t.Fatalf("alice balance changed to %d after foreign delete attempt", got)
	}
	if _, err := repo.GetTransaction(ctx, "t1"); err != nil {
		t.Fatalf("transaction must survive foreign delete attempt: %v", err)
	}
}

func TestListTransactionsIsolationAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustEnsureUser(t, repo, "alice")
	mustEnsureUser(t, repo, "bob")

	for _, id := range []string{"a1", "a2", "a3"} {
		if err := repo.CreateTransaction(ctx, tx(id, "alice", core.Expense, 100)); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if err := repo.CreateTransaction(ctx, tx("b1", "bob", core.Income, 100)); err != nil {
		t.Fatalf("create b1: %v", err)
	}

	got, err := repo.ListTransactions(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(got))
	}
	// Newest insertion first, never another user's rows.
	for i, want := range []string{"a3", "a2", "a1"} {
		if got[i].ID != want {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, want)
		}
	}

	// Identical arguments, no intervening writes: identical results.
	again, err := repo.ListTransactions(ctx, "alice")
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(again) != len(got) {
		t.Fatalf("listing is not stable: %d vs %d", len(again), len(got))
	}
	for i := range got {
		if again[i].ID != got[i].ID {
			t.Fatalf("listing is not stable at %d: %s vs %s", i, again[i].ID, got[i].ID)
		}
	}
}

func TestExportStateLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustEnsureUser(t, repo, "u1")

	for _, id := range []string{"t1", "t2"} {
		if err := repo.CreateTransaction(ctx, tx(id, "u1", core.Income, 100)); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	pending, err := repo.ListPendingExport(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "t1" {
		t.Fatalf("expected [t1 t2] pending, got %d entries", len(pending))
	}

	if err := repo.MarkExported(ctx, "t1"); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	if err := repo.MarkExportError(ctx, "t2"); err != nil {
		t.Fatalf("mark error: %v", err)
	}

	pending, err = repo.ListPendingExport(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending entries, got %d", len(pending))
	}
}
