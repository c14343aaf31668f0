// Package ledger implements the transaction ledger operations: listing
// with filters, recording and deleting entries with their balance
// effects, and the monthly summary fold.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// Store is the durable ledger storage the service drives.
type Store interface {
	EnsureUser(ctx context.Context, u core.User) error
	CreateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
}

// EventPublisher announces ledger mutations to downstream consumers.
// Publishing failures are logged, never surfaced: export is best-effort.
type EventPublisher interface {
	PublishTransactionRecorded(ctx context.Context, transactionID, userID string) error
	PublishTransactionDeleted(ctx context.Context, transactionID, userID string) error
}

// Service ties storage and event publishing together behind the four
// ledger operations. It holds no mutable state of its own; every call is
// resolved against the store.
type Service struct {
	store  Store
	events EventPublisher // may be nil
	loc    *time.Location
	now    func() time.Time
}

// New creates the ledger service. loc is the timezone used to resolve
// "current calendar month" for summaries; nil means process-local.
func New(store Store, events EventPublisher, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:  store,
		events: events,
		loc:    loc,
		now:    time.Now,
	}
}

// Location returns the timezone summaries are evaluated in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// EnsureUser creates the ledger's user record on first authenticated
// contact; subsequent calls are no-ops.
func (s *Service) EnsureUser(ctx context.Context, u core.User) error {
	if u.ID == "" {
		return core.ErrUnauthorized
	}
	return s.store.EnsureUser(ctx, u)
}

// List returns the caller's transactions, newest insertion first,
// narrowed by the filter. Type synonyms are resolved here so every
// caller gets the same normalization.
func (s *Service) List(ctx context.Context, userID string, f core.Filter) ([]core.Transaction, error) {
	if userID == "" {
		return nil, core.ErrUnauthorized
	}
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return f.Normalize().Apply(txs), nil
}

// Add validates and records a transaction for the caller, applying its
// balance delta atomically with the insert. The assigned id is returned
// on the stored copy.
func (s *Service) Add(ctx context.Context, userID string, t core.Transaction) (core.Transaction, error) {
	if userID == "" {
		return core.Transaction{}, core.ErrUnauthorized
	}

	t.ID = uuid.New().String()
	t.UserID = userID
	t.Type = core.NormalizeType(string(t.Type))
	// Location only applies to the savings variant.
	switch t.Type {
	case core.Savings:
	default:
		t.Location = ""
	}

	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.CreateTransaction(ctx, t); err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}

	s.publishRecorded(ctx, t)
	return t, nil
}

// Delete removes one of the caller's transactions and reverses its
// balance effect. Entries owned by other users are reported as not
// found, never deleted.
func (s *Service) Delete(ctx context.Context, userID, transactionID string) error {
	if userID == "" {
		return core.ErrUnauthorized
	}

	t, err := s.store.DeleteTransaction(ctx, userID, transactionID)
	if err != nil {
		if errors.Is(err, core.ErrTransactionNotFound) {
			return err
		}
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publishDeleted(ctx, t)
	return nil
}

// MonthlySummary folds the caller's current-calendar-month transactions
// into per-type totals. Recomputed from the stored set on every call.
func (s *Service) MonthlySummary(ctx context.Context, userID string) (core.MonthlySummary, error) {
	if userID == "" {
		return core.MonthlySummary{}, core.ErrUnauthorized
	}
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.SummarizeMonth(txs, s.now(), s.loc), nil
}

func (s *Service) publishRecorded(ctx context.Context, t core.Transaction) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionRecorded(ctx, t.ID, t.UserID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish recorded event",
			"transaction_id", t.ID, "error", err)
	}
}

func (s *Service) publishDeleted(ctx context.Context, t core.Transaction) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTransactionDeleted(ctx, t.ID, t.UserID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish deleted event",
			"transaction_id", t.ID, "error", err)
	}
}
