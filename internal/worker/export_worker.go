// Package worker moves recorded transactions from SQLite to the
// configured export destination. Events arrive over AMQP; a periodic
// scan of pending rows acts as a backup in case messages are lost.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export"
)

// ExportStore is the slice of the storage layer the worker needs.
type ExportStore interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListPendingExport(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkExported(ctx context.Context, id string) error
	MarkExportError(ctx context.Context, id string) error
}

// ExportWorker handles ledger events and the pending-export backlog.
type ExportWorker struct {
	store     ExportStore
	appender  export.TransactionAppender
	batchSize int
}

func NewExportWorker(store ExportStore, appender export.TransactionAppender, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		appender:  appender,
		batchSize: batchSize,
	}
}

// HandleEvent processes a single ledger event from AMQP.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	switch msg.Action {
	case amqp.ActionRecorded:
		return w.exportByID(ctx, msg.TransactionID)
	case amqp.ActionDeleted:
		// Deleted rows stay in the export for audit; nothing to do.
		slog.InfoContext(ctx, "Ignoring delete event",
			"transaction_id", msg.TransactionID,
			"user_id", msg.UserID)
		return nil
	default:
		return fmt.Errorf("unknown ledger event action %q", msg.Action)
	}
}

// ProcessPending exports transactions that never got a matching AMQP
// event, up to the configured batch size. Per-row failures are logged
// and marked; the scan continues.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.ListPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending export: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, tx := range pending {
		if err := w.exportTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction",
				"transaction_id", tx.ID, "error", err)
		}
	}
	return nil
}

// StartupCheck drains a larger backlog once at worker startup to
// recover from downtime.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.store.ListPendingExport(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending export at startup: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup", "count", len(pending))

	exported := 0
	failed := 0
	for _, tx := range pending {
		if err := w.exportTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"transaction_id", tx.ID, "error", err)
			failed++
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Startup export check completed",
		"total", len(pending),
		"exported", exported,
		"errors", failed)
	return nil
}

func (w *ExportWorker) exportByID(ctx context.Context, id string) error {
	tx, err := w.store.GetTransaction(ctx, id)
	if err != nil {
		// The row can be deleted before its recorded event is consumed.
		// There is nothing left to export; dropping the event here keeps
		// it from being requeued forever.
		if errors.Is(err, core.ErrTransactionNotFound) {
			slog.InfoContext(ctx, "Transaction gone before export, dropping event",
				"transaction_id", id)
			return nil
		}
		return fmt.Errorf("get transaction %s: %w", id, err)
	}
	return w.exportTransaction(ctx, tx)
}

func (w *ExportWorker) exportTransaction(ctx context.Context, tx core.Transaction) error {
	ref, err := w.appender.Append(ctx, tx)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error",
				"transaction_id", tx.ID, "error", markErr)
		}
		return fmt.Errorf("append transaction: %w", err)
	}

	if err := w.store.MarkExported(ctx, tx.ID); err != nil {
		// The append succeeded; a failed mark means the row may be
		// exported again by the pending scan.
		slog.ErrorContext(ctx, "Failed to mark as exported",
			"transaction_id", tx.ID, "error", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"transaction_id", tx.ID,
		"user_id", tx.UserID,
		"export_ref", ref,
		"amount_cents", tx.Amount.Cents)
	return nil
}
