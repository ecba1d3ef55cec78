// Package worker drains the ledger event queue into the sheets audit export.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"grana/internal/events"
)

// EventAppender is the downstream the worker mirrors events into.
type EventAppender interface {
	AppendEvent(ctx context.Context, ev *events.TransactionEvent) error
}

type ExportWorker struct {
	appender EventAppender
}

func New(appender EventAppender) *ExportWorker {
	return &ExportWorker{appender: appender}
}

// HandleEvent processes one ledger event. Returning an error requeues the
// message.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev *events.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"action", ev.Action,
		"id", ev.ID,
		"user", ev.UserID)

	if err := w.appender.AppendEvent(ctx, ev); err != nil {
		return fmt.Errorf("append event %s/%s: %w", ev.Action, ev.ID, err)
	}

	slog.InfoContext(ctx, "Ledger event exported",
		"action", ev.Action,
		"id", ev.ID)
	return nil
}
