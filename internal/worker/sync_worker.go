package worker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"incassi/internal/amqp"
	"incassi/internal/sheets"
	"incassi/internal/storage"
)

// exportConcurrency bounds parallel Sheets calls during a pending scan,
// staying well under the API's per-minute quota.
const exportConcurrency = 4

// SyncWorker mirrors ledger entries from SQLite to the spreadsheet
// export. AMQP messages drive the normal path; a periodic scan of
// unsynced rows is the backup for lost messages.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	exporter  sheets.EntryExporter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, exporter sheets.EntryExporter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single entry sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	slog.InfoContext(ctx, "Processing entry sync message", "id", msg.ID)
	return w.exportEntry(ctx, msg.ID)
}

// HandleClearMessage processes a day clear message from AMQP.
func (w *SyncWorker) HandleClearMessage(ctx context.Context, msg *amqp.DayClearMessage) error {
	slog.InfoContext(ctx, "Processing day clear message", "date", msg.Date)

	if err := w.exporter.ClearDay(ctx, msg.Date); err != nil {
		return fmt.Errorf("clear exported day %s: %w", msg.Date, err)
	}

	slog.InfoContext(ctx, "Cleared exported day", "date", msg.Date)
	return nil
}

// ProcessPendingEntries exports entries that never made it through AMQP.
func (w *SyncWorker) ProcessPendingEntries(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncEntries(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending entries: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending entries", "count", len(pending))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)
	for _, p := range pending {
		g.Go(func() error {
			if err := w.exportEntry(ctx, p.ID); err != nil {
				// Bookkeeping already recorded the failure; don't stop
				// the rest of the batch.
				slog.ErrorContext(ctx, "Failed to export pending entry", "id", p.ID, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// StartupSyncCheck drains anything left over from before the last shutdown.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup sync check")
	return w.ProcessPendingEntries(ctx)
}

func (w *SyncWorker) exportEntry(ctx context.Context, id int64) error {
	entry, err := w.storage.GetEntry(ctx, id)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("get entry %d: %w", id, err)
	}

	if err := w.exporter.ExportEntry(ctx, entry); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("export entry %d: %w", id, err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark entry %d synced: %w", id, err)
	}

	return nil
}
