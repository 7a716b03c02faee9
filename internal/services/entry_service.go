package services

import (
	"context"
	"fmt"
	"log/slog"

	"incassi/internal/amqp"
	"incassi/internal/core"
	"incassi/internal/storage"
)

// EntryService orchestrates ledger writes across SQLite and AMQP. The
// database write is authoritative; event publishing is best effort and
// never fails the caller's request.
type EntryService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewEntryService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *EntryService {
	return &EntryService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateEntry saves an entry locally and publishes an export request.
func (s *EntryService) CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	saved, err := s.storage.CreateEntry(ctx, e)
	if err != nil {
		return core.Entry{}, fmt.Errorf("save entry: %w", err)
	}

	if err := s.publishEntrySync(ctx, saved.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry sync message",
			"id", saved.ID, "error", err)
		// Entry is saved locally; the worker's pending scan will catch it.
	}

	return saved, nil
}

// ClearDay removes every entry for the date and publishes a clear request.
func (s *EntryService) ClearDay(ctx context.Context, date string) (int64, error) {
	removed, err := s.storage.ClearDay(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("clear day: %w", err)
	}

	if err := s.publishDayClear(ctx, date); err != nil {
		slog.ErrorContext(ctx, "Failed to publish day clear message",
			"date", date, "error", err)
	}

	return removed, nil
}

func (s *EntryService) ListEntriesByDate(ctx context.Context, date string) ([]core.Entry, error) {
	return s.storage.ListEntriesByDate(ctx, date)
}

func (s *EntryService) SummarizeAllDays(ctx context.Context) ([]core.DaySummary, error) {
	return s.storage.SummarizeAllDays(ctx)
}

func (s *EntryService) SummarizeDay(ctx context.Context, date string) ([]core.HourSummary, error) {
	return s.storage.SummarizeDay(ctx, date)
}

func (s *EntryService) publishEntrySync(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping entry sync message")
		return nil
	}
	return s.amqpClient.PublishEntrySync(ctx, id)
}

func (s *EntryService) publishDayClear(ctx context.Context, date string) error {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping day clear message")
		return nil
	}
	return s.amqpClient.PublishDayClear(ctx, date)
}

// Close closes both storage and AMQP connections.
func (s *EntryService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close entry service: %v", errs)
	}

	return nil
}
