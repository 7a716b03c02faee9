package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"incassi/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the durable ledger. Every operation is a single
// statement, so there is no application-level locking: creates are pure
// inserts, clears are unconditional deletes by date, and the summaries
// are SUM/GROUP BY over integer columns computed fresh on each read.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateEntry implements ledger.EntryWriter.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}

	createdAt := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (date, hour, amount_cents, created_at) VALUES (?, ?, ?, ?)`,
		e.Date, e.Hour, e.Amount.Cents, createdAt)
	if err != nil {
		return core.Entry{}, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Entry{}, fmt.Errorf("entry id: %w", err)
	}

	e.ID = id
	e.CreatedAt = createdAt

	slog.InfoContext(ctx, "Entry saved to SQLite",
		"id", e.ID,
		"date", e.Date,
		"hour", e.Hour,
		"amount_cents", e.Amount.Cents)

	return e, nil
}

// ListEntriesByDate implements ledger.EntryLister.
func (r *SQLiteRepository) ListEntriesByDate(ctx context.Context, date string) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, hour, amount_cents, created_at FROM entries WHERE date = ? ORDER BY id`,
		date)
	if err != nil {
		return nil, fmt.Errorf("list entries by date: %w", err)
	}
	defer rows.Close()

	var out []core.Entry
	for rows.Next() {
		var e core.Entry
		if err := rows.Scan(&e.ID, &e.Date, &e.Hour, &e.Amount.Cents, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

// ClearDay implements ledger.DayClearer. Deleting a date with no entries
// succeeds and reports zero removed.
func (r *SQLiteRepository) ClearDay(ctx context.Context, date string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE date = ?`, date)
	if err != nil {
		return 0, fmt.Errorf("delete entries by date: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	slog.InfoContext(ctx, "Day cleared", "date", date, "removed", removed)
	return removed, nil
}

// SummarizeAllDays implements ledger.SummaryReader.
func (r *SQLiteRepository) SummarizeAllDays(ctx context.Context) ([]core.DaySummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, SUM(amount_cents) FROM entries GROUP BY date ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("sum by day: %w", err)
	}
	defer rows.Close()

	var out []core.DaySummary
	for rows.Next() {
		var d core.DaySummary
		if err := rows.Scan(&d.Date, &d.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan day summary: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day summaries: %w", err)
	}
	return out, nil
}

// SummarizeDay implements ledger.SummaryReader. Hours without entries are
// omitted; dense 0-23 filling is the caller's concern.
func (r *SQLiteRepository) SummarizeDay(ctx context.Context, date string) ([]core.HourSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT hour, SUM(amount_cents) FROM entries WHERE date = ? GROUP BY hour ORDER BY hour`,
		date)
	if err != nil {
		return nil, fmt.Errorf("sum by hour: %w", err)
	}
	defer rows.Close()

	var out []core.HourSummary
	for rows.Next() {
		var h core.HourSummary
		if err := rows.Scan(&h.Hour, &h.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan hour summary: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hour summaries: %w", err)
	}
	return out, nil
}

// GetEntry retrieves a single entry by ID; used by the sync worker.
func (r *SQLiteRepository) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	var e core.Entry
	err := r.db.QueryRowContext(ctx,
		`SELECT id, date, hour, amount_cents, created_at FROM entries WHERE id = ?`,
		id).Scan(&e.ID, &e.Date, &e.Hour, &e.Amount.Cents, &e.CreatedAt)
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry by id: %w", err)
	}
	return e, nil
}

// PendingSyncEntry is the minimal row the worker needs to drive an export.
type PendingSyncEntry struct {
	ID           int64
	CreatedAt    time.Time
	SyncAttempts int
}

// GetPendingSyncEntries returns entries not yet exported, oldest first.
// Entries that failed maxSyncAttempts times are left for manual review.
func (r *SQLiteRepository) GetPendingSyncEntries(ctx context.Context, limit int) ([]PendingSyncEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, sync_attempts FROM entries
		 WHERE synced_at IS NULL AND sync_attempts < ?
		 ORDER BY id LIMIT ?`,
		maxSyncAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync entries: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncEntry
	for rows.Next() {
		var p PendingSyncEntry
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.SyncAttempts); err != nil {
			return nil, fmt.Errorf("scan pending entry: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending entries: %w", err)
	}
	return out, nil
}

const maxSyncAttempts = 5

// MarkSynced records a successful export.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET synced_at = ? WHERE id = ?`, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark entry synced: %w", err)
	}
	slog.InfoContext(ctx, "Entry marked as synced", "id", id)
	return nil
}

// MarkSyncError bumps the attempt counter after a failed export.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE entries SET sync_attempts = sync_attempts + 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark entry sync error: %w", err)
	}
	slog.WarnContext(ctx, "Entry marked with sync error", "id", id)
	return nil
}
