package sheets

import (
	"context"

	"incassi/internal/core"
)

// EntryExporter mirrors the ledger into an external spreadsheet. The
// database stays authoritative; the export exists for people who live in
// their sheet.
type EntryExporter interface {
	// ExportEntry appends one entry row.
	ExportEntry(ctx context.Context, e core.Entry) error
	// ClearDay removes every exported row for the date.
	ClearDay(ctx context.Context, date string) error
}
