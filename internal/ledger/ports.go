package ledger

import (
	"context"

	"incassi/internal/core"
)

// Ports for the revenue ledger. The HTTP layer and the seeding tool only
// ever see these interfaces; SQLite and the in-memory store provide them.
type (
	EntryWriter interface {
		// CreateEntry stores a validated entry and returns it with the
		// assigned ID and creation timestamp.
		CreateEntry(ctx context.Context, e core.Entry) (core.Entry, error)
	}

	EntryLister interface {
		ListEntriesByDate(ctx context.Context, date string) ([]core.Entry, error)
	}

	DayClearer interface {
		// ClearDay removes every entry for the date and reports how many
		// rows went away. Clearing a date with no entries is not an error.
		ClearDay(ctx context.Context, date string) (int64, error)
	}

	SummaryReader interface {
		// SummarizeAllDays returns one row per date that has entries,
		// most recent date first.
		SummarizeAllDays(ctx context.Context) ([]core.DaySummary, error)
		// SummarizeDay returns one row per hour that has entries for the
		// date, ascending by hour. Unknown dates yield an empty slice.
		SummarizeDay(ctx context.Context, date string) ([]core.HourSummary, error)
	}
)
