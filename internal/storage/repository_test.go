package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"incassi/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "incassi.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestCreateAndListEntries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateEntry(ctx, core.NewEntry("2024-03-01", 9, 5000))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned ID")
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected assigned CreatedAt")
	}

	second, err := repo.CreateEntry(ctx, core.NewEntry("2024-03-01", 9, 2550))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.ID <= created.ID {
		t.Fatalf("IDs must be monotonically increasing: %d then %d", created.ID, second.ID)
	}

	entries, err := repo.ListEntriesByDate(ctx, "2024-03-01")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Amount.Cents != 5000 || entries[1].Amount.Cents != 2550 {
		t.Fatalf("unexpected amounts: %+v", entries)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cases := []struct {
		e    core.Entry
		want error
	}{
		{core.NewEntry("2024-03-01", 24, 100), core.ErrInvalidHour},
		{core.NewEntry("2024-03-01", -1, 100), core.ErrInvalidHour},
		{core.NewEntry("2024-03-01", 9, 0), core.ErrInvalidAmount},
		{core.NewEntry("03/01/2024", 9, 100), core.ErrInvalidDate},
	}
	for i, tc := range cases {
		if _, err := repo.CreateEntry(ctx, tc.e); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}

	// Rejected inputs must leave the table untouched.
	days, err := repo.SummarizeAllDays(ctx)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(days) != 0 {
		t.Fatalf("expected no rows after rejected creates, got %+v", days)
	}
}

func TestSummaries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed := []struct {
		date  string
		hour  int
		cents int64
	}{
		{"2024-03-01", 9, 5000},
		{"2024-03-01", 9, 2550},
		{"2024-03-01", 14, 33},
		{"2024-03-01", 14, 33},
		{"2024-03-01", 14, 34},
		{"2024-02-29", 10, 8000},
	}
	for _, s := range seed {
		if _, err := repo.CreateEntry(ctx, core.NewEntry(s.date, s.hour, s.cents)); err != nil {
			t.Fatalf("seed %+v: %v", s, err)
		}
	}

	days, err := repo.SummarizeAllDays(ctx)
	if err != nil {
		t.Fatalf("summarize days: %v", err)
	}
	want := []core.DaySummary{
		{Date: "2024-03-01", TotalAmount: 7650},
		{Date: "2024-02-29", TotalAmount: 8000},
	}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %+v", len(want), days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Fatalf("day %d: got %+v, want %+v", i, days[i], want[i])
		}
	}

	hours, err := repo.SummarizeDay(ctx, "2024-03-01")
	if err != nil {
		t.Fatalf("summarize day: %v", err)
	}
	wantHours := []core.HourSummary{
		{Hour: 9, TotalAmount: 7550},
		{Hour: 14, TotalAmount: 100},
	}
	if len(hours) != len(wantHours) {
		t.Fatalf("expected %d hours, got %+v", len(wantHours), hours)
	}
	for i := range wantHours {
		if hours[i] != wantHours[i] {
			t.Fatalf("hour %d: got %+v, want %+v", i, hours[i], wantHours[i])
		}
	}

	empty, err := repo.SummarizeDay(ctx, "1999-01-01")
	if err != nil {
		t.Fatalf("summarize unknown date: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty summary, got %+v", empty)
	}
}

func TestClearDay(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateEntry(ctx, core.NewEntry("2024-03-01", 9, 5000)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := repo.CreateEntry(ctx, core.NewEntry("2024-02-29", 10, 8000)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	removed, err := repo.ClearDay(ctx, "2024-03-01")
	if err != nil || removed != 1 {
		t.Fatalf("clear: removed=%d err=%v", removed, err)
	}
	removed, err = repo.ClearDay(ctx, "2024-03-01")
	if err != nil || removed != 0 {
		t.Fatalf("repeat clear must be idempotent: removed=%d err=%v", removed, err)
	}

	days, err := repo.SummarizeAllDays(ctx)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(days) != 1 || days[0].Date != "2024-02-29" {
		t.Fatalf("other dates must survive: %+v", days)
	}
}

func TestSyncBookkeeping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, err := repo.CreateEntry(ctx, core.NewEntry("2024-03-01", 9, 5000))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	b, err := repo.CreateEntry(ctx, core.NewEntry("2024-03-01", 11, 12500))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	pending, err := repo.GetPendingSyncEntries(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != a.ID || pending[1].ID != b.ID {
		t.Fatalf("expected both entries pending oldest-first, got %+v", pending)
	}

	if err := repo.MarkSynced(ctx, a.ID); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err = repo.GetPendingSyncEntries(ctx, 10)
	if err != nil {
		t.Fatalf("pending after sync: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != b.ID {
		t.Fatalf("expected only second entry pending, got %+v", pending)
	}

	// After enough failures the entry drops out of the pending set.
	for i := 0; i < maxSyncAttempts; i++ {
		if err := repo.MarkSyncError(ctx, b.ID); err != nil {
			t.Fatalf("mark sync error: %v", err)
		}
	}
	pending, err = repo.GetPendingSyncEntries(ctx, 10)
	if err != nil {
		t.Fatalf("pending after errors: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending entries after max attempts, got %+v", pending)
	}
}
