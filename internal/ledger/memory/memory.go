package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"incassi/internal/core"
)

// Store is a mutex-guarded in-memory ledger. It backs DATA_BACKEND=memory
// and the HTTP tests, with the same aggregation semantics as SQLite.
type Store struct {
	mu      sync.Mutex
	nextID  int64
	entries []core.Entry
}

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) CreateEntry(_ context.Context, e core.Entry) (core.Entry, error) {
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	e.CreatedAt = time.Now().UTC()
	s.nextID++
	s.entries = append(s.entries, e)
	return e, nil
}

func (s *Store) ListEntriesByDate(_ context.Context, date string) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Entry
	for _, e := range s.entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ClearDay(_ context.Context, date string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	var removed int64
	for _, e := range s.entries {
		if e.Date == date {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed, nil
}

func (s *Store) SummarizeAllDays(_ context.Context) ([]core.DaySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := make(map[string]int64)
	for _, e := range s.entries {
		totals[e.Date] += e.Amount.Cents
	}
	out := make([]core.DaySummary, 0, len(totals))
	for date, total := range totals {
		out = append(out, core.DaySummary{Date: date, TotalAmount: total})
	}
	// Dates are YYYY-MM-DD, so lexicographic order is chronological.
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (s *Store) SummarizeDay(_ context.Context, date string) ([]core.HourSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := make(map[int]int64)
	for _, e := range s.entries {
		if e.Date == date {
			totals[e.Hour] += e.Amount.Cents
		}
	}
	out := make([]core.HourSummary, 0, len(totals))
	for hour, total := range totals {
		out = append(out, core.HourSummary{Hour: hour, TotalAmount: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

// Len reports the number of stored entries across all dates.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
