package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"incassi/internal/core"
)

// failingLedger simulates a broken storage layer for every port.
type failingLedger struct{}

var errDown = fmt.Errorf("database is locked")

func (failingLedger) CreateEntry(context.Context, core.Entry) (core.Entry, error) {
	return core.Entry{}, errDown
}
func (failingLedger) SummarizeAllDays(context.Context) ([]core.DaySummary, error) {
	return nil, errDown
}
func (failingLedger) SummarizeDay(context.Context, string) ([]core.HourSummary, error) {
	return nil, errDown
}
func (failingLedger) ClearDay(context.Context, string) (int64, error) {
	return 0, errDown
}

func TestStorageFailuresMapToGeneric500(t *testing.T) {
	srv := NewServer(":0", failingLedger{}, failingLedger{}, failingLedger{})
	defer srv.Shutdown(context.Background())

	tests := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/api/entries", `{"date":"2024-03-01","hour":9,"amount":5000}`},
		{http.MethodGet, "/api/days", ""},
		{http.MethodGet, "/api/days/2024-03-01", ""},
		{http.MethodDelete, "/api/days/2024-03-01", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := doJSON(t, srv, tt.method, tt.path, tt.body)
			if rr.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d: %s", rr.Code, rr.Body.String())
			}
			var resp errorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			// No internal detail may leak to the caller.
			if resp.Message != "Internal server error" {
				t.Fatalf("message = %q, want generic message", resp.Message)
			}
		})
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatalf("request 61 within a minute should be rejected")
	}
	// Other clients are tracked independently.
	if !rl.allow("10.0.0.2") {
		t.Fatalf("separate client should be allowed")
	}

	// An elapsed window grants a fresh budget.
	rl.mu.Lock()
	rl.visitors["10.0.0.1"].windowStart = time.Now().Add(-2 * writeWindow)
	rl.mu.Unlock()
	if !rl.allow("10.0.0.1") {
		t.Fatalf("request in a new window should be allowed")
	}
}
