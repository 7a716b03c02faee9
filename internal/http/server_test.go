package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"incassi/internal/core"
	"incassi/internal/ledger/memory"
)

func newTestServer() (*Server, *memory.Store) {
	store := memory.New()
	srv := NewServer(":0", store, store, store)
	return srv, store
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Shutdown(context.Background())

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateEntrySuccess(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Shutdown(context.Background())

	rr := doJSON(t, srv, http.MethodPost, "/api/entries",
		`{"date":"2024-03-01","hour":9,"amount":5000}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var created core.Entry
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned ID, got %+v", created)
	}
	if created.Date != "2024-03-01" || created.Hour != 9 || created.Amount.Cents != 5000 {
		t.Fatalf("unexpected entry: %+v", created)
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be set")
	}
}

func TestCreateEntryValidation(t *testing.T) {
	srv, store := newTestServer()
	defer srv.Shutdown(context.Background())

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing date", `{"hour":9,"amount":5000}`, msgInvalidDate},
		{"empty date", `{"date":"","hour":9,"amount":5000}`, msgInvalidDate},
		{"malformed date", `{"date":"03/01/2024","hour":9,"amount":5000}`, msgInvalidDate},
		{"missing hour", `{"date":"2024-03-01","amount":5000}`, msgInvalidHour},
		{"hour too large", `{"date":"2024-03-01","hour":24,"amount":5000}`, msgInvalidHour},
		{"hour negative", `{"date":"2024-03-01","hour":-1,"amount":5000}`, msgInvalidHour},
		{"hour not an integer", `{"date":"2024-03-01","hour":"nine","amount":5000}`, msgInvalidHour},
		{"missing amount", `{"date":"2024-03-01","hour":9}`, msgInvalidAmount},
		{"zero amount", `{"date":"2024-03-01","hour":9,"amount":0}`, msgInvalidAmount},
		{"negative amount", `{"date":"2024-03-01","hour":9,"amount":-100}`, msgInvalidAmount},
		{"fractional amount", `{"date":"2024-03-01","hour":9,"amount":75.50}`, msgInvalidAmount},
		{"garbage body", `{not json`, "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/entries", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
			var resp errorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Message != tt.message {
				t.Fatalf("message = %q, want %q", resp.Message, tt.message)
			}
		})
	}

	// None of the rejected requests may have touched storage.
	if store.Len() != 0 {
		t.Fatalf("expected empty store after rejected creates, have %d entries", store.Len())
	}
}

func TestDayAggregationScenario(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Shutdown(context.Background())

	for _, body := range []string{
		`{"date":"2024-03-01","hour":9,"amount":5000}`,
		`{"date":"2024-03-01","hour":9,"amount":2550}`,
		`{"date":"2024-02-29","hour":10,"amount":8000}`,
	} {
		if rr := doJSON(t, srv, http.MethodPost, "/api/entries", body); rr.Code != http.StatusCreated {
			t.Fatalf("seed %s: status %d", body, rr.Code)
		}
	}

	rr := doJSON(t, srv, http.MethodGet, "/api/days/2024-03-01", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("day details status=%d", rr.Code)
	}
	var hours []core.HourSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &hours); err != nil {
		t.Fatalf("decode hours: %v", err)
	}
	if len(hours) != 1 || hours[0].Hour != 9 || hours[0].TotalAmount != 7550 {
		t.Fatalf("expected [{9 7550}], got %+v", hours)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/days", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("list days status=%d", rr.Code)
	}
	var days []core.DaySummary
	if err := json.Unmarshal(rr.Body.Bytes(), &days); err != nil {
		t.Fatalf("decode days: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %+v", days)
	}
	if days[0].Date != "2024-03-01" || days[0].TotalAmount != 7550 {
		t.Fatalf("most recent first: got %+v", days[0])
	}
	if days[1].Date != "2024-02-29" || days[1].TotalAmount != 8000 {
		t.Fatalf("older second: got %+v", days[1])
	}
}

func TestDayDetailsUnknownDateIsEmptyList(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Shutdown(context.Background())

	rr := doJSON(t, srv, http.MethodGet, "/api/days/1999-01-01", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown date, got %d", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Fatalf("expected empty JSON array, got %q", body)
	}
}

func TestDayDetailsMalformedDate(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Shutdown(context.Background())

	rr := doJSON(t, srv, http.MethodGet, "/api/days/not-a-date", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", rr.Code)
	}
}

func TestClearDay(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Shutdown(context.Background())

	doJSON(t, srv, http.MethodPost, "/api/entries", `{"date":"2024-03-01","hour":9,"amount":5000}`)
	doJSON(t, srv, http.MethodPost, "/api/entries", `{"date":"2024-02-29","hour":10,"amount":8000}`)

	rr := doJSON(t, srv, http.MethodDelete, "/api/days/2024-03-01", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rr.Body.String())
	}

	// Clearing again, or clearing an untouched date, still succeeds.
	if rr := doJSON(t, srv, http.MethodDelete, "/api/days/2024-03-01", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("repeat clear: expected 204, got %d", rr.Code)
	}
	if rr := doJSON(t, srv, http.MethodDelete, "/api/days/2020-01-01", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("clear empty date: expected 204, got %d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/days/2024-03-01", "")
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Fatalf("cleared day should be empty, got %q", body)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/days", "")
	var days []core.DaySummary
	if err := json.Unmarshal(rr.Body.Bytes(), &days); err != nil {
		t.Fatalf("decode days: %v", err)
	}
	if len(days) != 1 || days[0].Date != "2024-02-29" {
		t.Fatalf("expected only 2024-02-29 to survive, got %+v", days)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer()
	defer srv.Shutdown(context.Background())

	rr := doJSON(t, srv, http.MethodPut, "/api/entries", `{}`)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}
