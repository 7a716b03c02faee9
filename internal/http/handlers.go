package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"incassi/internal/core"
)

const (
	msgInvalidDate   = "date must be a valid YYYY-MM-DD date"
	msgInvalidHour   = "hour must be an integer between 0 and 23"
	msgInvalidAmount = "amount must be a positive integer number of cents"
)

// createEntryRequest uses pointers so missing fields are told apart from
// zero values, letting validation name the first offending field.
type createEntryRequest struct {
	Date   *string     `json:"date"`
	Hour   *int        `json:"hour"`
	Amount *core.Money `json:"amount"`
}

// parseCreateEntry decodes and validates the request body, returning the
// message for the first failing field on error.
func parseCreateEntry(r *http.Request) (core.Entry, string) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &typeErr) && typeErr.Field == "date":
			return core.Entry{}, msgInvalidDate
		case errors.As(err, &typeErr) && typeErr.Field == "hour":
			return core.Entry{}, msgInvalidHour
		case errors.As(err, &typeErr) && typeErr.Field == "amount",
			errors.Is(err, core.ErrInvalidAmount):
			return core.Entry{}, msgInvalidAmount
		default:
			return core.Entry{}, "invalid request body"
		}
	}

	if req.Date == nil {
		return core.Entry{}, msgInvalidDate
	}
	if req.Hour == nil {
		return core.Entry{}, msgInvalidHour
	}
	if req.Amount == nil {
		return core.Entry{}, msgInvalidAmount
	}

	entry := core.NewEntry(*req.Date, *req.Hour, req.Amount.Cents)
	if err := entry.Validate(); err != nil {
		return core.Entry{}, validationMessage(err)
	}
	return entry, ""
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return msgInvalidDate
	case errors.Is(err, core.ErrInvalidHour):
		return msgInvalidHour
	case errors.Is(err, core.ErrInvalidAmount):
		return msgInvalidAmount
	default:
		return "invalid entry"
	}
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	entry, msg := parseCreateEntry(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.writer.CreateEntry(r.Context(), entry)
	if err != nil {
		// The store re-validates; anything else is a storage failure.
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}
		slog.ErrorContext(r.Context(), "Failed to save entry",
			"error", err,
			"date", entry.Date,
			"hour", entry.Hour,
			"amount_cents", entry.Amount.Cents)
		writeInternalError(w)
		return
	}

	slog.InfoContext(r.Context(), "Entry created",
		"id", created.ID,
		"date", created.Date,
		"hour", created.Hour,
		"amount_cents", created.Amount.Cents)

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	days, err := s.summaries.SummarizeAllDays(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to summarize days", "error", err)
		writeInternalError(w)
		return
	}
	if days == nil {
		days = []core.DaySummary{}
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleDayDetails(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if err := core.ValidateDate(date); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidDate)
		return
	}

	// A date without entries is an empty list, not a 404: only input
	// shape distinguishes "no data" from "bad request".
	hours, err := s.summaries.SummarizeDay(r.Context(), date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to summarize day", "error", err, "date", date)
		writeInternalError(w)
		return
	}
	if hours == nil {
		hours = []core.HourSummary{}
	}
	writeJSON(w, http.StatusOK, hours)
}

func (s *Server) handleClearDay(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if err := core.ValidateDate(date); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidDate)
		return
	}

	removed, err := s.clearer.ClearDay(r.Context(), date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to clear day", "error", err, "date", date)
		writeInternalError(w)
		return
	}

	slog.InfoContext(r.Context(), "Day cleared", "date", date, "removed", removed)
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidHour) ||
		errors.Is(err, core.ErrInvalidAmount)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
