package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates (ISO-8601, no timezone).
const DateLayout = "2006-01-02"

type (
	Money struct {
		Cents int64
	}

	// Entry is one recorded revenue event. Entries are immutable once
	// created; the only mutation is bulk delete by date.
	Entry struct {
		ID        int64     `json:"id"`
		Date      string    `json:"date"` // YYYY-MM-DD
		Hour      int       `json:"hour"` // 0-23
		Amount    Money     `json:"amount"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidHour   = errors.New("invalid hour")
	ErrInvalidAmount = errors.New("invalid amount")
)

// NewEntry builds an unstored Entry; ID and CreatedAt are assigned by storage.
func NewEntry(date string, hour int, cents int64) Entry {
	return Entry{
		Date:   strings.TrimSpace(date),
		Hour:   hour,
		Amount: Money{Cents: cents},
	}
}

// ValidateDate checks the YYYY-MM-DD format. Calendar semantics beyond
// what time.Parse enforces are deliberately not checked.
func ValidateDate(s string) error {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate reports the first failing field, in input order: date, hour, amount.
func (e Entry) Validate() error {
	if err := ValidateDate(e.Date); err != nil {
		return err
	}
	if e.Hour < 0 || e.Hour > 23 {
		return ErrInvalidHour
	}
	return e.Amount.Validate()
}
