package core

// DaySummary is the total recorded amount for one date. Derived on read,
// never stored.
type DaySummary struct {
	Date        string `json:"date"`
	TotalAmount int64  `json:"totalAmount"`
}

// HourSummary is the total for one hour bucket within a single date.
// Hours with no entries are omitted; callers that want a dense 0-23
// schedule fill the gaps themselves.
type HourSummary struct {
	Hour        int   `json:"hour"`
	TotalAmount int64 `json:"totalAmount"`
}
