package scraper

import "time"

// Loan represents one borrowed item scraped from an IOPAC account page.
type Loan struct {
	Account   string
	Title     string
	MediaType string
	ReturnOn  time.Time
	Reserved  bool
}

// Data indexes all accounts' current loans by due date (UTC midnight).
// A value is built once per update cycle and never mutated afterwards.
type Data map[time.Time][]Loan
