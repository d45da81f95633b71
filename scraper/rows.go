package scraper

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Column headers of the IOPAC loan table, after whitespace trimming.
const (
	colTitle      = "Titel"
	colMediaType  = "Medientyp"
	colReturnDate = "Rückgabe am"
)

const (
	dateLayout     = "02.01.2006"
	reservedMarker = "resev."
)

var dateRe = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)

// MissingColumnError reports a loan table row lacking a required column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("couldn't find column %q", e.Column)
}

// ErrUnparsableDate reports a return date cell without a usable DD.MM.YYYY date.
var ErrUnparsableDate = errors.New("no parsable date in return date column")

// loanFromRow builds a Loan from one table row, given as a mapping from
// column header to cell text. The owning account is filled in later by
// the aggregation step.
func loanFromRow(cells map[string]string) (Loan, error) {
	title, ok := cells[colTitle]
	if !ok {
		return Loan{}, &MissingColumnError{Column: colTitle}
	}
	mediaType, ok := cells[colMediaType]
	if !ok {
		return Loan{}, &MissingColumnError{Column: colMediaType}
	}
	returnCell, ok := cells[colReturnDate]
	if !ok {
		return Loan{}, &MissingColumnError{Column: colReturnDate}
	}

	match := dateRe.FindString(returnCell)
	if match == "" {
		return Loan{}, ErrUnparsableDate
	}
	returnOn, err := time.Parse(dateLayout, match)
	if err != nil {
		return Loan{}, fmt.Errorf("%w: %v", ErrUnparsableDate, err)
	}

	return Loan{
		Title:     strings.TrimSpace(title),
		MediaType: strings.TrimSpace(mediaType),
		ReturnOn:  returnOn,
		Reserved:  strings.Contains(returnCell, reservedMarker),
	}, nil
}
