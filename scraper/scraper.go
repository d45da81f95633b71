package scraper

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"

	"iopac-calendar/config"
)

const (
	endpointPath = "cgi-bin/di.exe"
	fetchTimeout = 30 * time.Second

	loginFailedMarker = "Login fehlgeschlagen"
	loanTableSelector = ".SEARCH_LESER"
)

// AuthError reports a rejected IOPAC login.
type AuthError struct {
	CustomerID string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login failed for account %s", e.CustomerID)
}

// Scraper fetches the borrowed-items pages of all configured IOPAC accounts.
type Scraper struct {
	client *http.Client
	cfg    *config.Config
}

func New(cfg *config.Config) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: fetchTimeout},
		cfg:    cfg,
	}
}

// fetch logs in to one account and parses its loan table. A nil slice
// with a nil error means the account currently has nothing borrowed.
func (s *Scraper) fetch(baseURL, customerID, password string) ([]Loan, error) {
	form := url.Values{
		"sleKndNr": {customerID},
		"slePw":    {password},
		"pshLogin": {"Login"},
	}

	resp, err := s.client.PostForm(baseURL+endpointPath, form)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", baseURL, err)
	}
	defer resp.Body.Close()

	// IOPAC responds in Latin-1, never UTF-8.
	body := charmap.ISO8859_1.NewDecoder().Reader(resp.Body)
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing response from %s: %w", baseURL, err)
	}

	for _, node := range doc.Nodes {
		if hasText(node, loginFailedMarker) {
			return nil, &AuthError{CustomerID: customerID}
		}
	}

	return parseLoanTable(doc)
}

// hasText reports whether any text node under n trims to exactly want.
func hasText(n *html.Node, want string) bool {
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) == want {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasText(c, want) {
			return true
		}
	}
	return false
}

// parseLoanTable extracts the loan table from a logged-in account page.
// An absent container or table means the account has no loans.
func parseLoanTable(doc *goquery.Document) ([]Loan, error) {
	table := doc.Find(loanTableSelector).First()
	if table.Length() == 0 {
		return nil, nil
	}
	if !table.Is("table") {
		table = table.Find("table").First()
		if table.Length() == 0 {
			return nil, nil
		}
	}

	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil, nil
	}

	// First row carries the column headers, the rest are loans.
	var headers []string
	rows.First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(cell.Text()))
	})

	var loans []Loan
	var rowErr error
	rows.Slice(1, rows.Length()).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := make(map[string]string, len(headers))
		row.Find("th, td").Each(func(i int, cell *goquery.Selection) {
			if i < len(headers) {
				cells[headers[i]] = cell.Text()
			}
		})

		loan, err := loanFromRow(cells)
		if err != nil {
			rowErr = fmt.Errorf("parsing loan table row: %w", err)
			return false
		}
		loans = append(loans, loan)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return loans, nil
}
