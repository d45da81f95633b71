package scraper

import (
	"log/slog"
	"sync"
)

type fetchResult struct {
	account string
	loans   []Loan
	err     error
}

// Update fetches all accounts concurrently and merges the successful
// results into a fresh due-date index. The returned error is the first
// failure seen; it is informational only, the data of the remaining
// accounts is still complete and usable.
func (s *Scraper) Update() (Data, error) {
	slog.Info("Updating IOPAC data ...")

	results := make(chan fetchResult, len(s.cfg.Accounts))
	var wg sync.WaitGroup
	for name, account := range s.cfg.Accounts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// The library reference was validated at config load time.
			library := s.cfg.LibraryFor(account)
			loans, err := s.fetch(library.URL, account.CustomerID, account.Password)
			results <- fetchResult{account: name, loans: loans, err: err}
		}()
	}
	wg.Wait()
	close(results)

	data := make(Data)
	var firstErr error
	for res := range results {
		if res.err != nil {
			slog.Error("Account update failed", "account", res.account, "error", res.err)
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		for _, loan := range res.loans {
			loan.Account = res.account
			data[loan.ReturnOn] = append(data[loan.ReturnOn], loan)
		}
	}
	return data, firstErr
}
