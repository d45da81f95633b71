package main

import (
	"context"
	"log/slog"
	"time"

	"iopac-calendar/scraper"
	"iopac-calendar/store"
)

// Poller periodically refreshes the store with a fresh scrape cycle.
type Poller struct {
	update   func() (scraper.Data, error)
	store    *store.Store
	interval time.Duration
	done     chan struct{}
}

func NewPoller(update func() (scraper.Data, error), st *store.Store, interval time.Duration) *Poller {
	return &Poller{
		update:   update,
		store:    st,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Run loops until ctx is cancelled. Cycle errors are logged, never
// propagated: whatever the cycle did aggregate is installed regardless,
// so a bad password on one account cannot blank out the others.
func (p *Poller) Run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			data, err := p.update()
			p.store.Set(data)
			if err != nil {
				slog.Error("Update cycle failed", "error", err)
			}
		}
	}
}

// Alive reports whether the polling loop is still running. A failing but
// running loop is alive.
func (p *Poller) Alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}
