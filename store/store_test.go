package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iopac-calendar/scraper"
)

func TestSetReplacesWholesale(t *testing.T) {
	s := New()
	assert.Empty(t, s.Snapshot())

	due := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	first := scraper.Data{due: {{Account: "A", Title: "Krabat"}}}
	s.Set(first)
	assert.Equal(t, first, s.Snapshot())

	later := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	second := scraper.Data{later: {{Account: "B", Title: "Momo"}}}
	s.Set(second)

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	assert.NotContains(t, snapshot, due, "previous cycle must be fully replaced")
}

func TestConcurrentReadersAndWriter(t *testing.T) {
	s := New()
	due := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				data := s.Snapshot()
				if loans, ok := data[due]; ok {
					// A snapshot is always one complete cycle.
					assert.Len(t, loans, 2)
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			s.Set(scraper.Data{due: {
				{Account: "A", Title: "Krabat"},
				{Account: "B", Title: "Momo"},
			}})
		}
	}()

	wg.Wait()
}
