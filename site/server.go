// Package site serves the calendar feed and the poller health check.
package site

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"iopac-calendar/calendar"
	"iopac-calendar/store"
)

// Server exposes the current store snapshot as an ics download. The
// alive callback reports whether the background poller is still running.
type Server struct {
	store     *store.Store
	eventName string
	icsPath   string
	alive     func() bool
}

func New(st *store.Store, eventName, icsPath string, alive func() bool) *Server {
	return &Server{
		store:     st,
		eventName: eventName,
		icsPath:   icsPath,
		alive:     alive,
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get(s.icsPath, s.handleCalendar)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Router(),
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("Listening", "addr", srv.Addr, "path", s.icsPath)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	cal := calendar.Build(s.store.Snapshot(), s.eventName)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.filename()))
	if err := cal.SerializeTo(w); err != nil {
		slog.Error("Error writing calendar response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.alive() {
		http.Error(w, "Background task down", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// filename is the download name for the feed, derived from its web path.
func (s *Server) filename() string {
	name := strings.TrimSuffix(path.Base(s.icsPath), ".ics")
	if name == "" || name == "." || name == "/" {
		name = "iopac"
	}
	return name + ".ics"
}

// HealthCheck probes a locally running instance. Container health checks
// invoke the binary with -H, which calls this and exits accordingly.
func HealthCheck(port int) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/health", port))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %s", resp.Status)
	}
	return nil
}
