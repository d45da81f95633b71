package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"

	"iopac-calendar/config"
	"iopac-calendar/scraper"
	"iopac-calendar/site"
	"iopac-calendar/store"
)

// CLI holds all flags. Each one can also come from the environment, so
// container setups stay flag-free.
type CLI struct {
	Port        int    `short:"P" env:"PORT" default:"8080" help:"Port to listen on."`
	Config      string `short:"c" env:"CONFIG_FILE" default:"config.yaml" help:"Config file path."`
	Path        string `short:"p" env:"ICS_PATH" default:"/iopac.ics" help:"Web path for the ics file."`
	SleepTime   int    `short:"s" env:"SLEEP_TIME" default:"30" help:"Sleep time in seconds between consecutive IOPAC checks."`
	Name        string `short:"n" env:"EVENT_NAME" default:"Bücherei Rückgabe" help:"iCalendar event name."`
	Debug       bool   `env:"DEBUG" help:"Enable debug logging."`
	HealthCheck bool   `short:"H" help:"Perform health check on localhost and exit."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("iopac-calendar"),
		kong.Description("Serves library due dates from IOPAC accounts as an iCalendar feed."),
		kong.UsageOnError(),
	)

	initLogging(cli.Debug)

	if cli.HealthCheck {
		slog.Info("Performing health check")
		if err := site.HealthCheck(cli.Port); err != nil {
			slog.Error("Health check failed", "error", err)
			os.Exit(1)
		}
		slog.Info("OK")
		return
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	st := store.New()
	scr := scraper.New(cfg)

	// The first cycle runs before anything is served. Starting with a
	// feed that silently misses accounts is worse than not starting.
	data, err := scr.Update()
	if err != nil {
		slog.Error("Initial update failed", "error", err)
		os.Exit(1)
	}
	st.Set(data)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	poller := NewPoller(scr.Update, st, time.Duration(cli.SleepTime)*time.Second)
	go poller.Run(ctx)

	server := site.New(st, cli.Name, cli.Path, poller.Alive)
	if err := server.Run(ctx, cli.Port); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Shutdown")
}

func initLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{Level: level})
	slog.SetDefault(slog.New(handler))
}
