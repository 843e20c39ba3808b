// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/law-makers/partscrape/internal/batch"
	"github.com/law-makers/partscrape/internal/browser"
	"github.com/law-makers/partscrape/internal/config"
	"github.com/law-makers/partscrape/internal/extract"
	"github.com/law-makers/partscrape/internal/progress"
	"github.com/law-makers/partscrape/internal/ratelimit"
	"github.com/law-makers/partscrape/internal/scrape"
	"github.com/law-makers/partscrape/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TimeFormat is used for console log timestamps
const TimeFormat = "2006-01-02 15:04:05"

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command. The browser is started lazily, so commands
// that only inspect local state never launch one. Use Close() to release it.
type Application struct {
	Config    *config.Config
	Logger    *zerolog.Logger
	Progress  *progress.Store
	Batches   *batch.Manager
	Extractor extract.Extractor
	Limiter   ratelimit.RateLimiter

	driver    browser.Driver
	driverMu  sync.Mutex
	newDriver func(ctx context.Context, opts browser.Options) (browser.Driver, error)
	closeOnce sync.Once
	startTime time.Time
}

// New creates and initializes a new Application. Logs go to out, or stdout when out is nil.
func New(ctx context.Context, cfg *config.Config, out io.Writer) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if out == nil {
		out = os.Stdout
	}

	logger := NewLogger(cfg, out)
	log.Logger = logger
	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	extractor, err := extract.New(cfg.Extractor, logger)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.NewDomainLimiter(cfg.PagesPerSecond, 1)
	logger.Debug().Float64("pages_per_second", cfg.PagesPerSecond).Msg("Rate limiter initialized")

	return &Application{
		Config:    cfg,
		Logger:    &logger,
		Progress:  progress.NewStore(cfg.ProgressFile),
		Batches:   batch.NewManager(cfg.OutputDir, logger),
		Extractor: extractor,
		Limiter:   limiter,
		newDriver: browser.New,
		startTime: time.Now(),
	}, nil
}

// NewLogger builds the process logger: a console writer with second precision
// timestamps, or JSON lines when cfg.JSONLog is set.
func NewLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	var level zerolog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	writer := out
	if !cfg.JSONLog {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: TimeFormat}
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// BrowserOptions maps the configuration to driver options
func (a *Application) BrowserOptions() browser.Options {
	cfg := a.Config
	opts := browser.Options{
		Driver:       cfg.Driver,
		RemoteURL:    cfg.RemoteURL,
		Headless:     cfg.Headless,
		UserAgent:    cfg.UserAgent,
		Proxy:        cfg.Proxy,
		WindowWidth:  cfg.WindowWidth,
		WindowHeight: cfg.WindowHeight,
	}
	if cfg.RemoteURL == "" {
		opts.ExecPath = cfg.ChromePath
	}
	return opts
}

// EnsureDriver lazily starts the browser session if it has not already been
// started. Callers should provide a context with an appropriate timeout.
func (a *Application) EnsureDriver(ctx context.Context) (browser.Driver, error) {
	if a == nil {
		return nil, fmt.Errorf("application is nil")
	}

	a.driverMu.Lock()
	defer a.driverMu.Unlock()

	if a.driver != nil {
		return a.driver, nil
	}

	opts := a.BrowserOptions()
	a.Logger.Debug().
		Str("driver", opts.Driver).
		Str("remote", opts.RemoteURL).
		Str("exec", opts.ExecPath).
		Msg("Starting browser on demand")

	d, err := a.newDriver(ctx, opts)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to start browser")
		return nil, err
	}
	a.driver = d

	a.Logger.Info().Str("driver", d.Name()).Msg("Browser started")
	return d, nil
}

// NewRunner starts the browser and assembles a scrape run from the configuration
func (a *Application) NewRunner(ctx context.Context, onPage func(models.PageProgress)) (*scrape.Runner, error) {
	if err := os.MkdirAll(a.Config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	d, err := a.EnsureDriver(ctx)
	if err != nil {
		return nil, err
	}

	return scrape.New(a.ScrapeOptions(onPage), scrape.Deps{
		Driver:    d,
		Progress:  a.Progress,
		Batches:   a.Batches,
		Extractor: a.Extractor,
		Limiter:   a.Limiter,
		Logger:    *a.Logger,
	})
}

// ScrapeOptions maps the configuration to run options
func (a *Application) ScrapeOptions(onPage func(models.PageProgress)) scrape.Options {
	cfg := a.Config
	opts := scrape.Options{
		BaseURL:           cfg.BaseURL,
		PagesPerBatch:     cfg.PagesPerBatch,
		ReadyLocator:      browser.ByID(cfg.ReadySelector),
		PageCountLocator:  browser.ByCSS(cfg.PageCountSelector),
		ReadyTimeout:      cfg.ReadyTimeout,
		PollInterval:      cfg.PollInterval,
		ConsentTimeout:    cfg.ConsentTimeout,
		NavigationTimeout: cfg.NavigationTimeout,
		ReadyRetries:      cfg.ReadyRetries,
		OnPage:            onPage,
	}
	if cfg.ConsentID != "" {
		opts.ConsentLocator = browser.ByID(cfg.ConsentID)
	}
	return opts
}

// Close gracefully shuts down the application and all its resources. It is
// safe to call more than once.
func (a *Application) Close(ctx context.Context) error {
	var err error
	a.closeOnce.Do(func() {
		a.driverMu.Lock()
		d := a.driver
		a.driver = nil
		a.driverMu.Unlock()

		if d != nil {
			if err = d.Quit(); err != nil {
				a.Logger.Warn().Err(err).Msg("Error closing browser")
			}
		}

		a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	})
	return err
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
