package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel     string
	JSONLog      bool
	ShowProgress bool

	// Target site
	BaseURL           string
	ReadySelector     string // id of the element that marks a loaded listing
	ConsentID         string // id of the cookie consent button, empty to skip
	PageCountSelector string // CSS selector of the total page count

	// Browser
	Driver       string
	RemoteURL    string // existing browser endpoint, empty to launch one
	Headless     bool
	ChromePath   string
	WindowWidth  int
	WindowHeight int
	UserAgent    string
	Proxy        string

	// Output
	PagesPerBatch int
	ProgressFile  string
	OutputDir     string
	Extractor     string

	// Timing
	ReadyTimeout      time.Duration
	PollInterval      time.Duration
	ReadyRetries      int
	ConsentTimeout    time.Duration
	NavigationTimeout time.Duration
	PagesPerSecond    float64
}

// Default returns a Config populated with the default constants
func Default() *Config {
	return &Config{
		LogLevel:          DefaultLogLevel,
		JSONLog:           DefaultJSONLog,
		BaseURL:           DefaultBaseURL,
		ReadySelector:     DefaultReadySelector,
		ConsentID:         DefaultConsentID,
		PageCountSelector: DefaultPageCountSelector,
		Driver:            DefaultDriver,
		Headless:          DefaultHeadless,
		WindowWidth:       DefaultWindowWidth,
		WindowHeight:      DefaultWindowHeight,
		PagesPerBatch:     DefaultPagesPerBatch,
		ProgressFile:      DefaultProgressFile,
		OutputDir:         DefaultOutputDir,
		Extractor:         DefaultExtractor,
		ReadyTimeout:      DefaultReadyTimeout,
		PollInterval:      DefaultPollInterval,
		ReadyRetries:      DefaultReadyRetries,
		ConsentTimeout:    DefaultConsentTimeout,
		NavigationTimeout: DefaultNavigationTimeout,
		PagesPerSecond:    DefaultPagesPerSecond,
	}
}

// setter parses a raw value into one Config field
type setter func(c *Config, v string) error

// binding ties a Config field to a CLI flag and an environment variable.
// Either name may be empty.
type binding struct {
	flag string
	env  string
	set  setter
}

var bindings = []binding{
	{"base-url", "BASE_URL", stringField(func(c *Config) *string { return &c.BaseURL })},
	{"ready-selector", "READY_SELECTOR", stringField(func(c *Config) *string { return &c.ReadySelector })},
	{"consent-id", "CONSENT_ID", stringField(func(c *Config) *string { return &c.ConsentID })},
	{"page-count-selector", "PAGE_COUNT_SELECTOR", stringField(func(c *Config) *string { return &c.PageCountSelector })},

	{"driver", "DRIVER", stringField(func(c *Config) *string { return &c.Driver })},
	{"remote-url", "REMOTE_URL", stringField(func(c *Config) *string { return &c.RemoteURL })},
	{"headless", "HEADLESS", boolField(func(c *Config) *bool { return &c.Headless })},
	{"chrome-path", "CHROME_PATH", stringField(func(c *Config) *string { return &c.ChromePath })},
	{"window-width", "WINDOW_WIDTH", intField(func(c *Config) *int { return &c.WindowWidth })},
	{"window-height", "WINDOW_HEIGHT", intField(func(c *Config) *int { return &c.WindowHeight })},
	{"user-agent", "USER_AGENT", stringField(func(c *Config) *string { return &c.UserAgent })},
	{"proxy", "PROXY", stringField(func(c *Config) *string { return &c.Proxy })},

	{"pages-per-batch", "PAGES_PER_BATCH", intField(func(c *Config) *int { return &c.PagesPerBatch })},
	{"progress-file", "PROGRESS_FILE", stringField(func(c *Config) *string { return &c.ProgressFile })},
	{"output-dir", "OUTPUT_DIR", stringField(func(c *Config) *string { return &c.OutputDir })},
	{"extractor", "EXTRACTOR", stringField(func(c *Config) *string { return &c.Extractor })},

	{"ready-timeout", "READY_TIMEOUT", durationField(func(c *Config) *time.Duration { return &c.ReadyTimeout })},
	{"poll-interval", "POLL_INTERVAL", durationField(func(c *Config) *time.Duration { return &c.PollInterval })},
	{"ready-retries", "READY_RETRIES", intField(func(c *Config) *int { return &c.ReadyRetries })},
	{"consent-timeout", "CONSENT_TIMEOUT", durationField(func(c *Config) *time.Duration { return &c.ConsentTimeout })},
	{"navigation-timeout", "NAVIGATION_TIMEOUT", durationField(func(c *Config) *time.Duration { return &c.NavigationTimeout })},
	{"rate", "RATE", floatField(func(c *Config) *float64 { return &c.PagesPerSecond })},

	{"", "LOG_LEVEL", stringField(func(c *Config) *string { return &c.LogLevel })},
	{"json", "JSON", boolField(func(c *Config) *bool { return &c.JSONLog })},
	{"progress", "PROGRESS", boolField(func(c *Config) *bool { return &c.ShowProgress })},
}

// Load builds a Config by layering defaults, PARTSCRAPE_* environment
// variables and explicitly set CLI flags, then validates it.
func Load(cmd *cobra.Command) (*Config, error) {
	return load(cmd, os.LookupEnv)
}

func load(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	for _, b := range bindings {
		if b.env == "" {
			continue
		}
		if v, ok := lookupEnv(EnvPrefix + b.env); ok && v != "" {
			if err := b.set(cfg, v); err != nil {
				return nil, fmt.Errorf("invalid %s%s: %w", EnvPrefix, b.env, err)
			}
		}
	}

	if cmd != nil {
		flags := cmd.Flags()
		for _, b := range bindings {
			if b.flag == "" || !flags.Changed(b.flag) {
				continue
			}
			if err := b.set(cfg, flags.Lookup(b.flag).Value.String()); err != nil {
				return nil, fmt.Errorf("invalid --%s: %w", b.flag, err)
			}
		}
		if changedTrue(cmd, "verbose") {
			cfg.LogLevel = "debug"
		}
		if changedTrue(cmd, "quiet") {
			cfg.LogLevel = "error"
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func changedTrue(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed && f.Value.String() == "true"
}

func stringField(field func(*Config) *string) setter {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func intField(field func(*Config) *int) setter {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func boolField(field func(*Config) *bool) setter {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func durationField(field func(*Config) *time.Duration) setter {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

func floatField(field func(*Config) *float64) setter {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}
