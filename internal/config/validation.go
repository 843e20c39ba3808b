package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/law-makers/partscrape/internal/browser"
	"github.com/law-makers/partscrape/internal/extract"
)

func validate(c *Config) error {
	if err := validateURL(c.BaseURL, "http", "https"); err != nil {
		return fmt.Errorf("base url: %w", err)
	}
	if c.RemoteURL != "" {
		if err := validateURL(c.RemoteURL, "http", "https", "ws", "wss"); err != nil {
			return fmt.Errorf("remote url: %w", err)
		}
	}

	switch c.Driver {
	case browser.DriverChromedp, browser.DriverPlaywright:
	default:
		return fmt.Errorf("driver must be %s or %s, got %q", browser.DriverChromedp, browser.DriverPlaywright, c.Driver)
	}
	switch c.Extractor {
	case extract.StrategyElements, extract.StrategyHTML:
	default:
		return fmt.Errorf("extractor must be %s or %s, got %q", extract.StrategyElements, extract.StrategyHTML, c.Extractor)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	if strings.TrimSpace(c.ReadySelector) == "" {
		return fmt.Errorf("ready selector is required")
	}
	if strings.TrimSpace(c.PageCountSelector) == "" {
		return fmt.Errorf("page count selector is required")
	}
	if strings.TrimSpace(c.ProgressFile) == "" {
		return fmt.Errorf("progress file is required")
	}

	if c.PagesPerBatch <= 0 {
		return fmt.Errorf("pages per batch must be > 0")
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window size must be > 0")
	}
	if c.ReadyTimeout <= 0 {
		return fmt.Errorf("ready timeout must be > 0")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be > 0")
	}
	if c.ReadyRetries < 0 {
		return fmt.Errorf("ready retries must be >= 0")
	}
	if c.ConsentTimeout < 0 || c.NavigationTimeout < 0 {
		return fmt.Errorf("timeouts must be >= 0")
	}
	if c.PagesPerSecond < 0 {
		return fmt.Errorf("rate must be >= 0")
	}
	return nil
}

func validateURL(raw string, schemes ...string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	ok := false
	for _, s := range schemes {
		if parsed.Scheme == s {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("invalid URL scheme: must be %s, got %q", strings.Join(schemes, " or "), parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}
	return nil
}
