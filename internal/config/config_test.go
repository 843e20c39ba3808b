package config

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	RegisterFlags(cmd)
	cmd.Flags().Bool("progress", false, "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(newCmd(t), env(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 2000, cfg.PagesPerBatch)
	assert.Equal(t, "progress.txt", cfg.ProgressFile)
	assert.Equal(t, 2*time.Second, cfg.ReadyTimeout)
	assert.Equal(t, 200*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 1024, cfg.WindowWidth)
	assert.Equal(t, 768, cfg.WindowHeight)
	assert.Equal(t, "chromedp", cfg.Driver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Headless)
	assert.False(t, cfg.ShowProgress)
}

func TestLoad_NilCommand(t *testing.T) {
	cfg, err := load(nil, env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Environment(t *testing.T) {
	cfg, err := load(newCmd(t), env(map[string]string{
		"PARTSCRAPE_REMOTE_URL":      "http://localhost:4444/",
		"PARTSCRAPE_PAGES_PER_BATCH": "500",
		"PARTSCRAPE_READY_TIMEOUT":   "5s",
		"PARTSCRAPE_HEADLESS":        "false",
		"PARTSCRAPE_RATE":            "1.5",
		"PARTSCRAPE_DRIVER":          "playwright",
		"PARTSCRAPE_LOG_LEVEL":       "warn",
		"PARTSCRAPE_PROXY":           "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4444/", cfg.RemoteURL)
	assert.Equal(t, 500, cfg.PagesPerBatch)
	assert.Equal(t, 5*time.Second, cfg.ReadyTimeout)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 1.5, cfg.PagesPerSecond)
	assert.Equal(t, "playwright", cfg.Driver)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.Proxy)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	cmd := newCmd(t, "--pages-per-batch=10", "--ready-timeout=750ms", "--progress", "-v", "--output-dir", "out")
	cfg, err := load(cmd, env(map[string]string{
		"PARTSCRAPE_PAGES_PER_BATCH": "500",
		"PARTSCRAPE_OUTPUT_DIR":      "elsewhere",
	}))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.PagesPerBatch)
	assert.Equal(t, 750*time.Millisecond, cfg.ReadyTimeout)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.True(t, cfg.ShowProgress)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_UnchangedFlagsKeepEnvironment(t *testing.T) {
	cfg, err := load(newCmd(t), env(map[string]string{"PARTSCRAPE_EXTRACTOR": "html"}))
	require.NoError(t, err)
	assert.Equal(t, "html", cfg.Extractor)
}

func TestLoad_Quiet(t *testing.T) {
	cfg, err := load(newCmd(t, "-q"), env(nil))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_BadEnvironmentValue(t *testing.T) {
	_, err := load(newCmd(t), env(map[string]string{"PARTSCRAPE_PAGES_PER_BATCH": "lots"}))
	assert.ErrorContains(t, err, "PARTSCRAPE_PAGES_PER_BATCH")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"relative base url", func(c *Config) { c.BaseURL = "/catalog" }, false},
		{"ftp base url", func(c *Config) { c.BaseURL = "ftp://example.com" }, false},
		{"websocket remote", func(c *Config) { c.RemoteURL = "ws://127.0.0.1:9222/devtools/browser/abc" }, true},
		{"bad remote", func(c *Config) { c.RemoteURL = "localhost" }, false},
		{"unknown driver", func(c *Config) { c.Driver = "selenium" }, false},
		{"unknown extractor", func(c *Config) { c.Extractor = "regex" }, false},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }, false},
		{"zero pages per batch", func(c *Config) { c.PagesPerBatch = 0 }, false},
		{"zero ready timeout", func(c *Config) { c.ReadyTimeout = 0 }, false},
		{"zero poll", func(c *Config) { c.PollInterval = 0 }, false},
		{"negative retries", func(c *Config) { c.ReadyRetries = -1 }, false},
		{"no retries", func(c *Config) { c.ReadyRetries = 0 }, true},
		{"no consent", func(c *Config) { c.ConsentID = "" }, true},
		{"no ready selector", func(c *Config) { c.ReadySelector = " " }, false},
		{"no progress file", func(c *Config) { c.ProgressFile = "" }, false},
		{"negative rate", func(c *Config) { c.PagesPerSecond = -1 }, false},
		{"zero window", func(c *Config) { c.WindowWidth = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
