package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	f := cmd.PersistentFlags()
	f.BoolP("verbose", "v", false, "Enable debug logging")
	f.BoolP("quiet", "q", false, "Suppress all output except errors")
	f.Bool("json", DefaultJSONLog, "Log and report in JSON lines")

	f.String("base-url", DefaultBaseURL, "Catalog listing URL; the page query parameter is added per page")
	f.String("ready-selector", DefaultReadySelector, "Id of the element that marks a loaded listing page")
	f.String("consent-id", DefaultConsentID, "Id of the cookie consent button (empty to skip)")
	f.String("page-count-selector", DefaultPageCountSelector, "CSS selector of the total page count text")

	f.String("driver", DefaultDriver, "Browser driver: chromedp or playwright")
	f.String("remote-url", "", "Connect to a running browser at this endpoint instead of launching one")
	f.Bool("headless", DefaultHeadless, "Run the launched browser headless")
	f.String("chrome-path", "", "Path to the Chrome/Chromium executable")
	f.Int("window-width", DefaultWindowWidth, "Browser window width")
	f.Int("window-height", DefaultWindowHeight, "Browser window height")
	f.String("user-agent", "", "Custom user agent string")
	f.String("proxy", "", "Set HTTP/SOCKS5 proxy (e.g., http://localhost:8080)")

	f.Int("pages-per-batch", DefaultPagesPerBatch, "Pages written to each batch file")
	f.String("progress-file", DefaultProgressFile, "Checkpoint file holding the last completed page")
	f.StringP("output-dir", "o", DefaultOutputDir, "Directory for batch files")
	f.String("extractor", DefaultExtractor, "Row extraction strategy: elements or html")

	f.Duration("ready-timeout", DefaultReadyTimeout, "How long to wait for each page to become ready")
	f.Duration("poll-interval", DefaultPollInterval, "How often to check for the ready marker")
	f.Int("ready-retries", DefaultReadyRetries, "Reloads of a page whose ready marker timed out")
	f.Duration("consent-timeout", DefaultConsentTimeout, "How long to wait for the cookie consent button")
	f.Duration("navigation-timeout", DefaultNavigationTimeout, "Hard timeout for a single page load (0 disables)")
	f.Float64("rate", DefaultPagesPerSecond, "Maximum page loads per second (0 for unlimited)")
}
