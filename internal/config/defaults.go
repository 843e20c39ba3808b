package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel = "info"
	DefaultJSONLog  = false

	DefaultBaseURL           = "https://catalog.locatory.com/BrooksandMaldiniCorporation"
	DefaultReadySelector     = "sidebarLogo"
	DefaultConsentID         = "CybotCookiebotDialogBodyLevelButtonLevelOptinAllowallSelection"
	DefaultPageCountSelector = "#topPaging > div:nth-child(1) > span"

	DefaultPagesPerBatch = 2000
	DefaultProgressFile  = "progress.txt"
	DefaultOutputDir     = "."

	DefaultDriver       = "chromedp"
	DefaultExtractor    = "elements"
	DefaultHeadless     = true
	DefaultWindowWidth  = 1024
	DefaultWindowHeight = 768

	DefaultReadyTimeout      = 2 * time.Second
	DefaultPollInterval      = 200 * time.Millisecond
	DefaultReadyRetries      = 1
	DefaultConsentTimeout    = 3 * time.Second
	DefaultNavigationTimeout = 60 * time.Second
	DefaultPagesPerSecond    = 0.0 // unlimited

	EnvPrefix = "PARTSCRAPE_"
)
