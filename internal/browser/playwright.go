package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"
)

// PlaywrightDriver drives one Chromium page through playwright
type PlaywrightDriver struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	context  playwright.BrowserContext
	page     playwright.Page
	quitOnce sync.Once
	quitErr  error
}

// NewPlaywright launches Chromium, or connects over CDP when opts.RemoteURL is set
func NewPlaywright(opts Options) (*PlaywrightDriver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var b playwright.Browser
	if opts.RemoteURL != "" {
		log.Debug().Str("url", opts.RemoteURL).Msg("Connecting to remote browser over CDP")
		b, err = pw.Chromium.ConnectOverCDP(opts.RemoteURL)
	} else {
		launch := playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(opts.Headless),
			Args: []string{
				"--disable-blink-features=AutomationControlled",
				"--disable-dev-shm-usage",
				"--no-sandbox",
			},
		}
		if opts.ExecPath != "" {
			launch.ExecutablePath = playwright.String(opts.ExecPath)
		}
		if opts.Proxy != "" {
			launch.Proxy = &playwright.Proxy{Server: opts.Proxy}
		}
		b, err = pw.Chromium.Launch(launch)
	}
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	width, height := opts.WindowWidth, opts.WindowHeight
	if width <= 0 || height <= 0 {
		width, height = 1024, 768
	}
	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: width, Height: height},
	}
	if opts.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(opts.UserAgent)
	}

	bctx, err := b.NewContext(contextOpts)
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	log.Debug().Bool("remote", opts.RemoteURL != "").Msg("Playwright session ready")
	return &PlaywrightDriver{pw: pw, browser: b, context: bctx, page: page}, nil
}

// Name returns the backend name
func (d *PlaywrightDriver) Name() string {
	return DriverPlaywright
}

// Navigate loads url. The playwright timeout is taken from ctx's deadline.
func (d *PlaywrightDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateLoad}
	if ms, ok := timeoutMillis(ctx); ok {
		opts.Timeout = playwright.Float(ms)
	}
	if _, err := d.page.Goto(url, opts); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// FindElement returns the first match or ErrNotFound
func (d *PlaywrightDriver) FindElement(ctx context.Context, loc Locator) (Element, error) {
	els, err := d.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	return first(els, loc)
}

// FindElements queries the page without waiting
func (d *PlaywrightDriver) FindElements(ctx context.Context, loc Locator) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := d.page.QuerySelectorAll(loc.Selector())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", loc, err)
	}
	return wrapHandles(handles), nil
}

// HTML returns the serialized page
func (d *PlaywrightDriver) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := d.page.Content()
	if err != nil {
		return "", fmt.Errorf("read document html: %w", err)
	}
	return html, nil
}

// Quit closes the page, the browser and the playwright driver process
func (d *PlaywrightDriver) Quit() error {
	d.quitOnce.Do(func() {
		var errs []error
		if err := d.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close context: %w", err))
		}
		if err := d.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
		if err := d.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
		d.quitErr = errors.Join(errs...)
		log.Debug().Msg("Playwright session closed")
	})
	return d.quitErr
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

func wrapHandles(handles []playwright.ElementHandle) []Element {
	els := make([]Element, len(handles))
	for i, h := range handles {
		els[i] = &playwrightElement{handle: h}
	}
	return els
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := e.handle.InnerText()
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (e *playwrightElement) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts := playwright.ElementHandleClickOptions{}
	if ms, ok := timeoutMillis(ctx); ok {
		opts.Timeout = playwright.Float(ms)
	}
	if err := e.handle.Click(opts); err != nil {
		return fmt.Errorf("click: %w", err)
	}
	return nil
}

func (e *playwrightElement) FindElements(ctx context.Context, loc Locator) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := e.handle.QuerySelectorAll(loc.Selector())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", loc, err)
	}
	return wrapHandles(handles), nil
}

// timeoutMillis converts ctx's remaining time into a playwright timeout
func timeoutMillis(ctx context.Context) (float64, bool) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0, false
	}
	remaining := time.Until(deadline)
	if remaining < time.Millisecond {
		remaining = time.Millisecond
	}
	return float64(remaining.Milliseconds()), true
}
