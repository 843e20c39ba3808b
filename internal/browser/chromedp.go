package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// ChromeDriver drives a single Chrome tab through the DevTools protocol
type ChromeDriver struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	quitOnce    sync.Once
}

// NewChrome starts or attaches to Chrome. With opts.RemoteURL set it connects
// to an already running browser's DevTools endpoint instead of launching one.
func NewChrome(ctx context.Context, opts Options) (*ChromeDriver, error) {
	var allocCtx context.Context
	var allocCancel context.CancelFunc

	if opts.RemoteURL != "" {
		log.Debug().Str("url", opts.RemoteURL).Msg("Connecting to remote Chrome")
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), execOptions(opts)...)
	}

	// The tab context outlives every call; per-call contexts are derived from it.
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	d := &ChromeDriver{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
	}

	if err := ctx.Err(); err != nil {
		d.Quit()
		return nil, err
	}
	// First Run allocates the browser, so it must use the long-lived context.
	if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
		d.Quit()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	log.Debug().Bool("remote", opts.RemoteURL != "").Msg("Chrome session ready")
	return d, nil
}

func execOptions(opts Options) []chromedp.ExecAllocatorOption {
	width, height := opts.WindowWidth, opts.WindowHeight
	if width <= 0 || height <= 0 {
		width, height = 1024, 768
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.WindowSize(width, height),
	}

	if path := FindChrome(opts.ExecPath); path != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(path)}, allocOpts...)
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}
	return allocOpts
}

// Name returns the backend name
func (d *ChromeDriver) Name() string {
	return DriverChromedp
}

// derive returns a context bound to the tab that is also cancelled with ctx
// and inherits its deadline.
func (d *ChromeDriver) derive(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(d.ctx)
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		parentCancel := cancel
		cancel = func() {
			cancelDeadline()
			parentCancel()
		}
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (d *ChromeDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := d.derive(ctx)
	defer cancel()
	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// Navigate loads url in the tab
func (d *ChromeDriver) Navigate(ctx context.Context, url string) error {
	if err := d.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// FindElement returns the first node matching loc
func (d *ChromeDriver) FindElement(ctx context.Context, loc Locator) (Element, error) {
	els, err := d.FindElements(ctx, loc)
	if err != nil {
		return nil, err
	}
	return first(els, loc)
}

// FindElements queries the document without waiting for matches to appear
func (d *ChromeDriver) FindElements(ctx context.Context, loc Locator) ([]Element, error) {
	return d.query(ctx, loc)
}

func (d *ChromeDriver) query(ctx context.Context, loc Locator, opts ...chromedp.QueryOption) ([]Element, error) {
	var nodes []*cdp.Node
	opts = append([]chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}, opts...)
	if err := d.run(ctx, chromedp.Nodes(loc.Selector(), &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("query %s: %w", loc, err)
	}

	els := make([]Element, len(nodes))
	for i, n := range nodes {
		els[i] = &chromeElement{d: d, node: n}
	}
	return els, nil
}

// HTML returns the outer HTML of the document element
func (d *ChromeDriver) HTML(ctx context.Context) (string, error) {
	var html string
	if err := d.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read document html: %w", err)
	}
	return html, nil
}

// Quit closes the tab and the browser (or the remote connection)
func (d *ChromeDriver) Quit() error {
	d.quitOnce.Do(func() {
		d.cancel()
		d.allocCancel()
		log.Debug().Msg("Chrome session closed")
	})
	return nil
}

type chromeElement struct {
	d    *ChromeDriver
	node *cdp.Node
}

func (e *chromeElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	if err := e.d.run(ctx, chromedp.JavascriptAttribute(e.ids(), "innerText", &text, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("read text of <%s>: %w", strings.ToLower(e.node.NodeName), err)
	}
	return strings.TrimSpace(text), nil
}

func (e *chromeElement) Click(ctx context.Context) error {
	if err := e.d.run(ctx, chromedp.Click(e.ids(), chromedp.ByNodeID)); err != nil {
		return fmt.Errorf("click <%s>: %w", strings.ToLower(e.node.NodeName), err)
	}
	return nil
}

func (e *chromeElement) FindElements(ctx context.Context, loc Locator) ([]Element, error) {
	return e.d.query(ctx, loc, chromedp.FromNode(e.node))
}
