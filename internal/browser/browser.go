// Package browser defines the small browser-automation surface the scraper
// depends on and provides chromedp and playwright implementations of it.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Common browser errors
var (
	ErrNotFound      = errors.New("element not found")
	ErrUnknownDriver = errors.New("unknown browser driver")
)

// LocatorKind selects how a Locator value is interpreted
type LocatorKind int

const (
	KindID LocatorKind = iota
	KindCSS
	KindTag
)

// Locator identifies elements on a page
type Locator struct {
	Kind  LocatorKind
	Value string
}

// ByID locates an element by its id attribute
func ByID(id string) Locator { return Locator{Kind: KindID, Value: id} }

// ByCSS locates elements with a CSS selector
func ByCSS(selector string) Locator { return Locator{Kind: KindCSS, Value: selector} }

// ByTag locates elements by tag name
func ByTag(name string) Locator { return Locator{Kind: KindTag, Value: name} }

// Selector renders the locator as a CSS selector understood by both backends
func (l Locator) Selector() string {
	switch l.Kind {
	case KindID:
		return "[id=" + strconv.Quote(l.Value) + "]"
	default:
		return l.Value
	}
}

func (l Locator) String() string {
	switch l.Kind {
	case KindID:
		return "id=" + l.Value
	case KindTag:
		return "tag=" + l.Value
	default:
		return "css=" + l.Value
	}
}

// Element is a handle to a node on the current page
type Element interface {
	// Text returns the rendered text of the element, trimmed
	Text(ctx context.Context) (string, error)
	// Click clicks the element
	Click(ctx context.Context) error
	// FindElements returns descendants matching loc; no match is an empty slice
	FindElements(ctx context.Context, loc Locator) ([]Element, error)
}

// Page is the currently loaded document
type Page interface {
	// FindElement returns the first match or ErrNotFound. It does not wait.
	FindElement(ctx context.Context, loc Locator) (Element, error)
	// FindElements returns all matches; no match is an empty slice
	FindElements(ctx context.Context, loc Locator) ([]Element, error)
	// HTML returns the serialized document
	HTML(ctx context.Context) (string, error)
}

// Driver is one browser session
type Driver interface {
	Page
	// Navigate loads url and returns once the browser reports the load finished
	Navigate(ctx context.Context, url string) error
	// Quit ends the session. It is safe to call more than once.
	Quit() error
	// Name returns the backend name
	Name() string
}

// Options configures a driver backend
type Options struct {
	Driver       string
	RemoteURL    string
	ExecPath     string
	Headless     bool
	UserAgent    string
	Proxy        string
	WindowWidth  int
	WindowHeight int
}

// Driver backend names
const (
	DriverChromedp   = "chromedp"
	DriverPlaywright = "playwright"
)

// New starts a browser session with the backend named in opts
func New(ctx context.Context, opts Options) (Driver, error) {
	switch opts.Driver {
	case "", DriverChromedp:
		return NewChrome(ctx, opts)
	case DriverPlaywright:
		return NewPlaywright(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

// first returns the first element of els or ErrNotFound
func first(els []Element, loc Locator) (Element, error) {
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	return els[0], nil
}
