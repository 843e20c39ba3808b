package scrape

import (
	"context"
	"net/url"
	"strconv"

	"github.com/law-makers/partscrape/internal/browser"
	"github.com/law-makers/partscrape/internal/browser/browsertest"
)

var (
	readyMarker = browser.ByID("sidebarLogo")
	consentBtn  = browser.ByID("CybotCookiebotDialogBodyLevelButtonLevelOptinAllowallSelection")
	pagerText   = browser.ByCSS("#topPaging > div:nth-child(1) > span")
	tableTag    = browser.ByTag("table")
)

// site is a scripted catalog. Each page number maps to the table rows it lists.
type site struct {
	pageCount string
	rows      map[int][][]string
	consent   *browsertest.Element
	// notReady holds how many more loads of a page come up without the ready marker
	notReady map[int]int
	navErr   map[int]error

	current     *browsertest.Page
	navigations []int
	quits       int
}

func newSite(pageCount string, rows map[int][][]string) *site {
	return &site{
		pageCount: pageCount,
		rows:      rows,
		notReady:  make(map[int]int),
		navErr:    make(map[int]error),
		current:   browsertest.NewPage(),
	}
}

func (s *site) Navigate(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	page, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil {
		return err
	}
	s.navigations = append(s.navigations, page)
	if err := s.navErr[page]; err != nil {
		return err
	}

	p := browsertest.NewPage()
	if s.notReady[page] > 0 {
		s.notReady[page]--
	} else {
		p.Add(readyMarker, &browsertest.Element{})
	}
	p.Add(pagerText, &browsertest.Element{Content: s.pageCount})
	if s.consent != nil {
		p.Add(consentBtn, s.consent)
	}
	p.Add(tableTag, browsertest.Table(s.rows[page]...))
	s.current = p
	return nil
}

func (s *site) FindElement(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	return s.current.FindElement(ctx, loc)
}

func (s *site) FindElements(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	return s.current.FindElements(ctx, loc)
}

func (s *site) HTML(ctx context.Context) (string, error) {
	return s.current.HTML(ctx)
}

func (s *site) Quit() error {
	s.quits++
	return nil
}

func (s *site) Name() string { return "fake" }

// row builds a four-cell catalog row for partNo
func row(partNo string) []string {
	return []string{partNo, "Desc " + partNo, "NE", "1"}
}
