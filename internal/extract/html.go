package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/partscrape/internal/browser"
	"github.com/rs/zerolog"
)

// HTMLExtractor fetches the rendered document once and parses it locally
type HTMLExtractor struct {
	logger zerolog.Logger
}

// NewHTMLExtractor creates an HTMLExtractor
func NewHTMLExtractor(logger zerolog.Logger) *HTMLExtractor {
	return &HTMLExtractor{logger: logger}
}

// Extract parses the page's HTML with goquery
func (x *HTMLExtractor) Extract(ctx context.Context, page browser.Page) (*Result, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return x.Parse(html)
}

// Parse extracts records from an HTML document
func (x *HTMLExtractor) Parse(html string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	res := &Result{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td").Map(func(_ int, td *goquery.Selection) string {
				return strings.TrimSpace(td.Text())
			})
			add(res, cells, x.logger)
		})
	})
	return res, nil
}
