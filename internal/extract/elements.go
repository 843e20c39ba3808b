package extract

import (
	"context"
	"fmt"

	"github.com/law-makers/partscrape/internal/browser"
	"github.com/rs/zerolog"
)

var (
	tableTag = browser.ByTag("table")
	rowTag   = browser.ByTag("tr")
	cellTag  = browser.ByTag("td")
)

// ElementExtractor reads cells one element at a time through the driver
type ElementExtractor struct {
	logger zerolog.Logger
}

// NewElementExtractor creates an ElementExtractor
func NewElementExtractor(logger zerolog.Logger) *ElementExtractor {
	return &ElementExtractor{logger: logger}
}

// Extract walks every table, row and cell on page
func (x *ElementExtractor) Extract(ctx context.Context, page browser.Page) (*Result, error) {
	tables, err := page.FindElements(ctx, tableTag)
	if err != nil {
		return nil, fmt.Errorf("find tables: %w", err)
	}

	res := &Result{}
	for ti, table := range tables {
		rows, err := table.FindElements(ctx, rowTag)
		if err != nil {
			return nil, fmt.Errorf("find rows of table %d: %w", ti, err)
		}

		for ri, row := range rows {
			cells, err := x.cells(ctx, row)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				x.logger.Warn().Err(err).Int("table", ti).Int("row", ri).Msg("Skipping unreadable row")
				res.Skipped++
				continue
			}
			add(res, cells, x.logger)
		}
	}
	return res, nil
}

func (x *ElementExtractor) cells(ctx context.Context, row browser.Element) ([]string, error) {
	tds, err := row.FindElements(ctx, cellTag)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(tds))
	for i, td := range tds {
		text, err := td.Text(ctx)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		texts = append(texts, text)
	}
	return texts, nil
}
