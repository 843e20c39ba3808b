// Package extract turns the tables on a loaded catalog page into records.
//
// Two strategies walk the same table > tr > td structure: ElementExtractor asks
// the browser for every element handle, HTMLExtractor pulls the document once
// and walks it with goquery. Rows with fewer than models.MinCells cells are
// dropped. A row whose cells cannot be read is skipped and logged; the rest of
// the page is still extracted.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/law-makers/partscrape/internal/browser"
	"github.com/law-makers/partscrape/pkg/models"
	"github.com/rs/zerolog"
)

// Strategy names accepted by New
const (
	StrategyElements = "elements"
	StrategyHTML     = "html"
)

// ErrUnknownStrategy is returned by New for an unsupported strategy name
var ErrUnknownStrategy = errors.New("unknown extraction strategy")

// Result is everything extracted from one page
type Result struct {
	Records []models.Record
	// Short counts rows dropped for having too few cells
	Short int
	// Skipped counts rows dropped because a cell could not be read
	Skipped int
}

// Extractor pulls records from the current page
type Extractor interface {
	Extract(ctx context.Context, page browser.Page) (*Result, error)
}

// New returns the extractor for strategy
func New(strategy string, logger zerolog.Logger) (Extractor, error) {
	switch strategy {
	case "", StrategyElements:
		return NewElementExtractor(logger), nil
	case StrategyHTML:
		return NewHTMLExtractor(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// add appends cells to res as a record, or counts it as short
func add(res *Result, cells []string, logger zerolog.Logger) {
	logger.Debug().Str("row", strings.Join(cells, ", ")).Msg("Row data")

	rec := models.Record{Cells: cells}
	if !rec.Valid() {
		res.Short++
		return
	}
	res.Records = append(res.Records, rec)
}
