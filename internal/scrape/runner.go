// Package scrape runs the resumable page loop: it resumes from the progress
// checkpoint, walks the catalog one page at a time, and appends unseen part
// numbers to the batch file that owns each page.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/law-makers/partscrape/internal/batch"
	"github.com/law-makers/partscrape/internal/browser"
	"github.com/law-makers/partscrape/internal/extract"
	"github.com/law-makers/partscrape/internal/progress"
	"github.com/law-makers/partscrape/internal/ratelimit"
	"github.com/law-makers/partscrape/internal/reqctx"
	"github.com/law-makers/partscrape/internal/retry"
	"github.com/law-makers/partscrape/pkg/models"
	"github.com/rs/zerolog"
)

// Options controls one run
type Options struct {
	BaseURL       string
	PagesPerBatch int

	ReadyLocator     browser.Locator
	ConsentLocator   browser.Locator
	PageCountLocator browser.Locator

	ReadyTimeout      time.Duration
	PollInterval      time.Duration
	ConsentTimeout    time.Duration
	NavigationTimeout time.Duration
	// ReadyRetries is how many times a page is reloaded after its ready
	// marker times out. Zero makes the first timeout fatal.
	ReadyRetries int

	// OnPage is called after each page is checkpointed
	OnPage func(models.PageProgress)
}

// Deps are the collaborators a Runner drives. The Runner takes ownership of
// Driver and quits it when Run returns.
type Deps struct {
	Driver    browser.Driver
	Progress  *progress.Store
	Batches   *batch.Manager
	Extractor extract.Extractor
	Limiter   ratelimit.RateLimiter
	Logger    zerolog.Logger
}

// Runner holds the state of one scrape run
type Runner struct {
	opts Options
	base *url.URL

	driver    browser.Driver
	progress  *progress.Store
	batches   *batch.Manager
	extractor extract.Extractor
	limiter   ratelimit.RateLimiter
	logger    zerolog.Logger

	current *batch.Batch
	start   int
}

// New validates opts and assembles a Runner
func New(opts Options, deps Deps) (*Runner, error) {
	if deps.Driver == nil || deps.Progress == nil || deps.Batches == nil || deps.Extractor == nil {
		return nil, errors.New("scrape: driver, progress store, batch manager and extractor are required")
	}
	if opts.PagesPerBatch < 1 {
		return nil, fmt.Errorf("scrape: pages per batch must be positive, got %d", opts.PagesPerBatch)
	}
	if opts.ReadyLocator.Value == "" || opts.PageCountLocator.Value == "" {
		return nil, errors.New("scrape: ready and page count locators are required")
	}
	if opts.ReadyRetries < 0 {
		opts.ReadyRetries = 0
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = browser.DefaultPollInterval
	}

	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("scrape: invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("scrape: base URL must be absolute: %q", opts.BaseURL)
	}

	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.NewDomainLimiter(0, 1)
	}

	return &Runner{
		opts:      opts,
		base:      base,
		driver:    deps.Driver,
		progress:  deps.Progress,
		batches:   deps.Batches,
		extractor: deps.Extractor,
		limiter:   limiter,
		logger:    deps.Logger,
	}, nil
}

// PageURL returns the listing URL for page, keeping any query already on the base URL
func (r *Runner) PageURL(page int) string {
	u := *r.base
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// Run scrapes from the checkpointed page through the last page reported by the
// site. The summary is returned even when the run fails part way.
func (r *Runner) Run(ctx context.Context) (*models.Summary, error) {
	ctx = reqctx.WithRun(ctx)
	run := reqctx.FromContext(ctx)
	r.logger = r.logger.With().Str("run_id", run.RunID).Logger()

	sum := &models.Summary{RunID: run.RunID, StartedAt: run.StartTime}
	defer r.release(sum)

	start, err := r.progress.Read()
	if err != nil {
		return sum, stepErr(StepInit, 0, err)
	}
	if r.progress.Exists() {
		r.logger.Info().Int("page", start).Msg("Resuming from checkpoint")
	}
	r.start = start
	sum.StartPage = start

	if err := r.open(batch.IndexFor(start, r.opts.PagesPerBatch), sum); err != nil {
		return sum, stepErr(StepInit, start, err)
	}

	r.logger.Info().Int("page", start).Msg("Navigating to the initial page")
	if err := r.load(ctx, start); err != nil {
		return sum, err
	}

	sum.Consent = r.acceptConsent(ctx).String()

	total, err := r.pageCount(ctx)
	if err != nil {
		return sum, err
	}
	sum.TotalPages = total
	r.logger.Info().Int("total_pages", total).Msg("Total pages fetched")

	for page := start; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return sum, stepErr(StepNavigate, page, err)
		}
		rows, err := r.processPage(ctx, page, sum)
		if err != nil {
			return sum, err
		}
		if r.opts.OnPage != nil {
			r.opts.OnPage(models.PageProgress{Page: page, Start: start, Total: total, Rows: rows})
		}
	}

	r.logger.Info().
		Int("rows", sum.RowsWritten).
		Ints("batches", sum.Batches).
		Msg("Scraping complete")
	return sum, nil
}

// processPage runs one iteration of the loop and returns the rows it appended
func (r *Runner) processPage(ctx context.Context, page int, sum *models.Summary) (int, error) {
	pageStart := time.Now()
	logger := r.logger.With().Int("page", page).Logger()
	logger.Info().Msg("Starting page")

	if batch.Rollover(page, r.start, r.opts.PagesPerBatch) {
		if err := r.rollover(sum); err != nil {
			return 0, stepErr(StepRollover, page, err)
		}
	}

	if err := r.load(ctx, page); err != nil {
		return 0, err
	}

	began := time.Now()
	res, err := r.extractor.Extract(ctx, r.driver)
	if err != nil {
		return 0, stepErr(StepExtract, page, err)
	}
	sum.ShortRows += res.Short
	sum.SkippedRows += res.Skipped

	rows, err := r.appendRecords(res.Records, sum)
	if err != nil {
		return rows, stepErr(StepAppend, page, err)
	}
	logger.Info().
		Int("records", len(res.Records)).
		Int("appended", rows).
		Dur("elapsed", time.Since(began)).
		Msg("Extracted page data")

	began = time.Now()
	if err := r.batches.Save(r.current); err != nil {
		return rows, stepErr(StepSave, page, err)
	}
	if err := r.progress.Write(page); err != nil {
		return rows, stepErr(StepCheckpoint, page, err)
	}
	logger.Info().Dur("elapsed", time.Since(began)).Msg("Progress saved")

	sum.LastPage = page
	sum.CompletedPages++
	logger.Info().Dur("total", time.Since(pageStart)).Msg("Page complete")
	return rows, nil
}

// load navigates to page and waits for the ready marker, reloading on timeout
func (r *Runner) load(ctx context.Context, page int) error {
	target := r.PageURL(page)
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = r.opts.ReadyRetries + 1
	cfg.InitialBackoff = r.opts.PollInterval
	if r.opts.ReadyTimeout > 0 {
		cfg.MaxBackoff = r.opts.ReadyTimeout
	}
	cfg.Retryable = func(err error) bool {
		return errors.Is(err, ErrReadyTimeout)
	}

	return retry.WithRetry(ctx, cfg, func() error {
		if err := r.limiter.Wait(ctx, target); err != nil {
			return stepErr(StepNavigate, page, err)
		}

		began := time.Now()
		if err := r.navigate(ctx, target); err != nil {
			return stepErr(StepNavigate, page, err)
		}
		r.logger.Info().Str("url", target).Dur("elapsed", time.Since(began)).Msg("Page navigation completed")

		began = time.Now()
		res, err := browser.AwaitCondition(ctx, r.driver, browser.PresenceOf(r.opts.ReadyLocator), r.opts.ReadyTimeout, r.opts.PollInterval)
		if err != nil {
			return stepErr(StepAwaitReady, page, err)
		}
		if res == browser.TimedOut {
			return stepErr(StepAwaitReady, page, fmt.Errorf("%w after %s: %s", ErrReadyTimeout, r.opts.ReadyTimeout, r.opts.ReadyLocator))
		}
		r.logger.Debug().Int("page", page).Dur("elapsed", time.Since(began)).Msg("Page ready")
		return nil
	})
}

func (r *Runner) navigate(ctx context.Context, target string) error {
	if r.opts.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.NavigationTimeout)
		defer cancel()
	}
	return r.driver.Navigate(ctx, target)
}

func (r *Runner) pageCount(ctx context.Context) (int, error) {
	began := time.Now()
	el, err := r.driver.FindElement(ctx, r.opts.PageCountLocator)
	if err != nil {
		return 0, stepErr(StepPageCount, 0, err)
	}
	text, err := el.Text(ctx)
	if err != nil {
		return 0, stepErr(StepPageCount, 0, err)
	}
	total, err := ParsePageCount(text)
	if err != nil {
		return 0, stepErr(StepPageCount, 0, err)
	}
	r.logger.Debug().Dur("elapsed", time.Since(began)).Msg("Page count read")
	return total, nil
}

func (r *Runner) appendRecords(records []models.Record, sum *models.Summary) (int, error) {
	appended := 0
	for _, rec := range records {
		if !rec.Valid() {
			sum.ShortRows++
			continue
		}
		key := rec.PartNo()
		// a row with no part number reads back as blank and would be overwritten on reload
		if strings.TrimSpace(key) == "" {
			sum.BlankKeys++
			continue
		}
		if r.current.Seen(key) {
			sum.Duplicates++
			continue
		}
		if _, err := r.current.Append(key, rec.Description(), rec.Quantity()); err != nil {
			return appended, err
		}
		appended++
		sum.RowsWritten++
	}
	return appended, nil
}

// rollover saves the open batch and opens the next one
func (r *Runner) rollover(sum *models.Summary) error {
	if err := r.batches.Save(r.current); err != nil {
		return err
	}
	next := r.current.Index + 1
	r.logger.Info().
		Int("batch", r.current.Index).
		Bool("reloaded", r.current.Reloaded).
		Int("rows", r.current.Written()).
		Msg("Batch complete")
	if err := r.current.Close(); err != nil {
		r.logger.Warn().Err(err).Int("batch", r.current.Index).Msg("Failed to close batch")
	}
	r.current = nil
	return r.open(next, sum)
}

func (r *Runner) open(index int, sum *models.Summary) error {
	b, err := r.batches.LoadOrCreate(index)
	if err != nil {
		return err
	}
	r.current = b
	sum.Batches = append(sum.Batches, index)
	return nil
}

// release closes the open batch and ends the browser session
func (r *Runner) release(sum *models.Summary) {
	if r.current != nil {
		if err := r.current.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("Failed to close batch")
		}
		r.current = nil
	}
	if err := r.driver.Quit(); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to quit browser")
	}
	sum.Duration = time.Since(sum.StartedAt)
}
