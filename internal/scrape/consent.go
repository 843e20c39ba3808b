package scrape

import (
	"context"
	"errors"
	"time"

	"github.com/law-makers/partscrape/internal/browser"
)

// ConsentResult is the outcome of dismissing the cookie banner. None of the
// outcomes stop the run.
type ConsentResult int

const (
	ConsentClicked ConsentResult = iota
	ConsentNotFound
	ConsentError
)

func (c ConsentResult) String() string {
	switch c {
	case ConsentClicked:
		return "clicked"
	case ConsentNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// acceptConsent waits briefly for the consent control and clicks it
func (r *Runner) acceptConsent(ctx context.Context) ConsentResult {
	loc := r.opts.ConsentLocator
	if loc.Value == "" {
		return ConsentNotFound
	}

	r.logger.Info().Str("locator", loc.String()).Msg("Accepting cookie consent")
	began := time.Now()

	res, err := browser.AwaitCondition(ctx, r.driver, browser.PresenceOf(loc), r.opts.ConsentTimeout, r.opts.PollInterval)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Cookie consent lookup failed")
		return ConsentError
	}
	if res == browser.TimedOut {
		r.logger.Info().Msg("Cookie consent already handled or not required")
		return ConsentNotFound
	}

	el, err := r.driver.FindElement(ctx, loc)
	if errors.Is(err, browser.ErrNotFound) {
		r.logger.Info().Msg("Cookie consent already handled or not required")
		return ConsentNotFound
	}
	if err != nil {
		r.logger.Warn().Err(err).Msg("Cookie consent lookup failed")
		return ConsentError
	}
	if err := el.Click(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("Cookie consent click failed")
		return ConsentError
	}

	r.logger.Info().Dur("elapsed", time.Since(began)).Msg("Cookie consent accepted")
	return ConsentClicked
}
