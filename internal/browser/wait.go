package browser

import (
	"context"
	"time"
)

// DefaultPollInterval is used when AwaitCondition gets a non-positive interval
const DefaultPollInterval = 200 * time.Millisecond

// WaitResult is the outcome of AwaitCondition
type WaitResult int

const (
	Ready WaitResult = iota
	TimedOut
)

func (w WaitResult) String() string {
	if w == Ready {
		return "ready"
	}
	return "timed_out"
}

// Condition is evaluated against the page until it holds
type Condition func(ctx context.Context, p Page) (bool, error)

// PresenceOf holds once at least one element matches loc
func PresenceOf(loc Locator) Condition {
	return func(ctx context.Context, p Page) (bool, error) {
		els, err := p.FindElements(ctx, loc)
		if err != nil {
			return false, err
		}
		return len(els) > 0, nil
	}
}

// AwaitCondition polls cond every poll interval until it holds or timeout
// elapses. The condition is checked once immediately. An error from cond or a
// cancelled ctx ends the wait with that error.
func AwaitCondition(ctx context.Context, p Page, cond Condition, timeout, poll time.Duration) (WaitResult, error) {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	deadline := time.Now().Add(timeout)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return TimedOut, err
		}
		ok, err := cond(ctx, p)
		if err != nil {
			return TimedOut, err
		}
		if ok {
			return Ready, nil
		}
		if !time.Now().Before(deadline) {
			return TimedOut, nil
		}

		select {
		case <-ctx.Done():
			return TimedOut, ctx.Err()
		case <-ticker.C:
		}
	}
}
