package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2,
		Retryable:      func(err error) bool { return errors.Is(err, errFlaky) },
	}
}

func TestWithRetry_SucceedsAfterRetry(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(3), func() error {
		calls++
		if calls < 2 {
			return errFlaky
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), fastConfig(2), func() error {
		calls++
		return errFlaky
	})
	assert.ErrorIs(t, err, errFlaky)
	assert.ErrorContains(t, err, "after 2 attempts")
	assert.Equal(t, 2, calls)
}

func TestWithRetry_NonRetryableReturnsImmediately(t *testing.T) {
	boom := errors.New("navigation failed")
	calls := 0
	err := WithRetry(context.Background(), fastConfig(5), func() error {
		calls++
		return boom
	})
	assert.Same(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_SingleAttemptKeepsError(t *testing.T) {
	err := WithRetry(context.Background(), fastConfig(1), func() error { return errFlaky })
	assert.Same(t, errFlaky, err)
}

func TestWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(3)
	cfg.InitialBackoff = time.Second
	cfg.MaxBackoff = time.Second

	err := WithRetry(ctx, cfg, func() error {
		cancel()
		return errFlaky
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithRetry_DefaultRetriesTimeoutsOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialBackoff = time.Millisecond

	calls := 0
	err := WithRetry(context.Background(), cfg, func() error {
		calls++
		return context.DeadlineExceeded
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, calls)

	calls = 0
	err = WithRetry(context.Background(), cfg, func() error {
		calls++
		return errFlaky
	})
	assert.Same(t, errFlaky, err)
	assert.Equal(t, 1, calls)
}

func TestCalculateBackoff(t *testing.T) {
	cfg := Config{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond, Multiplier: 2}
	assert.Equal(t, 100*time.Millisecond, calculateBackoff(0, cfg))
	assert.Equal(t, 200*time.Millisecond, calculateBackoff(1, cfg))
	assert.Equal(t, 300*time.Millisecond, calculateBackoff(2, cfg))
}
