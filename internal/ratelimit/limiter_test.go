package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter_Unlimited(t *testing.T) {
	dl := NewDomainLimiter(0, 0)

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, dl.Wait(context.Background(), "https://catalog.example.com/x?page=1"))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestDomainLimiter_Paces(t *testing.T) {
	dl := NewDomainLimiter(50, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, dl.Wait(ctx, "https://catalog.example.com/x"))
	}
	// first token is immediate, the next two wait ~20ms each
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestDomainLimiter_PerHost(t *testing.T) {
	dl := NewDomainLimiter(1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, dl.Wait(ctx, "https://a.example.com/"))
	require.NoError(t, dl.Wait(ctx, "https://b.example.com/"))
	assert.Error(t, dl.Wait(ctx, "https://a.example.com/"), "second token for the same host exceeds the deadline")
}

func TestDomainLimiter_InvalidURL(t *testing.T) {
	dl := NewDomainLimiter(1, 1)
	assert.NoError(t, dl.Wait(context.Background(), "://bad"))
}
