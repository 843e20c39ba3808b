package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter paces page navigations.
type RateLimiter interface {
	// Wait blocks until a navigation to urlStr may proceed, or ctx is done.
	Wait(ctx context.Context, urlStr string) error
}

// DomainLimiter keeps one token bucket per host
type DomainLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	perHost  rate.Limit
	burst    int
}

// NewDomainLimiter allows requestsPerSecond navigations per host. A
// non-positive rate disables limiting.
func NewDomainLimiter(requestsPerSecond float64, burst int) *DomainLimiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  limit,
		burst:    burst,
	}
}

// Wait blocks until the host of urlStr has a token available
func (dl *DomainLimiter) Wait(ctx context.Context, urlStr string) error {
	host := extractHost(urlStr)
	if host == "" {
		// Invalid URL, let it proceed (navigation will fail on its own)
		return nil
	}
	return dl.getLimiter(host).Wait(ctx)
}

func (dl *DomainLimiter) getLimiter(host string) *rate.Limiter {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	limiter, ok := dl.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(dl.perHost, dl.burst)
		dl.limiters[host] = limiter
	}
	return limiter
}

func extractHost(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
