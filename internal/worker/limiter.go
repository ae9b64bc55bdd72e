package worker

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter applies per-domain rate limiting so parallel fetches do not
// hammer a single host
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
	burst    int
}

// NewLimiter creates a limiter allowing requestsPerSecond per host
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 3
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until the host of rawURL has rate budget, or the context
// is cancelled. Unparseable URLs pass through without limiting.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil
	}
	return l.forHost(parsed.Host).Wait(ctx)
}

func (l *Limiter) forHost(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(l.perHost, l.burst)
		l.limiters[host] = limiter
	}
	return limiter
}
