package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mkarev/decisive/internal/cache"
	"github.com/mkarev/decisive/internal/model"
	"github.com/mkarev/decisive/internal/util"
	"github.com/mkarev/decisive/internal/worker"
)

// Fetcher retrieves raw page markup with per-domain rate limiting,
// optional robots.txt checks, and a memory cache keyed by URL
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	pages      cache.Cache
	cacheTTL   time.Duration
}

// NewFetcher creates a fetcher from HTTP and cache configuration
func NewFetcher(httpCfg model.HTTPConfig, cacheCfg model.CacheConfig) *Fetcher {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy),
	}

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout:   httpCfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: httpCfg.UserAgent,
		maxBytes:  httpCfg.MaxBodyBytes,
		limiter:   worker.NewLimiter(httpCfg.RatePerDomain, 3),
	}

	if httpCfg.RespectRobots {
		f.robots = util.NewRobotsChecker(httpCfg.UserAgent, httpCfg.Timeout)
	}
	if cacheCfg.Enabled {
		f.pages = cache.NewMemoryCache(cacheCfg.TTL, 10*time.Minute)
		f.cacheTTL = cacheCfg.TTL
	}

	return f
}

// Fetch retrieves the page body for a URL. Cached pages skip the network
// entirely, including rate limiting.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.pages != nil {
		if body, ok := f.pages.Get(cache.Key(rawURL)); ok {
			return string(body), nil
		}
	}

	if f.robots != nil {
		allowed, err := f.robots.CanFetch(ctx, rawURL)
		if err == nil && !allowed {
			return "", fmt.Errorf("disallowed by robots.txt: %s", rawURL)
		}
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if f.pages != nil {
		_ = f.pages.Set(cache.Key(rawURL), body, f.cacheTTL)
	}

	return string(body), nil
}
