package websift

import "context"

// Fetcher retrieves raw HTML from URLs.
// Implementations set a realistic user-agent and a request timeout.
type Fetcher interface {
	// Fetch retrieves the page at url and returns its HTML together with
	// the final URL after redirects. The context controls timeout and
	// cancellation.
	Fetch(ctx context.Context, url string) (html string, finalURL string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// RateLimiter gates requests within a single crawl chain. Implementations
// enforce a fixed inter-request interval derived from a requests-per-second
// value; bursts beyond one request per interval are not permitted.
type RateLimiter interface {
	// Wait blocks until the next request is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}

// DomainLimiter provides per-domain rate limiting for crawls that span
// multiple hosts.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
