package websift

import "context"

// Default deep scraping parameters.
const (
	DefaultMaxDepth     = 2
	DefaultMaxDeepPages = 50
)

// DeepScrapeConfig configures a link-following crawl across a site.
// Unlike pagination chains, the deep scraper follows every in-scope link
// up to MaxDepth hops from the start URLs.
type DeepScrapeConfig struct {
	StartURLs        []string   `json:"start_urls"`
	MaxDepth         int        `json:"max_depth"`
	MaxPages         int        `json:"max_pages"`
	StayInDomain     bool       `json:"stay_in_domain"`
	StayInSubdomain  bool       `json:"stay_in_subdomain"`
	IncludePatterns  []string   `json:"include_patterns"`
	ExcludePatterns  []string   `json:"exclude_patterns"`
	RateLimit        float64    `json:"rate_limit"`
	CustomSelectors  *Selectors `json:"custom_selectors,omitempty"`
	FilterNavigation bool       `json:"filter_navigation"`
	MinContentLength int        `json:"min_content_length"`
}

// Validate returns an error if the config contains invalid fields.
func (c *DeepScrapeConfig) Validate() error {
	if len(c.StartURLs) == 0 {
		return Errorf(EINVALID, "at least one start URL required")
	}
	if c.RateLimit < 0 {
		return Errorf(EINVALID, "rate limit must not be negative")
	}
	if c.MaxDepth < 0 {
		return Errorf(EINVALID, "max depth must not be negative")
	}
	if c.MaxPages < 0 {
		return Errorf(EINVALID, "max pages must not be negative")
	}
	return nil
}

// Normalize fills zero-valued fields with defaults. File-type excludes
// (pdf, archives, raw images) and fragment URLs are always appended to
// the exclude patterns.
func (c *DeepScrapeConfig) Normalize() {
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MaxPages == 0 {
		c.MaxPages = DefaultMaxDeepPages
	}
	if c.MinContentLength == 0 {
		c.MinContentLength = DefaultMinContentLength
	}
	c.ExcludePatterns = append(c.ExcludePatterns,
		`\.pdf$`, `\.zip$`, `\.jpg$`, `\.jpeg$`, `\.png$`, `\.gif$`,
	)
}

// DeepScrapeService runs a link-following crawl and aggregates the
// results into a session.
type DeepScrapeService interface {
	DeepScrape(ctx context.Context, config DeepScrapeConfig) (*ScrapingSession, error)
}
