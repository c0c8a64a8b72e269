package websift

import "context"

// Default scraping parameters.
const (
	DefaultRateLimit        = 2.0
	DefaultMinContentLength = 200
)

// Result statuses recorded on per-page results.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ScrapingConfig configures one scraping run.
// MaxPages limits the length of each pagination chain; 0 means unlimited.
type ScrapingConfig struct {
	URLs             []string   `json:"urls"`
	EnablePagination bool       `json:"enable_pagination"`
	MaxPages         int        `json:"max_pages"`
	RateLimit        float64    `json:"rate_limit"`
	CustomSelectors  *Selectors `json:"custom_selectors,omitempty"`
}

// Validate returns an error if the config contains invalid fields.
// Validation happens before any network activity.
func (c *ScrapingConfig) Validate() error {
	if len(c.URLs) == 0 {
		return Errorf(EINVALID, "at least one URL required")
	}
	if c.RateLimit < 0 {
		return Errorf(EINVALID, "rate limit must not be negative")
	}
	if c.MaxPages < 0 {
		return Errorf(EINVALID, "max pages must not be negative")
	}
	return nil
}

// Normalize fills zero-valued fields with defaults.
func (c *ScrapingConfig) Normalize() {
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
}

// ScrapingResult is the outcome of scraping a single page.
// PageNumber is 1-based within the page's pagination chain.
type ScrapingResult struct {
	URL         string          `json:"url"`
	Timestamp   string          `json:"timestamp"`
	Status      string          `json:"status"`
	Content     DetectedContent `json:"content"`
	PageNumber  int             `json:"page_number"`
	ContentHash string          `json:"content_hash,omitempty"`
}

// ScrapingSession aggregates the results of scraping one batch of seed
// URLs. Failures are soft: they are recorded as strings in Errors and
// never abort the batch.
type ScrapingSession struct {
	ID                string         `json:"id,omitempty"`
	StartTime         string         `json:"start_time"`
	Config            ScrapingConfig `json:"config"`
	Results           []ScrapingResult `json:"results"`
	TotalPagesScraped int            `json:"total_pages_scraped"`
	TotalLinksFound   int            `json:"total_links_found"`
	TotalImagesFound  int            `json:"total_images_found"`
	Errors            []string       `json:"errors"`
}

// ScrapeService runs a scraping session for a batch of seed URLs.
type ScrapeService interface {
	Scrape(ctx context.Context, config ScrapingConfig) (*ScrapingSession, error)
}

// SessionFilter represents a filter for FindSessions.
type SessionFilter struct {
	ID *string `json:"id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SessionService persists and retrieves scraping sessions.
type SessionService interface {
	// SaveSession stores a completed session, assigning its ID.
	SaveSession(ctx context.Context, session *ScrapingSession) error

	// FindSessionByID retrieves a session by ID.
	// Returns ENOTFOUND if the session does not exist.
	FindSessionByID(ctx context.Context, id string) (*ScrapingSession, error)

	// FindSessions retrieves sessions matching the filter, newest first.
	FindSessions(ctx context.Context, filter SessionFilter) ([]*ScrapingSession, error)

	// DeleteSessions removes all stored sessions.
	DeleteSessions(ctx context.Context) error
}
