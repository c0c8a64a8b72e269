// Package crawl orchestrates scraping runs: concurrent pagination
// chains over seed URLs and link-following deep crawls, with rate
// limiting, retries, and frontier-based deduplication.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/websift/websift"
	"golang.org/x/sync/errgroup"
)

// defaultConcurrency bounds the number of pagination chains fetched at
// the same time.
const defaultConcurrency = 5

var _ websift.ScrapeService = (*Scraper)(nil)

// Scraper runs fetch, extract, find-next cycles across seed URLs.
// Independent seeds are scraped concurrently; each seed's pagination
// chain is strictly sequential. All session mutation happens on the
// collecting goroutine fed by a channel of completed pages.
type Scraper struct {
	Fetcher  websift.Fetcher
	Detector websift.Detector

	// Concurrency bounds parallel chains. Defaults to 5.
	Concurrency int

	// Limiter overrides the config-derived rate limiter when set.
	Limiter websift.RateLimiter

	Logger *slog.Logger
}

// pageEvent carries one completed page, or a soft failure, from a
// chain goroutine to the session collector.
type pageEvent struct {
	result *websift.ScrapingResult
	errMsg string
}

// Scrape runs a scraping session over the configured seed URLs.
// Per-page failures are soft: they are recorded in the session's Errors
// and as error-status results, and never abort the batch. The returned
// error covers configuration problems only.
func (s *Scraper) Scrape(ctx context.Context, config websift.ScrapingConfig) (*websift.ScrapingSession, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.Normalize()

	limiter := s.Limiter
	if limiter == nil {
		limiter = NewLimiter(config.RateLimit)
	}

	session := &websift.ScrapingSession{
		StartTime: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Results:   []websift.ScrapingResult{},
		Errors:    []string{},
	}

	events := make(chan pageEvent)

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	go func() {
		for _, seed := range config.URLs {
			seed := seed
			g.Go(func() error {
				s.scrapeChain(ctx, seed, config, limiter, events)
				return nil
			})
		}
		_ = g.Wait()
		close(events)
	}()

	for event := range events {
		if event.result != nil {
			session.Results = append(session.Results, *event.result)
			if event.result.Status == websift.StatusSuccess {
				session.TotalPagesScraped++
				session.TotalLinksFound += len(event.result.Content.Links)
				session.TotalImagesFound += len(event.result.Content.Images)
			}
		}
		if event.errMsg != "" {
			session.Errors = append(session.Errors, event.errMsg)
		}
	}

	return session, nil
}

// scrapeChain walks one seed's pagination chain: fetch, extract, find
// the next-page link, repeat. The chain stops at the page cap, on a
// fetch failure, when no next link is found, or when a next link loops
// back to a visited URL.
func (s *Scraper) scrapeChain(ctx context.Context, seed string, config websift.ScrapingConfig, limiter websift.RateLimiter, events chan<- pageEvent) {
	visited := make(map[string]bool)
	current := seed
	page := 0

	for {
		if config.MaxPages > 0 && page >= config.MaxPages {
			return
		}
		if visited[current] {
			if s.Logger != nil {
				s.Logger.Debug("pagination cycle detected", "url", current, "seed", seed)
			}
			return
		}
		visited[current] = true
		page++

		if err := limiter.Wait(ctx); err != nil {
			events <- pageEvent{errMsg: fmt.Sprintf("failed to scrape %s: %v", current, err)}
			return
		}

		html, finalURL, err := s.Fetcher.Fetch(ctx, current)
		if err != nil {
			// The failed page still yields an error-status result so
			// every seed is accounted for in the session.
			events <- pageEvent{
				result: &websift.ScrapingResult{
					URL:        current,
					Timestamp:  time.Now().UTC().Format(time.RFC3339),
					Status:     websift.StatusError,
					Content:    emptyContent(),
					PageNumber: page,
				},
				errMsg: fmt.Sprintf("failed to scrape %s: %v", current, err),
			}
			return
		}
		if finalURL == "" {
			finalURL = current
		}
		visited[finalURL] = true

		content := s.Detector.Detect(html, finalURL, config.CustomSelectors)
		events <- pageEvent{
			result: &websift.ScrapingResult{
				URL:         current,
				Timestamp:   time.Now().UTC().Format(time.RFC3339),
				Status:      websift.StatusSuccess,
				Content:     content,
				PageNumber:  page,
				ContentHash: contentHash(content),
			},
		}

		if s.Logger != nil {
			s.Logger.Debug("scraped page", "url", current, "page", page, "links", len(content.Links))
		}

		if !config.EnablePagination {
			return
		}
		next := findNextPage(content, finalURL)
		if next == "" {
			return
		}
		current = next
	}
}

// nextKeywords are link-text markers for next-page links, checked as
// lowercase substrings.
var nextKeywords = []string{"next", "→", "»", "›"}

// findNextPage picks the most likely next-page link from extracted
// content. Keyword-labeled links win; otherwise a same-host, same-path
// link carrying a page parameter is used. External links and self-links
// never qualify.
func findNextPage(content websift.DetectedContent, currentURL string) string {
	current, err := url.Parse(currentURL)
	if err != nil {
		current = nil
	}

	for _, link := range content.Links {
		if link.IsExternal || link.Href == currentURL {
			continue
		}
		text := strings.ToLower(link.Text)
		for _, kw := range nextKeywords {
			if strings.Contains(text, kw) {
				return link.Href
			}
		}
	}

	if current == nil {
		return ""
	}
	for _, link := range content.Links {
		if link.IsExternal || link.Href == currentURL {
			continue
		}
		if !strings.Contains(link.Href, "page=") && !strings.Contains(link.Href, "p=") {
			continue
		}
		next, err := url.Parse(link.Href)
		if err != nil {
			continue
		}
		if next.Host == current.Host && next.Path == current.Path {
			return link.Href
		}
	}
	return ""
}

// contentHash fingerprints extracted content with xxhash for duplicate
// detection across sessions.
func contentHash(content websift.DetectedContent) string {
	h := xxhash.New()
	_, _ = h.WriteString(content.Title)
	for _, block := range content.Content {
		_, _ = h.WriteString(block)
	}
	return fmt.Sprintf("%x", h.Sum64())
}

func emptyContent() websift.DetectedContent {
	return websift.DetectedContent{
		Content:  []string{},
		Links:    []websift.Link{},
		Images:   []websift.Image{},
		Metadata: map[string]string{},
	}
}
