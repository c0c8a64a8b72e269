package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/websift/websift"
)

// Frontier configuration for deep crawling.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

var _ websift.DeepScrapeService = (*DeepScraper)(nil)

// DeepScraper follows in-scope links breadth-first from a set of start
// URLs, up to a depth and page cap. Workers fetch and extract pages
// concurrently; a single coordinator owns the frontier and the session.
type DeepScraper struct {
	Fetcher  websift.Fetcher
	Detector websift.Detector

	// Limiter gates requests per domain. Required.
	Limiter websift.DomainLimiter

	// Concurrency bounds parallel fetches. Defaults to 5.
	Concurrency int

	// RetryDelays overrides the default fetch backoff (1s, 2s, 4s).
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// deepResult is one processed page travelling from a worker to the
// coordinator.
type deepResult struct {
	item    Item
	content websift.DetectedContent
	err     error
}

// DeepScrape crawls from the start URLs, following links that pass the
// scope and pattern filters, until the frontier empties or MaxPages
// fetches have been dispatched. Page failures are soft; the returned
// error covers configuration problems only.
func (s *DeepScraper) DeepScrape(ctx context.Context, config websift.DeepScrapeConfig) (*websift.ScrapingSession, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.Normalize()

	scope, err := newURLScope(config)
	if err != nil {
		return nil, err
	}

	limiter := s.Limiter
	if limiter == nil {
		limiter = NewDomainLimiter(config.RateLimit)
	}

	session := &websift.ScrapingSession{
		StartTime: time.Now().UTC().Format(time.RFC3339),
		Config: websift.ScrapingConfig{
			URLs:            config.StartURLs,
			MaxPages:        config.MaxPages,
			RateLimit:       config.RateLimit,
			CustomSelectors: config.CustomSelectors,
		},
		Results: []websift.ScrapingResult{},
		Errors:  []string{},
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	for _, start := range config.StartURLs {
		frontier.Push(Item{URL: start, Depth: 0, Priority: 0})
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	workCh := make(chan Item, concurrency)
	resultCh := make(chan deepResult)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				result := s.process(ctx, item, limiter, config)
				select {
				case resultCh <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Close result channel when all workers are done.
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	dispatched := 0
	pending := 0
	var next *Item

	if item, ok := frontier.Pop(); ok {
		next = &item
	}

	handle := func(result *deepResult) {
		s.handleResult(result, session, frontier, scope, config)
	}

coordinatorLoop:
	for {
		if next == nil && pending == 0 {
			break coordinatorLoop
		}
		if ctx.Err() != nil {
			break coordinatorLoop
		}

		if next != nil && dispatched < config.MaxPages {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case workCh <- *next:
				dispatched++
				pending++
				next = nil
			case result := <-resultCh:
				pending--
				handle(&result)
			}
		} else if pending > 0 {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case result, ok := <-resultCh:
				if !ok {
					break coordinatorLoop
				}
				pending--
				handle(&result)
			}
		} else {
			// Frontier has items but the page cap is reached.
			break coordinatorLoop
		}

		if next == nil && dispatched < config.MaxPages {
			if item, ok := frontier.Pop(); ok {
				next = &item
			}
		}
	}

	// Signal workers to stop and drain remaining results.
	close(workCh)
	drainTimeout := time.After(5 * time.Second)
drainLoop:
	for {
		select {
		case result, ok := <-resultCh:
			if !ok {
				break drainLoop
			}
			pending--
			handle(&result)
		case <-drainTimeout:
			break drainLoop
		}
	}

	return session, nil
}

// process fetches and extracts a single page for a worker.
func (s *DeepScraper) process(ctx context.Context, item Item, limiter websift.DomainLimiter, config websift.DeepScrapeConfig) deepResult {
	result := deepResult{item: item}

	itemURL, err := url.Parse(item.URL)
	if err != nil {
		result.err = err
		return result
	}

	if err := limiter.Wait(ctx, itemURL.Host); err != nil {
		result.err = err
		return result
	}

	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	finalURL := item.URL
	fetchFn := func(ctx context.Context, url string) (string, error) {
		html, final, err := s.Fetcher.Fetch(ctx, url)
		if err == nil && final != "" {
			finalURL = final
		}
		return html, err
	}
	html, err := FetchWithRetryDelays(ctx, item.URL, fetchFn, nil, delays)
	if err != nil {
		result.err = err
		return result
	}

	result.content = s.Detector.Detect(html, finalURL, config.CustomSelectors)
	return result
}

// handleResult runs on the coordinator: it records the page and feeds
// in-scope discovered links back into the frontier.
func (s *DeepScraper) handleResult(result *deepResult, session *websift.ScrapingSession, frontier *Frontier, scope *urlScope, config websift.DeepScrapeConfig) {
	if result.err != nil {
		session.Errors = append(session.Errors, fmt.Sprintf("failed to scrape %s: %v", result.item.URL, result.err))
		if s.Logger != nil {
			s.Logger.Debug("deep scrape failure", "url", result.item.URL, "error", result.err)
		}
		return
	}

	// Thin pages still contribute links but are not recorded.
	if contentLength(result.content) >= config.MinContentLength {
		session.Results = append(session.Results, websift.ScrapingResult{
			URL:         result.item.URL,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Status:      websift.StatusSuccess,
			Content:     result.content,
			PageNumber:  len(session.Results) + 1,
			ContentHash: contentHash(result.content),
		})
		session.TotalPagesScraped++
		session.TotalLinksFound += len(result.content.Links)
		session.TotalImagesFound += len(result.content.Images)
	}

	if result.item.Depth >= config.MaxDepth {
		return
	}
	for _, link := range result.content.Links {
		if config.FilterNavigation && navigationLink(link) {
			continue
		}
		if !scope.allows(link.Href) {
			continue
		}
		frontier.Push(Item{
			URL:      link.Href,
			Depth:    result.item.Depth + 1,
			Priority: -(result.item.Depth + 1),
		})
	}
}

// contentLength sums the text of all extracted content blocks.
func contentLength(content websift.DetectedContent) int {
	total := 0
	for _, block := range content.Content {
		total += len(block)
	}
	return total
}

// navigationChrome is link text that marks site chrome rather than
// content, checked lowercase.
var navigationChrome = map[string]bool{
	"home":      true,
	"login":     true,
	"log in":    true,
	"sign up":   true,
	"register":  true,
	"about":     true,
	"contact":   true,
	"privacy":   true,
	"terms":     true,
	"subscribe": true,
}

func navigationLink(link websift.Link) bool {
	return navigationChrome[strings.ToLower(strings.TrimSpace(link.Text))]
}

// urlScope decides whether a discovered link may enter the frontier.
type urlScope struct {
	hosts           map[string]bool
	stayInDomain    bool
	stayInSubdomain bool
	include         []*regexp.Regexp
	exclude         []*regexp.Regexp
}

func newURLScope(config websift.DeepScrapeConfig) (*urlScope, error) {
	scope := &urlScope{
		hosts:           make(map[string]bool),
		stayInDomain:    config.StayInDomain,
		stayInSubdomain: config.StayInSubdomain,
	}
	for _, start := range config.StartURLs {
		u, err := url.Parse(start)
		if err != nil {
			return nil, websift.Errorf(websift.EINVALID, "invalid start URL %q", start)
		}
		scope.hosts[u.Hostname()] = true
	}
	for _, pattern := range config.IncludePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, websift.Errorf(websift.EINVALID, "invalid include pattern %q", pattern)
		}
		scope.include = append(scope.include, re)
	}
	for _, pattern := range config.ExcludePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, websift.Errorf(websift.EINVALID, "invalid exclude pattern %q", pattern)
		}
		scope.exclude = append(scope.exclude, re)
	}
	return scope, nil
}

func (s *urlScope) allows(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()

	if s.stayInSubdomain {
		if !s.hosts[host] {
			return false
		}
	} else if s.stayInDomain {
		matched := false
		for h := range s.hosts {
			base := baseDomain(h)
			if host == h || host == base || strings.HasSuffix(host, "."+base) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range s.exclude {
		if re.MatchString(rawURL) {
			return false
		}
	}
	if len(s.include) > 0 {
		for _, re := range s.include {
			if re.MatchString(rawURL) {
				return true
			}
		}
		return false
	}
	return true
}

// baseDomain reduces a host to its last two labels. Good enough for the
// common case; multi-label public suffixes are treated as domains.
func baseDomain(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) <= 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}
