package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/websift/websift"
)

// Ensure LoggingScrapeService implements websift.ScrapeService.
var _ websift.ScrapeService = (*LoggingScrapeService)(nil)

// LoggingScrapeService wraps a ScrapeService with a per-session summary log.
type LoggingScrapeService struct {
	next   websift.ScrapeService
	logger *slog.Logger
}

// NewLoggingScrapeService creates a new LoggingScrapeService.
func NewLoggingScrapeService(next websift.ScrapeService, logger *slog.Logger) *LoggingScrapeService {
	return &LoggingScrapeService{next: next, logger: logger}
}

// Scrape delegates to the wrapped service and logs the session summary.
func (s *LoggingScrapeService) Scrape(ctx context.Context, config websift.ScrapingConfig) (*websift.ScrapingSession, error) {
	begin := time.Now()
	session, err := s.next.Scrape(ctx, config)
	if err != nil {
		s.logger.Error("scrape failed",
			"urls", len(config.URLs),
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	s.logger.Info("scrape",
		"urls", len(config.URLs),
		"pages", session.TotalPagesScraped,
		"links", session.TotalLinksFound,
		"images", session.TotalImagesFound,
		"errors", len(session.Errors),
		"duration", time.Since(begin),
	)
	return session, nil
}

// Ensure LoggingDeepScrapeService implements websift.DeepScrapeService.
var _ websift.DeepScrapeService = (*LoggingDeepScrapeService)(nil)

// LoggingDeepScrapeService wraps a DeepScrapeService with a per-crawl
// summary log.
type LoggingDeepScrapeService struct {
	next   websift.DeepScrapeService
	logger *slog.Logger
}

// NewLoggingDeepScrapeService creates a new LoggingDeepScrapeService.
func NewLoggingDeepScrapeService(next websift.DeepScrapeService, logger *slog.Logger) *LoggingDeepScrapeService {
	return &LoggingDeepScrapeService{next: next, logger: logger}
}

// DeepScrape delegates to the wrapped service and logs the crawl summary.
func (s *LoggingDeepScrapeService) DeepScrape(ctx context.Context, config websift.DeepScrapeConfig) (*websift.ScrapingSession, error) {
	begin := time.Now()
	session, err := s.next.DeepScrape(ctx, config)
	if err != nil {
		s.logger.Error("deep scrape failed",
			"start_urls", len(config.StartURLs),
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	s.logger.Info("deep scrape",
		"start_urls", len(config.StartURLs),
		"depth", config.MaxDepth,
		"pages", session.TotalPagesScraped,
		"links", session.TotalLinksFound,
		"errors", len(session.Errors),
		"duration", time.Since(begin),
	)
	return session, nil
}
