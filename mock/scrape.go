package mock

import (
	"context"

	"github.com/websift/websift"
)

var _ websift.ScrapeService = (*ScrapeService)(nil)

// ScrapeService is a mock implementation of websift.ScrapeService.
type ScrapeService struct {
	ScrapeFn func(ctx context.Context, config websift.ScrapingConfig) (*websift.ScrapingSession, error)
}

func (s *ScrapeService) Scrape(ctx context.Context, config websift.ScrapingConfig) (*websift.ScrapingSession, error) {
	return s.ScrapeFn(ctx, config)
}

var _ websift.DeepScrapeService = (*DeepScrapeService)(nil)

// DeepScrapeService is a mock implementation of websift.DeepScrapeService.
type DeepScrapeService struct {
	DeepScrapeFn func(ctx context.Context, config websift.DeepScrapeConfig) (*websift.ScrapingSession, error)
}

func (s *DeepScrapeService) DeepScrape(ctx context.Context, config websift.DeepScrapeConfig) (*websift.ScrapingSession, error) {
	return s.DeepScrapeFn(ctx, config)
}
