package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/websift/websift"
	main "github.com/websift/websift/cmd/websift"
	"github.com/websift/websift/mock"
)

func scrapeFixture() *websift.ScrapingSession {
	return &websift.ScrapingSession{
		StartTime: "2026-02-10T12:00:00Z",
		Results: []websift.ScrapingResult{
			{URL: "https://example.com/a", Status: websift.StatusSuccess, PageNumber: 1},
			{URL: "https://example.com/b", Status: websift.StatusSuccess, PageNumber: 1},
		},
		TotalPagesScraped: 2,
		TotalLinksFound:   8,
		Errors:            []string{},
	}
}

func TestScrapeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("passes flags through to the scraping config", func(t *testing.T) {
		t.Parallel()

		var got websift.ScrapingConfig
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Scraper: &mock.ScrapeService{
				ScrapeFn: func(_ context.Context, config websift.ScrapingConfig) (*websift.ScrapingSession, error) {
					got = config
					return scrapeFixture(), nil
				},
			},
		}

		cmd := &main.ScrapeCmd{
			URLs:       []string{"https://example.com/a"},
			Pagination: true,
			MaxPages:   5,
			RateLimit:  1.5,
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/a"}, got.URLs)
		assert.True(t, got.EnablePagination)
		assert.Equal(t, 5, got.MaxPages)
		assert.Equal(t, 1.5, got.RateLimit)
	})

	t.Run("prints results and the session summary", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Scraper: &mock.ScrapeService{
				ScrapeFn: func(_ context.Context, _ websift.ScrapingConfig) (*websift.ScrapingSession, error) {
					return scrapeFixture(), nil
				},
			},
		}

		err := (&main.ScrapeCmd{URLs: []string{"https://example.com/a"}}).Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "https://example.com/a")
		assert.Contains(t, output, "https://example.com/b")
		assert.Contains(t, output, "Scraped 2 pages (8 links, 0 images, 0 errors)")
	})

	t.Run("saves the session when requested", func(t *testing.T) {
		t.Parallel()

		saved := false
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Scraper: &mock.ScrapeService{
				ScrapeFn: func(_ context.Context, _ websift.ScrapingConfig) (*websift.ScrapingSession, error) {
					return scrapeFixture(), nil
				},
			},
			Sessions: &mock.SessionService{
				SaveSessionFn: func(_ context.Context, session *websift.ScrapingSession) error {
					session.ID = "session-1"
					saved = true
					return nil
				},
			},
		}

		err := (&main.ScrapeCmd{URLs: []string{"https://example.com/a"}, Save: true}).Run(deps)

		require.NoError(t, err)
		assert.True(t, saved)
	})

	t.Run("exports the session with a generated ID", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Scraper: &mock.ScrapeService{
				ScrapeFn: func(_ context.Context, _ websift.ScrapingConfig) (*websift.ScrapingSession, error) {
					return scrapeFixture(), nil
				},
			},
		}

		err := (&main.ScrapeCmd{URLs: []string{"https://example.com/a"}, Output: dir}).Run(deps)

		require.NoError(t, err)
		files, globErr := filepath.Glob(filepath.Join(dir, "sessions", "*.json"))
		require.NoError(t, globErr)
		assert.Len(t, files, 1)
	})

	t.Run("reports scrape failures on stderr", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Scraper: &mock.ScrapeService{
				ScrapeFn: func(_ context.Context, _ websift.ScrapingConfig) (*websift.ScrapingSession, error) {
					return nil, websift.Errorf(websift.EINVALID, "at least one URL required")
				},
			},
		}

		err := (&main.ScrapeCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "at least one URL required")
	})
}
