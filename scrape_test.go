package websift_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/websift/websift"
)

func TestScrapingConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a minimal config", func(t *testing.T) {
		t.Parallel()

		config := websift.ScrapingConfig{URLs: []string{"https://example.com"}}
		assert.NoError(t, config.Validate())
	})

	t.Run("rejects empty URL list", func(t *testing.T) {
		t.Parallel()

		config := websift.ScrapingConfig{}
		err := config.Validate()

		require.Error(t, err)
		assert.Equal(t, websift.EINVALID, websift.ErrorCode(err))
	})

	t.Run("rejects negative rate limit", func(t *testing.T) {
		t.Parallel()

		config := websift.ScrapingConfig{
			URLs:      []string{"https://example.com"},
			RateLimit: -1,
		}
		err := config.Validate()

		require.Error(t, err)
		assert.Equal(t, websift.EINVALID, websift.ErrorCode(err))
	})

	t.Run("rejects negative max pages", func(t *testing.T) {
		t.Parallel()

		config := websift.ScrapingConfig{
			URLs:     []string{"https://example.com"},
			MaxPages: -1,
		}
		err := config.Validate()

		require.Error(t, err)
		assert.Equal(t, websift.EINVALID, websift.ErrorCode(err))
	})
}

func TestScrapingConfig_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("applies default rate limit", func(t *testing.T) {
		t.Parallel()

		config := websift.ScrapingConfig{URLs: []string{"https://example.com"}}
		config.Normalize()

		assert.Equal(t, 2.0, config.RateLimit)
	})

	t.Run("keeps explicit rate limit", func(t *testing.T) {
		t.Parallel()

		config := websift.ScrapingConfig{URLs: []string{"https://example.com"}, RateLimit: 0.5}
		config.Normalize()

		assert.Equal(t, 0.5, config.RateLimit)
	})
}

func TestScrapingSession_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	session := websift.ScrapingSession{
		StartTime: "2026-08-27T10:00:00Z",
		Config: websift.ScrapingConfig{
			URLs:             []string{"https://example.com/list"},
			EnablePagination: true,
			MaxPages:         3,
			RateLimit:        2.0,
		},
		Results: []websift.ScrapingResult{
			{
				URL:        "https://example.com/list",
				Timestamp:  "2026-08-27T10:00:01Z",
				Status:     websift.StatusSuccess,
				PageNumber: 1,
				Content: websift.DetectedContent{
					Title:   "Listing",
					Content: []string{"First item"},
					Links: []websift.Link{
						{Text: "Next", Href: "https://example.com/list?page=2"},
					},
					Images:   []websift.Image{},
					Metadata: map[string]string{"description": "A listing"},
				},
			},
		},
		TotalPagesScraped: 1,
		TotalLinksFound:   1,
		Errors:            []string{},
	}

	data, err := json.Marshal(session)
	require.NoError(t, err)

	var decoded websift.ScrapingSession
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, session, decoded)
}

func TestScrapingSession_StableJSONKeys(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(websift.ScrapingSession{})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "results")
	assert.Contains(t, raw, "total_pages_scraped")
	assert.Contains(t, raw, "total_links_found")
	assert.Contains(t, raw, "total_images_found")
	assert.Contains(t, raw, "errors")
}

func TestDeepScrapeConfig_Normalize(t *testing.T) {
	t.Parallel()

	config := websift.DeepScrapeConfig{StartURLs: []string{"https://example.com"}}
	config.Normalize()

	assert.Equal(t, 2, config.MaxDepth)
	assert.Equal(t, 50, config.MaxPages)
	assert.Equal(t, 2.0, config.RateLimit)
	assert.Equal(t, 200, config.MinContentLength)
	assert.Contains(t, config.ExcludePatterns, `\.pdf$`)
}
