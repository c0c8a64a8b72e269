package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/websift/websift"
	websifthttp "github.com/websift/websift/http"
	"github.com/websift/websift/mock"
)

func analysisFixture() *websift.StructureAnalysis {
	return &websift.StructureAnalysis{
		URL: "https://example.com/post",
		Sections: []websift.Section{
			{
				Selector:    "article",
				SectionType: websift.TypeArticle,
				Score:       0.82,
				Confidence:  0.9,
			},
		},
		Recommendations: websift.Recommendations{
			BestMainContent: "article",
			BestTitle:       "h1",
			SuggestedMode:   websift.ModeArticle,
			ConfidenceLevel: websift.ConfidenceHigh,
		},
	}
}

func sessionFixture() *websift.ScrapingSession {
	return &websift.ScrapingSession{
		ID:        "session-1",
		StartTime: "2026-01-01T00:00:00Z",
		Results:   []websift.ScrapingResult{},
		Errors:    []string{},
	}
}

func do(s *websifthttp.Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s := websifthttp.NewServer()
	rec := do(s, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("fetches the page and returns the analysis", func(t *testing.T) {
		t.Parallel()

		s := websifthttp.NewServer()
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, string, error) {
				return "<html></html>", url, nil
			},
		}
		s.Analyzer = &mock.Analyzer{
			AnalyzeFn: func(html string, url string) *websift.StructureAnalysis {
				return analysisFixture()
			},
		}

		rec := do(s, http.MethodPost, "/api/analyze", `{"url":"https://example.com/post"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Analysis *websift.StructureAnalysis `json:"analysis"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "article", resp.Analysis.Recommendations.BestMainContent)
	})

	t.Run("requires a url", func(t *testing.T) {
		t.Parallel()

		s := websifthttp.NewServer()
		rec := do(s, http.MethodPost, "/api/analyze", `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps fetch failures to 503", func(t *testing.T) {
		t.Parallel()

		s := websifthttp.NewServer()
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, string, error) {
				return "", "", websift.Errorf(websift.EUNAVAILABLE, "down")
			},
		}

		rec := do(s, http.MethodPost, "/api/analyze", `{"url":"https://example.com"}`)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("saves a profile when requested", func(t *testing.T) {
		t.Parallel()

		var saved *websift.SiteProfile
		s := websifthttp.NewServer()
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, string, error) {
				return "<html></html>", url, nil
			},
		}
		s.Analyzer = &mock.Analyzer{
			AnalyzeFn: func(html string, url string) *websift.StructureAnalysis {
				return analysisFixture()
			},
		}
		s.Profiles = &mock.ProfileService{
			SaveProfileFn: func(ctx context.Context, profile *websift.SiteProfile) error {
				profile.ID = "profile-1"
				saved = profile
				return nil
			},
		}

		rec := do(s, http.MethodPost, "/api/analyze", `{"url":"https://example.com/post","save_profile":true}`)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, saved)
		assert.Equal(t, "example.com", saved.Domain)
		assert.Equal(t, "article", saved.MainContentSelector)

		var resp struct {
			Profile *websift.SiteProfile `json:"profile"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Profile)
		assert.Equal(t, "profile-1", resp.Profile.ID)
	})
}

func TestServer_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("runs a session and returns it", func(t *testing.T) {
		t.Parallel()

		var gotConfig websift.ScrapingConfig
		s := websifthttp.NewServer()
		s.Scraper = &mock.ScrapeService{
			ScrapeFn: func(ctx context.Context, config websift.ScrapingConfig) (*websift.ScrapingSession, error) {
				gotConfig = config
				return sessionFixture(), nil
			},
		}

		rec := do(s, http.MethodPost, "/api/scrape", `{"urls":["https://example.com"],"enable_pagination":true,"max_pages":3}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"https://example.com"}, gotConfig.URLs)
		assert.True(t, gotConfig.EnablePagination)
		assert.Equal(t, 3, gotConfig.MaxPages)
	})

	t.Run("maps validation failures to 400", func(t *testing.T) {
		t.Parallel()

		s := websifthttp.NewServer()
		s.Scraper = &mock.ScrapeService{
			ScrapeFn: func(ctx context.Context, config websift.ScrapingConfig) (*websift.ScrapingSession, error) {
				return nil, websift.Errorf(websift.EINVALID, "at least one URL required")
			},
		}

		rec := do(s, http.MethodPost, "/api/scrape", `{"urls":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "at least one URL required")
	})

	t.Run("persists the session when save is set", func(t *testing.T) {
		t.Parallel()

		saved := false
		s := websifthttp.NewServer()
		s.Scraper = &mock.ScrapeService{
			ScrapeFn: func(ctx context.Context, config websift.ScrapingConfig) (*websift.ScrapingSession, error) {
				return sessionFixture(), nil
			},
		}
		s.Sessions = &mock.SessionService{
			SaveSessionFn: func(ctx context.Context, session *websift.ScrapingSession) error {
				saved = true
				return nil
			},
		}

		rec := do(s, http.MethodPost, "/api/scrape", `{"urls":["https://example.com"],"save":true}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, saved)
	})
}

func TestServer_DeepScrape(t *testing.T) {
	t.Parallel()

	s := websifthttp.NewServer()
	var gotConfig websift.DeepScrapeConfig
	s.DeepScraper = &mock.DeepScrapeService{
		DeepScrapeFn: func(ctx context.Context, config websift.DeepScrapeConfig) (*websift.ScrapingSession, error) {
			gotConfig = config
			return sessionFixture(), nil
		},
	}

	rec := do(s, http.MethodPost, "/api/deep-scrape", `{"start_urls":["https://example.com"],"max_depth":2,"stay_in_domain":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"https://example.com"}, gotConfig.StartURLs)
	assert.Equal(t, 2, gotConfig.MaxDepth)
	assert.True(t, gotConfig.StayInDomain)
}

func TestServer_Sessions(t *testing.T) {
	t.Parallel()

	t.Run("lists sessions with pagination parameters", func(t *testing.T) {
		t.Parallel()

		var gotFilter websift.SessionFilter
		s := websifthttp.NewServer()
		s.Sessions = &mock.SessionService{
			FindSessionsFn: func(ctx context.Context, filter websift.SessionFilter) ([]*websift.ScrapingSession, error) {
				gotFilter = filter
				return []*websift.ScrapingSession{sessionFixture()}, nil
			},
		}

		rec := do(s, http.MethodGet, "/api/sessions?limit=10&offset=5", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 10, gotFilter.Limit)
		assert.Equal(t, 5, gotFilter.Offset)
	})

	t.Run("returns 404 for a missing session", func(t *testing.T) {
		t.Parallel()

		s := websifthttp.NewServer()
		s.Sessions = &mock.SessionService{
			FindSessionByIDFn: func(ctx context.Context, id string) (*websift.ScrapingSession, error) {
				return nil, websift.Errorf(websift.ENOTFOUND, "session not found")
			},
		}

		rec := do(s, http.MethodGet, "/api/sessions/nope", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("deletes all sessions", func(t *testing.T) {
		t.Parallel()

		deleted := false
		s := websifthttp.NewServer()
		s.Sessions = &mock.SessionService{
			DeleteSessionsFn: func(ctx context.Context) error {
				deleted = true
				return nil
			},
		}

		rec := do(s, http.MethodDelete, "/api/sessions", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, deleted)
	})
}

func TestServer_Profiles(t *testing.T) {
	t.Parallel()

	t.Run("filters profiles by domain", func(t *testing.T) {
		t.Parallel()

		var gotFilter websift.ProfileFilter
		s := websifthttp.NewServer()
		s.Profiles = &mock.ProfileService{
			FindProfilesFn: func(ctx context.Context, filter websift.ProfileFilter) ([]*websift.SiteProfile, error) {
				gotFilter = filter
				return []*websift.SiteProfile{}, nil
			},
		}

		rec := do(s, http.MethodGet, "/api/profiles?domain=example.com", "")

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotFilter.Domain)
		assert.Equal(t, "example.com", *gotFilter.Domain)
	})

	t.Run("looks up a profile by domain", func(t *testing.T) {
		t.Parallel()

		s := websifthttp.NewServer()
		s.Profiles = &mock.ProfileService{
			FindProfileByDomainFn: func(ctx context.Context, domain string) (*websift.SiteProfile, error) {
				return &websift.SiteProfile{ID: "p1", Domain: domain, ExtractionMode: "article"}, nil
			},
		}

		rec := do(s, http.MethodGet, "/api/profiles/domain/example.com", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var profile websift.SiteProfile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
		assert.Equal(t, "example.com", profile.Domain)
	})

	t.Run("reports profile stats", func(t *testing.T) {
		t.Parallel()

		s := websifthttp.NewServer()
		s.Profiles = &mock.ProfileService{
			StatsFn: func(ctx context.Context) (*websift.ProfileStats, error) {
				return &websift.ProfileStats{TotalProfiles: 4, TotalDomains: 3}, nil
			},
		}

		rec := do(s, http.MethodGet, "/api/profiles/stats", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var stats websift.ProfileStats
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
		assert.Equal(t, 4, stats.TotalProfiles)
	})

	t.Run("deletes a profile by id", func(t *testing.T) {
		t.Parallel()

		var deletedID string
		s := websifthttp.NewServer()
		s.Profiles = &mock.ProfileService{
			DeleteProfileFn: func(ctx context.Context, id string) error {
				deletedID = id
				return nil
			},
		}

		rec := do(s, http.MethodDelete, "/api/profiles/p1", "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "p1", deletedID)
	})
}
