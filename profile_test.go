package websift_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/websift/websift"
)

func TestBuildProfile(t *testing.T) {
	t.Parallel()

	t.Run("builds profile from analysis recommendations", func(t *testing.T) {
		t.Parallel()

		analysis := &websift.StructureAnalysis{
			URL: "https://blog.example.com/post/42",
			Sections: []websift.Section{
				{Selector: "article", SectionType: websift.TypeArticle, Score: 0.85, Confidence: 0.9},
			},
			Recommendations: websift.Recommendations{
				BestMainContent: "article",
				BestTitle:       "h1",
				SuggestedMode:   websift.ModeArticle,
				ConfidenceLevel: websift.ConfidenceHigh,
			},
		}

		profile, err := websift.BuildProfile(analysis)

		require.NoError(t, err)
		assert.Equal(t, "blog.example.com", profile.Domain)
		assert.Equal(t, "article", profile.MainContentSelector)
		assert.Equal(t, "h1", profile.TitleSelector)
		assert.Equal(t, "article", profile.ExtractionMode)
		assert.Equal(t, 0.9, profile.Confidence)
		assert.Equal(t, 1.0, profile.SuccessRate)
	})

	t.Run("zero confidence when no main content found", func(t *testing.T) {
		t.Parallel()

		analysis := &websift.StructureAnalysis{
			URL: "https://example.com",
			Recommendations: websift.Recommendations{
				SuggestedMode:   websift.ModeNone,
				ConfidenceLevel: websift.ConfidenceLow,
			},
		}

		profile, err := websift.BuildProfile(analysis)

		require.NoError(t, err)
		assert.Zero(t, profile.Confidence)
	})

	t.Run("rejects URL without host", func(t *testing.T) {
		t.Parallel()

		_, err := websift.BuildProfile(&websift.StructureAnalysis{URL: "not a url"})

		require.Error(t, err)
		assert.Equal(t, websift.EINVALID, websift.ErrorCode(err))
	})
}

func TestSiteProfile_Selectors(t *testing.T) {
	t.Parallel()

	profile := websift.SiteProfile{
		MainContentSelector: ".post-content",
		TitleSelector:       "h1.entry-title",
	}

	s := profile.Selectors()

	assert.Equal(t, []string{".post-content"}, s.Content)
	assert.Equal(t, []string{"h1.entry-title"}, s.Title)
	assert.Empty(t, s.Links)
}
