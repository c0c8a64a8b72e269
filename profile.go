package websift

import (
	"context"
	"net/url"
	"time"
)

// SiteProfile is a learned extraction profile for a domain: the selectors
// a structure analysis recommended, how confident the analysis was, and
// how the profile has performed since.
type SiteProfile struct {
	ID                  string    `json:"id"`
	Domain              string    `json:"domain"`
	Pattern             string    `json:"pattern,omitempty"`
	MainContentSelector string    `json:"main_content_selector,omitempty"`
	TitleSelector       string    `json:"title_selector,omitempty"`
	CommentsSelector    string    `json:"comments_selector,omitempty"`
	ExtractionMode      string    `json:"extraction_mode"`
	Confidence          float64   `json:"confidence"`
	UseCount            int       `json:"use_count"`
	SuccessRate         float64   `json:"success_rate"`
	CreatedAt           time.Time `json:"created_at"`
	LastUsed            time.Time `json:"last_used"`
	Notes               string    `json:"notes,omitempty"`
}

// Validate returns an error if the profile contains invalid fields.
func (p *SiteProfile) Validate() error {
	if p.Domain == "" {
		return Errorf(EINVALID, "profile domain required")
	}
	if p.ExtractionMode == "" {
		return Errorf(EINVALID, "profile extraction mode required")
	}
	return nil
}

// Selectors converts the profile's stored selectors into a vocabulary
// override suitable for the content detector.
func (p *SiteProfile) Selectors() *Selectors {
	s := &Selectors{}
	if p.TitleSelector != "" {
		s.Title = []string{p.TitleSelector}
	}
	if p.MainContentSelector != "" {
		s.Content = []string{p.MainContentSelector}
	}
	return s
}

// BuildProfile constructs a profile from a structure analysis.
// The profile's confidence is the confidence of the winning main-content
// section, or zero when the analysis found none.
func BuildProfile(analysis *StructureAnalysis) (*SiteProfile, error) {
	u, err := url.Parse(analysis.URL)
	if err != nil || u.Host == "" {
		return nil, Errorf(EINVALID, "cannot extract domain from URL %q", analysis.URL)
	}

	var confidence float64
	for _, s := range analysis.Sections {
		if s.Selector == analysis.Recommendations.BestMainContent {
			confidence = s.Confidence
			break
		}
	}

	return &SiteProfile{
		Domain:              u.Hostname(),
		MainContentSelector: analysis.Recommendations.BestMainContent,
		TitleSelector:       analysis.Recommendations.BestTitle,
		CommentsSelector:    analysis.Recommendations.BestComments,
		ExtractionMode:      string(analysis.Recommendations.SuggestedMode),
		Confidence:          confidence,
		SuccessRate:         1.0,
	}, nil
}

// ProfileStats summarizes the stored profiles.
type ProfileStats struct {
	TotalProfiles int     `json:"total_profiles"`
	TotalDomains  int     `json:"total_domains"`
	TotalUses     int     `json:"total_uses"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// ProfileFilter represents a filter for FindProfiles.
type ProfileFilter struct {
	ID     *string `json:"id"`
	Domain *string `json:"domain"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ProfileService persists learned site profiles.
type ProfileService interface {
	// SaveProfile stores a profile, assigning its ID and timestamps.
	SaveProfile(ctx context.Context, profile *SiteProfile) error

	// FindProfileByID retrieves a profile by ID.
	// Returns ENOTFOUND if the profile does not exist.
	FindProfileByID(ctx context.Context, id string) (*SiteProfile, error)

	// FindProfileByDomain retrieves the highest-confidence profile for a
	// domain. Returns ENOTFOUND if no profile exists for the domain.
	FindProfileByDomain(ctx context.Context, domain string) (*SiteProfile, error)

	// FindProfiles retrieves profiles matching the filter.
	FindProfiles(ctx context.Context, filter ProfileFilter) ([]*SiteProfile, error)

	// DeleteProfile permanently removes a profile.
	// Returns ENOTFOUND if the profile does not exist.
	DeleteProfile(ctx context.Context, id string) error

	// DeleteProfiles removes all stored profiles.
	DeleteProfiles(ctx context.Context) error

	// TouchProfile increments a profile's use count and refreshes its
	// last-used timestamp.
	TouchProfile(ctx context.Context, id string) error

	// Stats summarizes the stored profiles.
	Stats(ctx context.Context) (*ProfileStats, error)
}
