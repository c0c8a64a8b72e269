package websift

// Selectors is the selector vocabulary: ordered candidate CSS selectors
// per logical field. Earlier entries win; the first selector that yields a
// non-empty match is used for its role.
type Selectors struct {
	Title    []string `json:"title"`
	Content  []string `json:"content"`
	Links    []string `json:"links"`
	Images   []string `json:"images"`
	Metadata []string `json:"metadata"`
}

// DefaultSelectors returns the built-in selector vocabulary used when no
// caller-supplied selectors are provided.
func DefaultSelectors() Selectors {
	return Selectors{
		Title: []string{
			"h1",
			"h2",
			"title",
			"meta[property='og:title']",
			".title",
			"#title",
		},
		Content: []string{
			"article",
			"main",
			"p",
			".content",
			".article-body",
			".post-content",
			"[role='main']",
		},
		Links: []string{
			"a[href]",
			"nav a",
			".nav-link",
		},
		Images: []string{
			"img[src]",
			"picture img",
			"[data-src]",
		},
		Metadata: []string{
			"meta[name='description']",
			"meta[property='og:description']",
			"meta[name='keywords']",
			"meta[name='author']",
		},
	}
}

// Merge overlays non-empty roles from override onto s and returns the
// result. Roles left empty in override keep the receiver's candidates.
func (s Selectors) Merge(override *Selectors) Selectors {
	if override == nil {
		return s
	}
	merged := s
	if len(override.Title) > 0 {
		merged.Title = override.Title
	}
	if len(override.Content) > 0 {
		merged.Content = override.Content
	}
	if len(override.Links) > 0 {
		merged.Links = override.Links
	}
	if len(override.Images) > 0 {
		merged.Images = override.Images
	}
	if len(override.Metadata) > 0 {
		merged.Metadata = override.Metadata
	}
	return merged
}
