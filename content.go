package websift

// Link is a hyperlink extracted from a page. Href is always an absolute
// URL; IsExternal reports whether its host differs from the page's host.
type Link struct {
	Text       string `json:"text"`
	Href       string `json:"href"`
	IsExternal bool   `json:"is_external"`
}

// Image is an image reference extracted from a page. Src is always an
// absolute URL.
type Image struct {
	Src   string `json:"src"`
	Alt   string `json:"alt,omitempty"`
	Title string `json:"title,omitempty"`
}

// DetectedContent is the structured content pulled from one page by
// applying the selector vocabulary. Empty roles are normal "nothing
// found" outcomes, not errors.
type DetectedContent struct {
	Title    string            `json:"title,omitempty"`
	Content  []string          `json:"content"`
	Links    []Link            `json:"links"`
	Images   []Image           `json:"images"`
	Metadata map[string]string `json:"metadata"`
}

// Detector extracts structured content from raw HTML using a selector
// vocabulary. The base URL is used to resolve relative link and image
// URLs. A non-nil overrides value replaces the vocabulary role-wise for
// that call.
type Detector interface {
	Detect(html string, baseURL string, overrides *Selectors) DetectedContent
}
