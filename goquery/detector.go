package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/websift/websift"
)

// Ensure Detector implements websift.Detector at compile time.
var _ websift.Detector = (*Detector)(nil)

// Detector extracts structured content from HTML by trying each
// candidate selector per role in order and using the first one that
// yields a non-empty match. A role where no selector matches is left
// empty; that is a normal outcome, not an error.
type Detector struct {
	Selectors websift.Selectors
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithSelectors replaces the built-in selector vocabulary.
func WithSelectors(s websift.Selectors) DetectorOption {
	return func(d *Detector) { d.Selectors = s }
}

// NewDetector creates a Detector with the built-in vocabulary.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{Selectors: websift.DefaultSelectors()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect extracts title, content, links, images, and metadata from
// rawHTML. Link and image URLs are resolved against baseURL. A non-nil
// overrides replaces vocabulary roles for this call only.
func (d *Detector) Detect(rawHTML string, baseURL string, overrides *websift.Selectors) websift.DetectedContent {
	content := websift.DetectedContent{
		Content:  []string{},
		Links:    []websift.Link{},
		Images:   []websift.Image{},
		Metadata: map[string]string{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return content
	}

	vocab := d.Selectors.Merge(overrides)
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	content.Title = detectTitle(doc, vocab.Title)
	content.Content = detectContent(doc, vocab.Content)
	content.Links = detectLinks(doc, vocab.Links, base)
	content.Images = detectImages(doc, vocab.Images, base)
	content.Metadata = detectMetadata(doc, vocab.Metadata)
	return content
}

func detectTitle(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		title := ""
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			var text string
			if strings.HasPrefix(selector, "meta") {
				text, _ = sel.Attr("content")
				text = strings.TrimSpace(text)
			} else {
				text = normalizeText(sel.Text())
			}
			if text != "" {
				title = text
				return false
			}
			return true
		})
		if title != "" {
			return title
		}
	}
	return ""
}

func detectContent(doc *goquery.Document, selectors []string) []string {
	for _, selector := range selectors {
		var blocks []string
		seen := make(map[string]bool)
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := normalizeText(sel.Text())
			if text == "" || seen[text] {
				return
			}
			seen[text] = true
			blocks = append(blocks, text)
		})
		if len(blocks) > 0 {
			return blocks
		}
	}
	return []string{}
}

func detectLinks(doc *goquery.Document, selectors []string, base *url.URL) []websift.Link {
	for _, selector := range selectors {
		var links []websift.Link
		seen := make(map[string]bool)
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok || strings.TrimSpace(href) == "" {
				return
			}
			resolved := resolveURL(base, href)
			if resolved == nil || seen[resolved.String()] {
				return
			}
			seen[resolved.String()] = true

			text := normalizeText(sel.Text())
			if text == "" {
				text = href
			}
			links = append(links, websift.Link{
				Text:       text,
				Href:       resolved.String(),
				IsExternal: base != nil && resolved.Hostname() != base.Hostname(),
			})
		})
		if len(links) > 0 {
			return links
		}
	}
	return []websift.Link{}
}

func detectImages(doc *goquery.Document, selectors []string, base *url.URL) []websift.Image {
	for _, selector := range selectors {
		var images []websift.Image
		seen := make(map[string]bool)
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			src, ok := sel.Attr("src")
			if !ok || strings.TrimSpace(src) == "" {
				// Lazy-loaded images carry the real URL in data-src.
				src, ok = sel.Attr("data-src")
				if !ok || strings.TrimSpace(src) == "" {
					return
				}
			}
			if strings.HasPrefix(src, "//") {
				src = "https:" + src
			}
			resolved := resolveURL(base, src)
			if resolved == nil || seen[resolved.String()] {
				return
			}
			seen[resolved.String()] = true

			alt, _ := sel.Attr("alt")
			title, _ := sel.Attr("title")
			images = append(images, websift.Image{
				Src:   resolved.String(),
				Alt:   alt,
				Title: title,
			})
		})
		if len(images) > 0 {
			return images
		}
	}
	return []websift.Image{}
}

func detectMetadata(doc *goquery.Document, selectors []string) map[string]string {
	for _, selector := range selectors {
		metadata := make(map[string]string)
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			content, ok := sel.Attr("content")
			if !ok || strings.TrimSpace(content) == "" {
				return
			}
			key, ok := sel.Attr("name")
			if !ok || key == "" {
				key, ok = sel.Attr("property")
				if !ok || key == "" {
					key = "unknown"
				}
			}
			metadata[key] = content
		})
		if len(metadata) > 0 {
			return metadata
		}
	}
	return map[string]string{}
}

// resolveURL resolves ref against base and returns it when it is an
// absolute http(s) URL, nil otherwise. Non-HTTP schemes (javascript:,
// mailto:) are dropped.
func resolveURL(base *url.URL, ref string) *url.URL {
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil
	}
	return parsed
}
