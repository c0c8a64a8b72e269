package goquery

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/websift/websift"
	"golang.org/x/net/html"
)

// Ensure Analyzer implements websift.Analyzer at compile time.
var _ websift.Analyzer = (*Analyzer)(nil)

// Analyzer defaults.
const (
	// DefaultDensityNorm is the characters-per-element ratio at which the
	// density score saturates to 1. A well-formed article paragraph block
	// sits well above this.
	DefaultDensityNorm = 100.0

	// DefaultMainThreshold is the minimum score for a heuristic container
	// to be classified as main content.
	DefaultMainThreshold = 0.6

	previewLength = 200

	// Link density boundaries for heuristic classification.
	lowLinkDensity = 0.3
	adLinkDensity  = 0.7

	commentConfidence = 0.9
)

// structuralSeed maps a vocabulary selector to the section type it seeds.
// Landmark seeds are retained regardless of content length; the rest are
// subject to the minimum content length.
type structuralSeed struct {
	selector    string
	sectionType websift.SectionType
	landmark    bool
}

var structuralSeeds = []structuralSeed{
	{"article", websift.TypeArticle, true},
	{"main", websift.TypeMainContent, true},
	{"[role='main']", websift.TypeMainContent, true},
	{".content", websift.TypeMainContent, false},
	{".main-content", websift.TypeMainContent, false},
	{".post-content", websift.TypeArticle, false},
	{".article-body", websift.TypeArticle, false},
	{"aside", websift.TypeSidebar, true},
	{".sidebar", websift.TypeSidebar, false},
	{".widget", websift.TypeSidebar, false},
	{"nav", websift.TypeNavigation, true},
	{".navigation", websift.TypeNavigation, false},
	{".menu", websift.TypeNavigation, false},
	{"header", websift.TypeHeader, true},
	{"footer", websift.TypeFooter, true},
	{".comments", websift.TypeComments, false},
	{"#comments", websift.TypeComments, false},
	{".comment-list", websift.TypeComments, false},
}

// typeProfile drives confidence scoring for vocabulary-seeded sections:
// a base confidence per type minus a penalty when the content heuristics
// disagree with the seeded type.
type typeProfile struct {
	base    float64
	penalty func(stats websift.SectionStats) float64
}

var typeProfiles = map[websift.SectionType]typeProfile{
	websift.TypeArticle: {base: 1.0, penalty: func(s websift.SectionStats) float64 {
		if s.ParagraphCount == 0 {
			return 0.3
		}
		if s.LinkDensity > 0.5 {
			return 0.2
		}
		return 0
	}},
	websift.TypeMainContent: {base: 0.95, penalty: func(s websift.SectionStats) float64 {
		if s.LinkDensity > 0.5 {
			return 0.25
		}
		return 0
	}},
	websift.TypeNavigation: {base: 1.0, penalty: func(s websift.SectionStats) float64 {
		// Navigation should be link-dense; prose-heavy navs are suspect.
		if s.LinkDensity < 0.5 && s.TextLength > 500 {
			return 0.3
		}
		return 0
	}},
	websift.TypeSidebar: {base: 0.9, penalty: func(s websift.SectionStats) float64 {
		if s.LinkCount == 0 && s.ParagraphCount > 2 {
			return 0.25
		}
		return 0
	}},
	websift.TypeHeader: {base: 0.9, penalty: func(s websift.SectionStats) float64 {
		if s.TextLength > 1000 {
			return 0.2
		}
		return 0
	}},
	websift.TypeFooter: {base: 0.9, penalty: func(s websift.SectionStats) float64 {
		if s.TextLength > 1000 {
			return 0.2
		}
		return 0
	}},
	websift.TypeComments: {base: commentConfidence},
}

// Analyzer scores candidate content regions of an HTML page and derives
// selector recommendations. Analyze is a pure function over the HTML:
// identical input yields identical sections and recommendations.
type Analyzer struct {
	MinContentLength int
	DensityNorm      float64
	MainThreshold    float64
	DetectComments   bool
	DebugMode        bool
	Vocabulary       websift.Selectors
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithMinContentLength sets the minimum text length for non-landmark
// candidates. Defaults to 200.
func WithMinContentLength(n int) AnalyzerOption {
	return func(a *Analyzer) { a.MinContentLength = n }
}

// WithDetectComments enables comment section detection.
func WithDetectComments(enabled bool) AnalyzerOption {
	return func(a *Analyzer) { a.DetectComments = enabled }
}

// WithDebugMode enables debug diagnostics on analysis results.
func WithDebugMode(enabled bool) AnalyzerOption {
	return func(a *Analyzer) { a.DebugMode = enabled }
}

// WithDensityNorm sets the density saturation constant.
func WithDensityNorm(norm float64) AnalyzerOption {
	return func(a *Analyzer) { a.DensityNorm = norm }
}

// WithMainThreshold sets the score threshold for heuristic main-content
// classification.
func WithMainThreshold(threshold float64) AnalyzerOption {
	return func(a *Analyzer) { a.MainThreshold = threshold }
}

// NewAnalyzer creates an Analyzer with defaults.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		MinContentLength: websift.DefaultMinContentLength,
		DensityNorm:      DefaultDensityNorm,
		MainThreshold:    DefaultMainThreshold,
		Vocabulary:       websift.DefaultSelectors(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type candidate struct {
	section websift.Section
	order   int
}

// Analyze parses rawHTML and returns scored, classified, deduplicated
// sections plus selector recommendations. Malformed HTML and pages with
// no qualifying sections yield an empty section list with suggested mode
// "none"; neither is an error.
func (a *Analyzer) Analyze(rawHTML string, url string) *websift.StructureAnalysis {
	started := time.Now()
	analysis := &websift.StructureAnalysis{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Sections:  []websift.Section{},
		Recommendations: websift.Recommendations{
			SuggestedMode:   websift.ModeNone,
			ConfidenceLevel: websift.ConfidenceLow,
		},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return analysis
	}

	order := documentOrder(doc.Nodes[0])

	var candidates []candidate
	seenNodes := make(map[*html.Node]bool)
	seenSelectors := make(map[string]bool)

	add := func(node *html.Node, section websift.Section) {
		if seenSelectors[section.Selector] {
			return
		}
		seenNodes[node] = true
		seenSelectors[section.Selector] = true
		candidates = append(candidates, candidate{section: section, order: order[node]})
	}

	// Vocabulary-seeded candidates in table order, so semantic tags win
	// node-level deduplication against their class-based synonyms.
	for _, seed := range structuralSeeds {
		doc.Find(seed.selector).Each(func(_ int, sel *goquery.Selection) {
			node := sel.Nodes[0]
			if seenNodes[node] {
				return
			}

			stats := a.stats(sel, node)
			if !seed.landmark && stats.TextLength < a.MinContentLength {
				return
			}

			selector := uniqueSelector(doc, node, seed.selector)
			sectionType := seed.sectionType
			confidence := typeConfidence(sectionType, stats)
			if a.DetectComments && commentIndicative(node, selector) {
				sectionType = websift.TypeComments
				confidence = commentConfidence
			}

			add(node, websift.Section{
				Selector:    selector,
				SectionType: sectionType,
				Score:       contentScore(stats),
				Confidence:  confidence,
				Stats:       stats,
				Preview:     truncateRunes(normalizeText(sel.Text()), previewLength),
			})
		})
	}

	// Heuristic container candidates: div/section elements with enough
	// text. Score and confidence intentionally coincide here.
	doc.Find("div, section").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Nodes[0]
		if seenNodes[node] {
			return
		}

		stats := a.stats(sel, node)
		if stats.TextLength < a.MinContentLength {
			return
		}

		score := contentScore(stats)
		sectionType := websift.TypeUnknown
		switch {
		case score >= a.MainThreshold && stats.LinkDensity <= lowLinkDensity:
			sectionType = websift.TypeMainContent
		case stats.LinkDensity >= adLinkDensity && stats.TextLength < a.MinContentLength*2:
			sectionType = websift.TypeAdvertisements
		}

		selector := uniqueSelector(doc, node, "")
		confidence := score
		if a.DetectComments && commentIndicative(node, selector) {
			sectionType = websift.TypeComments
			confidence = commentConfidence
		}

		add(node, websift.Section{
			Selector:    selector,
			SectionType: sectionType,
			Score:       score,
			Confidence:  confidence,
			Stats:       stats,
			Preview:     truncateRunes(normalizeText(sel.Text()), previewLength),
		})
	})

	// Descending score, document order on ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].section.Score != candidates[j].section.Score {
			return candidates[i].section.Score > candidates[j].section.Score
		}
		return candidates[i].order < candidates[j].order
	})

	for _, c := range candidates {
		analysis.Sections = append(analysis.Sections, c.section)
	}
	analysis.Recommendations = a.recommend(doc, analysis.Sections)

	if a.DebugMode {
		analysis.DebugInfo = &websift.DebugInfo{
			TotalElements:    len(order),
			AnalyzedSections: len(analysis.Sections),
			ProcessingTimeMS: time.Since(started).Milliseconds(),
		}
	}

	return analysis
}

// stats computes the raw counts and derived densities for one element.
func (a *Analyzer) stats(sel *goquery.Selection, node *html.Node) websift.SectionStats {
	text := normalizeText(sel.Text())
	textLength := countNonSpace(text)
	elementCount := countElements(node)

	rawDensity := float64(textLength) / math.Max(1, float64(elementCount))

	return websift.SectionStats{
		TextLength:     textLength,
		WordCount:      len(strings.Fields(text)),
		LinkCount:      sel.Find("a").Length(),
		ImageCount:     sel.Find("img").Length(),
		ParagraphCount: sel.Find("p").Length(),
		HeadingCount:   sel.Find("h1, h2, h3").Length(),
		ElementCount:   elementCount,
		DensityScore:   math.Min(1, rawDensity/a.DensityNorm),
		LinkDensity:    clamp01(float64(sel.Find("a").Length()) * 50 / math.Max(1, float64(textLength))),
	}
}

// contentScore is the content-worthiness formula:
// 0.3*density + 0.3*(1-link_density) + 0.2*paragraph factor + 0.2*length factor.
func contentScore(stats websift.SectionStats) float64 {
	score := 0.3*stats.DensityScore +
		0.3*(1-stats.LinkDensity) +
		0.2*math.Min(1, float64(stats.ParagraphCount)/10) +
		0.2*math.Min(1, float64(stats.TextLength)/5000)
	return clamp01(score)
}

// typeConfidence returns the confidence for a vocabulary-seeded section
// type, dispatching through the type profile table.
func typeConfidence(t websift.SectionType, stats websift.SectionStats) float64 {
	profile, ok := typeProfiles[t]
	if !ok {
		return 0.5
	}
	confidence := profile.base
	if profile.penalty != nil {
		confidence -= profile.penalty(stats)
	}
	return clamp01(confidence)
}

// commentIndicative reports whether the node's selector, class, or id
// suggests a comment region.
func commentIndicative(n *html.Node, selector string) bool {
	probe := strings.ToLower(selector + " " + attrVal(n, "class") + " " + attrVal(n, "id"))
	return strings.Contains(probe, "comment") || strings.Contains(probe, "disqus")
}

// recommend derives the best selector per role from scored sections.
func (a *Analyzer) recommend(doc *goquery.Document, sections []websift.Section) websift.Recommendations {
	rec := websift.Recommendations{
		SuggestedMode:   websift.ModeNone,
		ConfidenceLevel: websift.ConfidenceLow,
	}

	var best *websift.Section
	for i := range sections {
		s := &sections[i]
		if s.SectionType != websift.TypeArticle && s.SectionType != websift.TypeMainContent {
			continue
		}
		switch {
		case best == nil || s.Score > best.Score:
			best = s
		case s.Score == best.Score && s.SectionType == websift.TypeArticle && best.SectionType == websift.TypeMainContent:
			// Prefer the explicit article at equal score.
			best = s
		}
	}
	if best != nil {
		rec.BestMainContent = best.Selector
		if best.SectionType == websift.TypeArticle {
			rec.SuggestedMode = websift.ModeArticle
		} else {
			rec.SuggestedMode = websift.ModeGeneric
		}
		rec.ConfidenceLevel = websift.BucketConfidence(best.Confidence)
	}

	rec.BestTitle = a.bestTitle(doc)

	if a.DetectComments {
		var bestComments *websift.Section
		for i := range sections {
			s := &sections[i]
			if s.SectionType != websift.TypeComments {
				continue
			}
			if bestComments == nil || s.Confidence > bestComments.Confidence {
				bestComments = s
			}
		}
		if bestComments != nil {
			rec.BestComments = bestComments.Selector
		}
	}

	return rec
}

// bestTitle returns the first title-vocabulary selector with a non-empty
// match in the document, independent of section scoring.
func (a *Analyzer) bestTitle(doc *goquery.Document) string {
	for _, selector := range a.Vocabulary.Title {
		matched := false
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if strings.HasPrefix(selector, "meta") {
				if content, ok := sel.Attr("content"); ok && strings.TrimSpace(content) != "" {
					matched = true
					return false
				}
				return true
			}
			if normalizeText(sel.Text()) != "" {
				matched = true
				return false
			}
			return true
		})
		if matched {
			return selector
		}
	}
	return ""
}
