package websift

// SectionType classifies a candidate content region of a page.
type SectionType string

// Section classifications. A section is assigned exactly one type.
const (
	TypeMainContent    SectionType = "main_content"
	TypeArticle        SectionType = "article"
	TypeSidebar        SectionType = "sidebar"
	TypeNavigation     SectionType = "navigation"
	TypeHeader         SectionType = "header"
	TypeFooter         SectionType = "footer"
	TypeComments       SectionType = "comments"
	TypeRelatedLinks   SectionType = "related_links"
	TypeAdvertisements SectionType = "advertisements"
	TypeUnknown        SectionType = "unknown"
)

// SectionStats holds raw and derived measurements for a section.
// DensityScore and LinkDensity are normalized to [0,1]; the remaining
// fields are raw counts.
type SectionStats struct {
	TextLength     int     `json:"text_length"`
	WordCount      int     `json:"word_count"`
	LinkCount      int     `json:"link_count"`
	ImageCount     int     `json:"image_count"`
	ParagraphCount int     `json:"paragraph_count"`
	HeadingCount   int     `json:"heading_count"`
	ElementCount   int     `json:"element_count"`
	DensityScore   float64 `json:"density_score"`
	LinkDensity    float64 `json:"link_density"`
}

// Section represents one candidate content region of a parsed document.
// The Selector is re-queryable against the same document; Score measures
// overall content-worthiness and Confidence the certainty of the type
// assignment, both in [0,1].
type Section struct {
	Selector    string       `json:"selector"`
	SectionType SectionType  `json:"section_type"`
	Score       float64      `json:"score"`
	Confidence  float64      `json:"confidence"`
	Stats       SectionStats `json:"stats"`
	Preview     string       `json:"preview"`
}

// ExtractionMode labels the overall shape of a page.
type ExtractionMode string

// Suggested extraction modes.
const (
	ModeArticle ExtractionMode = "article"
	ModeGeneric ExtractionMode = "generic"
	ModeNone    ExtractionMode = "none"
)

// ConfidenceLevel buckets a confidence score for human consumption.
type ConfidenceLevel string

// Confidence buckets.
const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// BucketConfidence maps a confidence score to its bucket:
// >= 0.8 high, >= 0.5 medium, otherwise low.
func BucketConfidence(confidence float64) ConfidenceLevel {
	switch {
	case confidence >= 0.8:
		return ConfidenceHigh
	case confidence >= 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Recommendations holds the best selector per role derived from scored
// sections. Selector fields are either populated with a selector that is
// re-queryable against the analyzed document, or empty.
type Recommendations struct {
	BestMainContent string          `json:"best_main_content,omitempty"`
	BestTitle       string          `json:"best_title,omitempty"`
	BestComments    string          `json:"best_comments,omitempty"`
	SuggestedMode   ExtractionMode  `json:"suggested_mode"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
}

// DebugInfo carries optional diagnostics for an analysis run.
type DebugInfo struct {
	TotalElements    int   `json:"total_elements"`
	AnalyzedSections int   `json:"analyzed_sections"`
	ProcessingTimeMS int64 `json:"processing_time_ms"`
}

// StructureAnalysis is the full analysis result for one URL at one point
// in time. Sections are ordered by descending score, ties broken by
// document order.
type StructureAnalysis struct {
	URL             string          `json:"url"`
	Timestamp       string          `json:"timestamp"`
	Sections        []Section       `json:"sections"`
	Recommendations Recommendations `json:"recommendations"`
	DebugInfo       *DebugInfo      `json:"debug_info,omitempty"`
}

// Analyzer produces a structure analysis from raw HTML.
// Implementations are pure: analyzing the same HTML twice yields
// identical results.
type Analyzer interface {
	Analyze(html string, url string) *StructureAnalysis
}
