package mock

import "github.com/websift/websift"

var _ websift.Detector = (*Detector)(nil)

// Detector is a mock implementation of websift.Detector.
type Detector struct {
	DetectFn func(html string, baseURL string, overrides *websift.Selectors) websift.DetectedContent
}

func (d *Detector) Detect(html string, baseURL string, overrides *websift.Selectors) websift.DetectedContent {
	return d.DetectFn(html, baseURL, overrides)
}

var _ websift.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of websift.Analyzer.
type Analyzer struct {
	AnalyzeFn func(html string, url string) *websift.StructureAnalysis
}

func (a *Analyzer) Analyze(html string, url string) *websift.StructureAnalysis {
	return a.AnalyzeFn(html, url)
}
