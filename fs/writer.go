// Package fs exports analyses and scraping sessions to disk as JSON
// documents.
package fs

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/websift/websift"
)

// URLToPath converts a page URL to a relative JSON file path.
// Example: https://example.com/docs/api → example.com/docs/api.json
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", websift.Errorf(websift.EINVALID, "cannot derive path from URL %q", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	if path == "" || strings.HasSuffix(path, "/") {
		path += "index"
	}
	return filepath.Join(u.Hostname(), path+".json"), nil
}

// Writer writes analyses and sessions as JSON files under a base
// directory. Files are written to a temporary name and renamed into
// place so readers never observe partial documents.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer rooted at baseDir.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteAnalysis stores a structure analysis under a path derived from
// its URL and returns the path written.
func (w *Writer) WriteAnalysis(analysis *websift.StructureAnalysis) (string, error) {
	relPath, err := URLToPath(analysis.URL)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(w.baseDir, "analyses", relPath)
	if err := w.writeJSON(fullPath, analysis); err != nil {
		return "", err
	}
	return fullPath, nil
}

// WriteSession stores a session as sessions/<id>.json and returns the
// path written. The session must carry an ID.
func (w *Writer) WriteSession(session *websift.ScrapingSession) (string, error) {
	if session.ID == "" {
		return "", websift.Errorf(websift.EINVALID, "session ID required")
	}
	fullPath := filepath.Join(w.baseDir, "sessions", session.ID+".json")
	if err := w.writeJSON(fullPath, session); err != nil {
		return "", err
	}
	return fullPath, nil
}

// writeJSON marshals v with indentation and atomically replaces the
// file at path.
func (w *Writer) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
