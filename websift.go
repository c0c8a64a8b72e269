// Package websift provides structure-aware web scraping without per-site
// hand-authored rules. It analyzes the structure of HTML pages, scores
// candidate content regions, derives CSS selectors for the main content,
// title, and comments, and applies those selectors to extract structured
// content across paginated listings.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package websift
