package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/websift/websift"
	"github.com/websift/websift/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	DB          *sqlite.DB
	Fetcher     websift.Fetcher
	Analyzer    websift.Analyzer
	Detector    websift.Detector
	Scraper     websift.ScrapeService
	DeepScraper websift.DeepScrapeService
	Sessions    websift.SessionService
	Profiles    websift.ProfileService
	Logger      *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Analyze    AnalyzeCmd    `cmd:"" help:"Analyze a page's structure and suggest selectors"`
	Scrape     ScrapeCmd     `cmd:"" help:"Scrape seed URLs, optionally following pagination"`
	DeepScrape DeepScrapeCmd `cmd:"" name:"deep-scrape" help:"Crawl a site breadth-first from start URLs"`
	Serve      ServeCmd      `cmd:"" help:"Run the REST API server"`

	Timeout time.Duration `short:"t" default:"30s" help:"Fetch timeout per page"`
	Verbose bool          `short:"v" help:"Enable debug logging"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	URL         string `arg:"" help:"Page URL to analyze"`
	SaveProfile bool   `short:"s" help:"Persist the derived site profile"`
	Output      string `short:"o" help:"Directory to export the analysis as JSON"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs       []string `arg:"" help:"Seed URLs to scrape"`
	Pagination bool     `short:"p" help:"Follow next-page links"`
	MaxPages   int      `help:"Page cap per pagination chain (0 = unlimited)"`
	RateLimit  float64  `default:"2" help:"Requests per second"`
	Save       bool     `short:"s" help:"Persist the session to the database"`
	Output     string   `short:"o" help:"Directory to export the session as JSON"`
}

// DeepScrapeCmd is the "deep-scrape" subcommand.
type DeepScrapeCmd struct {
	URLs             []string `arg:"" help:"Start URLs for the crawl"`
	MaxDepth         int      `short:"d" default:"2" help:"Maximum link depth from the start URLs"`
	MaxPages         int      `default:"50" help:"Maximum pages to fetch"`
	StayInDomain     bool     `help:"Only follow links within the start URL's base domain"`
	StayInSubdomain  bool     `help:"Only follow links on the start URL's exact host"`
	Include          []string `short:"i" name:"include" help:"Only follow URLs matching a regex (repeatable)"`
	Exclude          []string `short:"e" name:"exclude" help:"Skip URLs matching a regex (repeatable)"`
	RateLimit        float64  `default:"2" help:"Requests per second per domain"`
	FilterNavigation bool     `help:"Skip links with navigation chrome text"`
	MinContentLength int      `default:"200" help:"Minimum text length for a page to count as a result"`
	Save             bool     `short:"s" help:"Persist the session to the database"`
	Output           string   `short:"o" help:"Directory to export the session as JSON"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"Listen address"`
}
