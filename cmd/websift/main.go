package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/websift/websift/crawl"
	"github.com/websift/websift/goquery"
	websifthttp "github.com/websift/websift/http"
	websiftslog "github.com/websift/websift/slog"
	"github.com/websift/websift/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("websift"),
		kong.Description("Analyze page structure, derive selectors, and scrape sites"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'websift --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set WEBSIFT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	fetcher := websiftslog.NewLoggingFetcher(
		websifthttp.NewFetcher(websifthttp.WithTimeout(cli.Timeout)),
		logger,
	)
	defer fetcher.Close()

	detector := goquery.NewDetector()

	deps.DB = m.DB
	deps.Sessions = sqlite.NewSessionService(m.DB)
	deps.Profiles = sqlite.NewProfileService(m.DB)
	deps.Fetcher = fetcher
	deps.Analyzer = goquery.NewAnalyzer()
	deps.Detector = detector
	deps.Scraper = websiftslog.NewLoggingScrapeService(&crawl.Scraper{
		Fetcher:  fetcher,
		Detector: detector,
		Logger:   logger,
	}, logger)
	deps.DeepScraper = websiftslog.NewLoggingDeepScrapeService(&crawl.DeepScraper{
		Fetcher:  fetcher,
		Detector: detector,
		Logger:   logger,
	}, logger)
	deps.Logger = logger

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("WEBSIFT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "websift.db"
	}
	dir := filepath.Join(home, ".websift")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "websift.db")
}
