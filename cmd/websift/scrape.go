package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/websift/websift"
	"github.com/websift/websift/fs"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	config := websift.ScrapingConfig{
		URLs:             c.URLs,
		EnablePagination: c.Pagination,
		MaxPages:         c.MaxPages,
		RateLimit:        c.RateLimit,
	}

	session, err := deps.Scraper.Scrape(deps.Ctx, config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", websift.ErrorMessage(err))
		return err
	}

	if err := exportSession(deps, session, c.Save, c.Output); err != nil {
		return err
	}

	printSession(deps, session)
	return nil
}

// exportSession persists a session to the database, exports it as JSON,
// or both. An exported session needs an ID even when it was never saved.
func exportSession(deps *Dependencies, session *websift.ScrapingSession, save bool, output string) error {
	if save {
		if err := deps.Sessions.SaveSession(deps.Ctx, session); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", websift.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "Saved session %s\n", session.ID)
	}

	if output != "" {
		if session.ID == "" {
			session.ID = uuid.New().String()
		}
		path, err := fs.NewWriter(output).WriteSession(session)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", websift.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "Wrote %s\n", path)
	}

	return nil
}

// printSession writes per-page result lines and a session summary.
func printSession(deps *Dependencies, session *websift.ScrapingSession) {
	for _, r := range session.Results {
		fmt.Fprintf(deps.Stdout, "%s  page %d  %s\n", r.Status, r.PageNumber, r.URL)
	}
	for _, e := range session.Errors {
		fmt.Fprintf(deps.Stderr, "error: %s\n", e)
	}
	fmt.Fprintf(deps.Stdout, "Scraped %d pages (%d links, %d images, %d errors)\n",
		session.TotalPagesScraped,
		session.TotalLinksFound,
		session.TotalImagesFound,
		len(session.Errors),
	)
}
