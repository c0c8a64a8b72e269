package main

import (
	"fmt"

	"github.com/websift/websift"
)

// Run executes the deep-scrape command.
func (c *DeepScrapeCmd) Run(deps *Dependencies) error {
	config := websift.DeepScrapeConfig{
		StartURLs:        c.URLs,
		MaxDepth:         c.MaxDepth,
		MaxPages:         c.MaxPages,
		StayInDomain:     c.StayInDomain,
		StayInSubdomain:  c.StayInSubdomain,
		IncludePatterns:  c.Include,
		ExcludePatterns:  c.Exclude,
		RateLimit:        c.RateLimit,
		FilterNavigation: c.FilterNavigation,
		MinContentLength: c.MinContentLength,
	}

	session, err := deps.DeepScraper.DeepScrape(deps.Ctx, config)
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
