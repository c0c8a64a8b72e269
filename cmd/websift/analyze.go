package main

import (
	"encoding/json"
	"fmt"

	"github.com/websift/websift"
	"github.com/websift/websift/fs"
)

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	html, finalURL, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: failed to fetch %s: %s\n", c.URL, err)
		return err
	}

	analysis := deps.Analyzer.Analyze(html, finalURL)

	if c.SaveProfile {
		profile, err := websift.BuildProfile(analysis)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", websift.ErrorMessage(err))
			return err
		}
		if err := deps.Profiles.SaveProfile(deps.Ctx, profile); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", websift.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "Saved profile %s for %s\n", profile.ID, profile.Domain)
	}

	if c.Output != "" {
		path, err := fs.NewWriter(c.Output).WriteAnalysis(analysis)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", websift.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "Wrote %s\n", path)
	}

	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, string(data))

	return nil
}
