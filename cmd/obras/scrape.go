package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fwojciec/obras"
	"github.com/fwojciec/obras/scrape"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	html, err := os.ReadFile(c.Input)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cannot find %s", c.Input)
	} else if err != nil {
		return fmt.Errorf("read %s: %w", c.Input, err)
	}

	if c.Preview {
		return c.runPreview(deps, string(html))
	}
	return c.runScrape(deps, string(html))
}

func (c *ScrapeCmd) runPreview(deps *Dependencies, html string) error {
	summaries, err := deps.Scraper.Preview(html)
	if obras.ErrorCode(err) == obras.ENOTFOUND {
		fmt.Fprintln(deps.Stdout, obras.ErrorMessage(err))
		return nil
	} else if err != nil {
		return err
	}

	for i, s := range summaries {
		if s.OpaqueID == "" {
			fmt.Fprintf(deps.Stdout, "[%d] %s (no identifier)\n", i, s.Code)
			continue
		}
		fmt.Fprintf(deps.Stdout, "[%d] %s %s\n", i, s.Code, deps.Scraper.DetailBaseURL+s.OpaqueID)
	}
	fmt.Fprintf(deps.Stdout, "Found %d projects in main table.\n", len(summaries))
	return nil
}

func (c *ScrapeCmd) runScrape(deps *Dependencies, html string) error {
	progress := func(e scrape.ProgressEvent) {
		switch e.Type {
		case scrape.ProgressStarted:
			if e.Total > 0 {
				fmt.Fprintf(deps.Stdout, "Found %d projects in main table.\n", e.Total)
			}
		case scrape.ProgressFetching:
			fmt.Fprintf(deps.Stdout, "[%d] Fetching %s\n", e.Index, e.URL)
		case scrape.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "[%d] %s\n", e.Index, skipMessage(e))
		}
	}

	result, err := deps.Scraper.Run(deps.Ctx, html, progress)
	if obras.ErrorCode(err) == obras.ENOTFOUND {
		fmt.Fprintln(deps.Stdout, obras.ErrorMessage(err))
		fmt.Fprintln(deps.Stdout, "No projects found in main HTML. Exiting.")
		return nil
	} else if err != nil {
		return err
	}

	if result.Total == 0 {
		fmt.Fprintln(deps.Stdout, "No projects found in main HTML. Exiting.")
		return nil
	}
	if result.Saved == 0 {
		fmt.Fprintln(deps.Stdout, "No detail data retrieved. Exiting.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "\nDone! Final CSV is written to %s.\n", c.Output)
	fmt.Fprintf(deps.Stdout, "Saved %d projects, skipped %d\n", result.Saved, result.Skipped)
	if deps.RunID != "" {
		fmt.Fprintf(deps.Stdout, "Archived as run %s\n", deps.RunID)
	}
	return nil
}

func skipMessage(e scrape.ProgressEvent) string {
	switch e.Skip {
	case obras.SkipNoIdentifier:
		return "No UUID found, skipping."
	case obras.SkipFetchFailed:
		if obras.ErrorCode(e.Error) == obras.EUNAVAILABLE {
			return fmt.Sprintf("Error fetching detail: %s", obras.ErrorMessage(e.Error))
		}
		return fmt.Sprintf("Exception fetching detail from %s: %v", e.URL, e.Error)
	default:
		return fmt.Sprintf("Could not parse detail from %s: %v", e.URL, e.Error)
	}
}
