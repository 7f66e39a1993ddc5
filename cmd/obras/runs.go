package main

import (
	"fmt"
	"time"
)

// Run prints one line per archived run, newest first.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Archive.FindRuns(deps.Ctx)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No archived runs.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d records\n", r.ID, r.StartedAt.Format(time.RFC3339), r.Records)
	}
	return nil
}
