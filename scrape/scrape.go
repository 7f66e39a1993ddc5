// Package scrape runs the listing → detail → record pipeline.
// Detail pages are fetched one at a time in listing order; a row that
// cannot be fetched or parsed is reported and skipped.
package scrape

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/obras"
)

// Scraper orchestrates one scraping run.
type Scraper struct {
	Listing       obras.ListingExtractor
	Details       obras.DetailExtractor
	Fetcher       obras.Fetcher
	Store         obras.RecordStore
	DetailBaseURL string
}

// Result holds the outcome of a run.
type Result struct {
	Total    int
	Saved    int
	Skipped  int
	Outcomes []obras.Outcome
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type  ProgressType
	Index int
	Total int
	URL   string
	Skip  obras.SkipReason
	Error error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressFetching
	ProgressCompleted
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Preview extracts the listing without fetching anything.
func (s *Scraper) Preview(listingHTML string) ([]obras.ProjectSummary, error) {
	return s.Listing.ExtractListing(listingHTML)
}

// Run extracts the listing, processes every row and commits the saved
// records. A missing listing table is returned as ENOTFOUND. When no row
// produces a record the store is aborted and nothing is written.
func (s *Scraper) Run(ctx context.Context, listingHTML string, progress ProgressFunc) (*Result, error) {
	summaries, err := s.Listing.ExtractListing(listingHTML)
	if err != nil {
		return nil, err
	}

	notify := func(e ProgressEvent) {
		if progress != nil {
			e.Total = len(summaries)
			progress(e)
		}
	}
	notify(ProgressEvent{Type: ProgressStarted})

	result := &Result{Total: len(summaries)}
	for i, summary := range summaries {
		if err := ctx.Err(); err != nil {
			_ = s.Store.Abort()
			return result, err
		}

		outcome := s.process(ctx, i, summary, notify)
		result.Outcomes = append(result.Outcomes, outcome)

		if !outcome.OK() {
			result.Skipped++
			notify(ProgressEvent{Type: ProgressSkipped, Index: i, URL: outcome.URL, Skip: outcome.Skip, Error: outcome.Err})
			continue
		}

		if err := s.Store.Save(ctx, outcome.Record); err != nil {
			_ = s.Store.Abort()
			return result, fmt.Errorf("save record %d: %w", i, err)
		}
		result.Saved++
		notify(ProgressEvent{Type: ProgressCompleted, Index: i, URL: outcome.URL})
	}

	notify(ProgressEvent{Type: ProgressFinished})

	if result.Saved == 0 {
		return result, s.Store.Abort()
	}
	if err := s.Store.Commit(); err != nil {
		return result, fmt.Errorf("commit: %w", err)
	}
	return result, nil
}

func (s *Scraper) process(ctx context.Context, index int, summary obras.ProjectSummary, notify func(ProgressEvent)) obras.Outcome {
	outcome := obras.Outcome{Index: index, Summary: summary}

	if summary.OpaqueID == "" {
		outcome.Skip = obras.SkipNoIdentifier
		outcome.Err = obras.Errorf(obras.ENOTFOUND, "no identifier found")
		return outcome
	}

	outcome.URL = s.DetailBaseURL + summary.OpaqueID
	notify(ProgressEvent{Type: ProgressFetching, Index: index, URL: outcome.URL})

	html, err := s.Fetcher.Fetch(ctx, outcome.URL)
	if err != nil {
		outcome.Skip = obras.SkipFetchFailed
		outcome.Err = err
		return outcome
	}

	detail, err := s.Details.ExtractDetail(html)
	if err == nil && detail == nil {
		err = errors.New("extractor returned no detail")
	}
	if err != nil {
		outcome.Skip = obras.SkipParseFailed
		outcome.Err = err
		return outcome
	}

	rec, err := obras.BuildRecord(index, detail)
	if err != nil {
		outcome.Skip = obras.SkipParseFailed
		outcome.Err = err
		return outcome
	}

	outcome.Record = rec
	return outcome
}
