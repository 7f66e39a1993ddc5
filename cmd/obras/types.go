package main

import (
	"context"
	"io"

	"github.com/fwojciec/obras"
	"github.com/fwojciec/obras/scrape"
	"github.com/fwojciec/obras/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Listing obras.ListingExtractor
	Details obras.DetailExtractor
	Fetcher obras.Fetcher
	Store   obras.RecordStore
	Scraper *scrape.Scraper

	// Archive and RunID are set when --db is given.
	Archive *sqlite.RecordStore
	RunID   string
}

// ScrapeCmd handles the main scrape operation.
type ScrapeCmd struct {
	Input   string
	Output  string
	Preview bool
}

// RunsCmd lists archived runs.
type RunsCmd struct{}
