package mock

import "github.com/fwojciec/obras"

// Compile-time interface verification.
var (
	_ obras.ListingExtractor = (*ListingExtractor)(nil)
	_ obras.DetailExtractor  = (*DetailExtractor)(nil)
)

// ListingExtractor is a mock implementation of obras.ListingExtractor.
type ListingExtractor struct {
	ExtractListingFn func(html string) ([]obras.ProjectSummary, error)
}

func (e *ListingExtractor) ExtractListing(html string) ([]obras.ProjectSummary, error) {
	return e.ExtractListingFn(html)
}

// DetailExtractor is a mock implementation of obras.DetailExtractor.
type DetailExtractor struct {
	ExtractDetailFn func(html string) (*obras.ProjectDetail, error)
}

func (e *DetailExtractor) ExtractDetail(html string) (*obras.ProjectDetail, error) {
	return e.ExtractDetailFn(html)
}
