// Package goquery implements the listing and detail page extractors using
// CSS selectors over the parsed HTML.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/obras"
)

// Listing page layout.
const (
	ListingTableSelector = "table#_tblProyecto"
	DetailButtonSelector = `button[title="Ver Detalle"]`

	// MinListingCells is the number of cells a listing row needs to be
	// considered a project row. The detail button lives in the last one.
	MinListingCells  = 9
	detailButtonCell = 8
)

var detailCallRe = regexp.MustCompile(`VerDetalleProyecto\('([^']+)'\)`)

// Ensure ListingExtractor implements obras.ListingExtractor at compile time.
var _ obras.ListingExtractor = (*ListingExtractor)(nil)

// ListingExtractor reads project summaries from the portal's listing page.
type ListingExtractor struct{}

// NewListingExtractor creates a new ListingExtractor.
func NewListingExtractor() *ListingExtractor {
	return &ListingExtractor{}
}

// ExtractListing returns one summary per body row with at least
// MinListingCells cells, in document order. Shorter rows are skipped.
func (e *ListingExtractor) ExtractListing(html string) ([]obras.ProjectSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, obras.Errorf(obras.EINVALID, "failed to parse listing HTML: %v", err)
	}

	table := doc.Find(ListingTableSelector).First()
	if table.Length() == 0 {
		return nil, obras.Errorf(obras.ENOTFOUND, "table with id '_tblProyecto' not found in listing")
	}

	tbody := table.Find("tbody").First()
	if tbody.Length() == 0 {
		return nil, obras.Errorf(obras.ENOTFOUND, "no <tbody> found in listing table")
	}

	var summaries []obras.ProjectSummary
	tbody.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < MinListingCells {
			return
		}

		text := func(i int) string {
			return cellText(cells.Eq(i))
		}

		summaries = append(summaries, obras.ProjectSummary{
			ProjectID:      text(0),
			Code:           text(1),
			Name:           text(2),
			Cost:           text(3),
			Sector:         text(4),
			Location:       text(5),
			Classification: text(6),
			OpaqueID:       opaqueID(cells.Eq(detailButtonCell)),
		})
	})

	return summaries, nil
}

// opaqueID returns the token passed to VerDetalleProyecto by the cell's
// detail button, or "" if there is none.
func opaqueID(cell *goquery.Selection) string {
	onclick, ok := cell.Find(DetailButtonSelector).First().Attr("onclick")
	if !ok {
		return ""
	}
	m := detailCallRe.FindStringSubmatch(onclick)
	if m == nil {
		return ""
	}
	return m[1]
}
