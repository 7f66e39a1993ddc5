package obras

// ProjectSummary is one row of the project listing table.
// Only OpaqueID is used downstream; the remaining fields are kept for
// previews and diagnostics.
type ProjectSummary struct {
	ProjectID      string
	Code           string
	Name           string
	Cost           string
	Sector         string
	Location       string
	Classification string

	// OpaqueID is the token passed to VerDetalleProyecto('...') by the
	// row's detail button. Empty when the row has no such button.
	OpaqueID string
}

// LocationRow is one row of a project's location table.
type LocationRow struct {
	Department   string
	Code         string // DIVIPOLA code
	Municipality string
}

// ProjectDetail holds the fields parsed from one project detail page.
// All values are raw text; dates and amounts are not parsed.
type ProjectDetail struct {
	BPIN              string
	Name              string
	Objective         string
	Cost              string
	Beneficiaries     string
	ViabilizationDate string
	Sector            string
	Preinvestment     string
	Classification    string

	// LocationTableHTML is the outer markup of the location table with its
	// class attribute rewritten. Empty when the page has no location table.
	LocationTableHTML string

	Locations []LocationRow
}

// ListingExtractor extracts project summaries from the listing page.
type ListingExtractor interface {
	// ExtractListing returns the summaries in document order.
	// Returns ENOTFOUND if the listing table or its body is missing.
	ExtractListing(html string) ([]ProjectSummary, error)
}

// DetailExtractor extracts project fields from a detail page.
type DetailExtractor interface {
	// ExtractDetail parses one detail page. Missing fields default to
	// empty values; only an unparseable document returns an error.
	ExtractDetail(html string) (*ProjectDetail, error)
}
