package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/obras"
	"golang.org/x/net/html"
)

// Detail page layout.
const (
	LocationTableSelector = "table#_tblDetallePryecto"

	// LocationTableClass replaces the location table's class attribute in
	// the pass-through markup.
	LocationTableClass = "ubicacion-proyecto"
)

// Ensure DetailExtractor implements obras.DetailExtractor at compile time.
var _ obras.DetailExtractor = (*DetailExtractor)(nil)

// DetailExtractor reads project fields from a detail page.
// Each call parses its own document, so an extractor can be reused freely.
type DetailExtractor struct{}

// NewDetailExtractor creates a new DetailExtractor.
func NewDetailExtractor() *DetailExtractor {
	return &DetailExtractor{}
}

// ExtractDetail parses a detail page. Fields that cannot be located are
// left empty.
func (e *DetailExtractor) ExtractDetail(page string) (*obras.ProjectDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, obras.Errorf(obras.EINVALID, "failed to parse detail HTML: %v", err)
	}

	detail := &obras.ProjectDetail{
		BPIN:              inputValue(doc, "_CODIGOBPIN"),
		Name:              textareaText(doc, "_NOMBREPROYECTO"),
		Objective:         textareaText(doc, "_DESCRIPCION"),
		Cost:              inputValue(doc, "_COSTO"),
		Beneficiaries:     inputValue(doc, "_BENEFICIARIOS"),
		ViabilizationDate: inputValue(doc, "_FECHAVIABILIZACION"),
		Sector:            inputValue(doc, "_SECTOR"),
		Preinvestment:     inputValue(doc, "_PREINVERSION"),
		Classification:    inputValue(doc, "_CLASIFICACION"),
	}

	table := doc.Find(LocationTableSelector).First()
	if table.Length() == 0 {
		return detail, nil
	}

	table.SetAttr("class", LocationTableClass)
	if markup, err := goquery.OuterHtml(table); err == nil {
		detail.LocationTableHTML = markup
	}
	detail.Locations = locationRows(table)

	return detail, nil
}

// inputValue returns the trimmed value attribute of input#id.
func inputValue(doc *goquery.Document, id string) string {
	v, _ := doc.Find("input#" + id).First().Attr("value")
	return strings.TrimFunc(v, obras.IsSpace)
}

// textareaText returns the trimmed text of textarea#id, unescaped once
// more since these fields may carry double-encoded entities.
func textareaText(doc *goquery.Document, id string) string {
	sel := doc.Find("textarea#" + id).First()
	if sel.Length() == 0 {
		return ""
	}
	return html.UnescapeString(strings.TrimFunc(sel.Text(), obras.IsSpace))
}

// locationRows reads (department, code, municipality) from each body row
// with at least three cells. Extra cells are ignored.
func locationRows(table *goquery.Selection) []obras.LocationRow {
	var rows []obras.LocationRow
	table.Find("tbody").First().Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			return
		}
		rows = append(rows, obras.LocationRow{
			Department:   cellText(cells.Eq(0)),
			Code:         cellText(cells.Eq(1)),
			Municipality: cellText(cells.Eq(2)),
		})
	})
	return rows
}

// cellText concatenates the trimmed descendant text nodes of sel, skipping
// those that are blank. "<span>05</span> <span>001</span>" reads as "05001".
func cellText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimFunc(n.Data, obras.IsSpace))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}
