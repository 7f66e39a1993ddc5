package obras

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
)

// Departments returns the distinct department names across rows, sorted
// ascending and joined with ", ". Names are compared exactly.
func Departments(rows []LocationRow) string {
	set := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		set[row.Department] = struct{}{}
	}
	return strings.Join(slices.Sorted(maps.Keys(set)), ", ")
}

// FormatLocations renders rows as a nested list literal, for example
// [['Antioquia', '05001', 'Medellín'], ['Cauca', '19001', 'Popayán']].
// Values use single quotes unless they contain a single quote and no double
// quote; backslashes, the active quote and non-printable runes are escaped.
func FormatLocations(rows []LocationRow) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('[')
		b.WriteString(quoteLiteral(row.Department))
		b.WriteString(", ")
		b.WriteString(quoteLiteral(row.Code))
		b.WriteString(", ")
		b.WriteString(quoteLiteral(row.Municipality))
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

func quoteLiteral(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	b.WriteRune(quote)
	return b.String()
}

// Place is a schema.org Place carrying a postal address.
type Place struct {
	Context string        `json:"@context"`
	Type    string        `json:"@type"`
	Address PostalAddress `json:"address"`
}

// PostalAddress is a schema.org PostalAddress.
type PostalAddress struct {
	Type       string        `json:"@type"`
	Locality   string        `json:"addressLocality"`
	Region     string        `json:"addressRegion"`
	Identifier PropertyValue `json:"identifier"`
}

// PropertyValue is a schema.org PropertyValue.
type PropertyValue struct {
	Type       string `json:"@type"`
	PropertyID string `json:"propertyID"`
	Value      string `json:"value"`
}

// NewPlace builds the Place for a single location row.
func NewPlace(row LocationRow) Place {
	return Place{
		Context: "https://schema.org",
		Type:    "Place",
		Address: PostalAddress{
			Type:     "PostalAddress",
			Locality: row.Municipality,
			Region:   row.Department,
			Identifier: PropertyValue{
				Type:       "PropertyValue",
				PropertyID: "divipola",
				Value:      row.Code,
			},
		},
	}
}

// GeoSnippet returns the JSON-LD Place for the first location row, indented
// with two spaces and without escaping non-ASCII or HTML characters.
// Returns "" when rows is empty.
func GeoSnippet(rows []LocationRow) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewPlace(rows[0])); err != nil {
		return "", fmt.Errorf("encode json-ld: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
