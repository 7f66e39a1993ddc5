package obras

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MetaTitlePrefix is prepended to the corrected name by MetaTitle.
const MetaTitlePrefix = "Short headline: "

// asciiSpace lists the ASCII runes IsSpace accepts, for use in character
// classes. RE2's \s omits \v and the information separators.
const asciiSpace = `\t\n\v\f\r \x1c-\x1f`

var (
	slugInvalid    = regexp.MustCompile(`[^a-z0-9` + asciiSpace + `-]`)
	slugWhitespace = regexp.MustCompile(`[` + asciiSpace + `]+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// IsSpace reports whether r is whitespace. It extends unicode.IsSpace with
// the information separators U+001C to U+001F.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Correct returns a tidied copy of text: surrounding whitespace trimmed,
// internal whitespace runs collapsed to a single space and the first
// character uppercased. The remainder is left untouched.
//
// This is a placeholder normalization. It does not fix spelling, accents or
// grammar.
func Correct(text string) string {
	text = strings.Join(strings.FieldsFunc(text, IsSpace), " ")
	if text == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(text)
	return string(unicode.ToUpper(r)) + text[size:]
}

// MetaTitle returns the SEO title for a corrected project name.
// Like Correct it is a placeholder: a fixed prefix, not a generated headline.
func MetaTitle(correctedName string) string {
	return MetaTitlePrefix + correctedName
}

// Slug converts text into a lowercase, hyphenated, ASCII-only identifier
// suitable for URLs. "Café del Río" becomes "cafe-del-rio".
func Slug(text string) string {
	text = strings.TrimFunc(text, IsSpace)
	if text == "" {
		return ""
	}
	text = strings.ToLower(foldToASCII(text))
	text = slugInvalid.ReplaceAllString(text, "")
	text = slugWhitespace.ReplaceAllString(text, "-")
	return slugHyphens.ReplaceAllString(text, "-")
}

// foldToASCII decomposes text and drops combining marks and any other
// non-ASCII rune.
func foldToASCII(text string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		// Removal transformers cannot fail on valid input; keep the ASCII
		// runes only as a fallback for malformed UTF-8.
		return strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return -1
			}
			return r
		}, text)
	}
	return out
}
