// Package countries loads the raw country data set and exposes it as an
// immutable in-memory registry of normalized countries plus a derived
// region/subregion index.
package countries

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Country holds everything the generator needs to know about one country.
// Values are fully normalized at construction and never mutated afterwards.
// An empty Subregion means the country has none.
type Country struct {
	Name      string
	Neighbors []string
	Region    string
	Subregion string
}

var splitPattern = regexp.MustCompile(`[ \-]+`)
var dropPattern = regexp.MustCompile(`[,"'().]`)

// asciiFold substitutes letters that canonical decomposition alone cannot
// reduce to ASCII.
var asciiFold = strings.NewReplacer(
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "Th",
	"ß", "ss",
	"æ", "ae", "Æ", "Ae",
	"œ", "oe", "Œ", "Oe",
	"ł", "l", "Ł", "L",
	"ı", "i",
)

// stripAccents removes combining marks after canonical decomposition, so
// "Côte d'Ivoire" becomes "Cote d'Ivoire".
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize turns a raw name into a camel-case symbol the solvers accept:
// accents are stripped, punctuation is dropped, and the space- or
// hyphen-separated words are joined with the first word all lower case and
// every following word capitalized. "Bosnia and Herzegovina" becomes
// "bosniaAndHerzegovina".
func Normalize(name string) string {
	name = asciiFold.Replace(stripAccents(name))
	name = dropPattern.ReplaceAllString(name, "")

	var sb strings.Builder
	for _, w := range splitPattern.Split(strings.ToLower(strings.TrimSpace(name)), -1) {
		if w == "" {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteString(w)
		} else {
			sb.WriteString(strings.ToUpper(w[:1]))
			sb.WriteString(w[1:])
		}
	}
	return sb.String()
}
