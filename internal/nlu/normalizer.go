// Package nlu turns raw Spanish utterances into normalized text and
// typed entities (dates, times, case identifiers).
//
// Extraction runs in a fixed order: dates and times first, then case
// identifiers over the text with the temporal spans masked out. Dates
// and case numbers are both runs of digits; the ordering plus the
// plausible-year rejection rule are the defenses against reading one
// as the other.
package nlu

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// protectedPhrases are compound triggers that later stages match as a
// unit. Cleanup must not split or reflow them, so they are swapped for
// placeholders before punctuation stripping and restored afterwards.
var protectedPhrases = []string{
	"a las",
	"numero de expediente",
	"dar de alta",
	"dar de baja",
	"de que trata",
}

// protectedRes matches each phrase with arbitrary punctuation or
// whitespace between its words.
var protectedRes = buildProtectedRes()

func buildProtectedRes() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(protectedPhrases))
	for i, phrase := range protectedPhrases {
		words := strings.Fields(phrase)
		for j, w := range words {
			words[j] = regexp.QuoteMeta(w)
		}
		res[i] = regexp.MustCompile(`\b` + strings.Join(words, `[\s.,;:]+`) + `\b`)
	}
	return res
}

// strippable is the punctuation removed by normalization. Hyphens,
// slashes, colons, ° and # survive: they are structural in case
// identifiers, dates, and times.
var strippable = regexp.MustCompile(`[.,;!¡?¿()"'«»` + "`" + `]+`)

var whitespaceRun = regexp.MustCompile(`\s+`)

// foldChain strips combining marks: NFD decomposition, removal of the
// nonspacing marks, NFC recomposition.
var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

const enyePlaceholder = "\x01"

// Normalize lowercases, strips diacritics (keeping the letter ñ, which
// is distinct in Spanish, not an accented n), protects compound trigger
// phrases, strips punctuation, and collapses whitespace. Idempotent.
func Normalize(raw string) string {
	s := strings.ToLower(raw)

	// ñ would lose its tilde in the fold; park it aside.
	s = strings.ReplaceAll(s, "ñ", enyePlaceholder)
	if folded, _, err := transform.String(foldChain, s); err == nil {
		s = folded
	}
	s = strings.ReplaceAll(s, enyePlaceholder, "ñ")

	// Swap protected phrases for placeholders so the punctuation pass
	// cannot break them apart.
	for i, re := range protectedRes {
		s = re.ReplaceAllString(s, placeholder(i))
	}

	s = strippable.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	for i, phrase := range protectedPhrases {
		s = strings.ReplaceAll(s, placeholder(i), phrase)
	}

	return s
}

func placeholder(i int) string {
	return fmt.Sprintf("\x00%d\x00", i)
}
