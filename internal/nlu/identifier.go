package nlu

import (
	"regexp"

	"go.uber.org/zap"

	"lexbot/internal/config"
	"lexbot/internal/logging"
)

// Identifier patterns, most specific first:
//  1. full judicial format (expediente judicial, e.g.
//     00820-2022-0-1801-JR-CI-01, lowercased by normalization)
//  2. hyphenated short form, number-year (00820-2022)
//  3. digits following an explicit expediente/caso prefix
//  4. a long bare digit run (8+ digits)
var identifierPatterns = []struct {
	name  string
	re    *regexp.Regexp
	group int // submatch index holding the identifier; 0 = whole match
}{
	{"judicial", regexp.MustCompile(`\b\d{3,5}-\d{4}-\d{1,2}-\d{4}-[a-z]{2}-[a-z]{2}-\d{1,2}\b`), 0},
	{"short", regexp.MustCompile(`\b\d{3,5}-\d{4}\b`), 0},
	{"prefixed", regexp.MustCompile(`\b(?:numero de expediente|expediente|caso|exp) ?(?:n° ?|nro ?|numero ?|#)?(\d[\d-]{3,})\b`), 1},
	{"digitrun", regexp.MustCompile(`\b\d{8,}\b`), 0},
}

var bareYearShape = regexp.MustCompile(`^\d{4}$`)

// IdentifierExtractor recognizes case/docket identifiers. It is invoked
// after the temporal extractor has claimed its tokens, and it refuses
// any candidate that could be a plausible calendar year.
type IdentifierExtractor struct {
	years config.YearRange
	log   *zap.Logger
}

// NewIdentifierExtractor builds an extractor with the configured
// plausible-year window.
func NewIdentifierExtractor(cfg config.Config) *IdentifierExtractor {
	return &IdentifierExtractor{
		years: cfg.Years,
		log:   logging.Get(logging.CategoryNLU),
	}
}

// ExtractCaseID returns the first acceptable case identifier in text.
// A year-rejected match does not exhaust its pattern: later matches of
// the same pattern are tried before falling through to the next one, so
// "expediente 2024 y caso 4581" still yields 4581.
func (e *IdentifierExtractor) ExtractCaseID(text string) (CaseID, bool) {
	for _, p := range identifierPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			candidate := m[p.group]
			if e.looksLikeYear(candidate) {
				e.log.Debug("rejected year-shaped identifier candidate",
					zap.String("pattern", p.name),
					zap.String("candidate", candidate))
				continue
			}
			return CaseID{Value: candidate}, true
		}
	}
	return CaseID{}, false
}

// looksLikeYear reports whether the candidate is exactly a 4-digit
// number inside the plausible year window. Such tokens are calendar
// years until proven otherwise, regardless of which pattern found them.
func (e *IdentifierExtractor) looksLikeYear(candidate string) bool {
	if !bareYearShape.MatchString(candidate) {
		return false
	}
	return e.years.Contains(atoi(candidate))
}
