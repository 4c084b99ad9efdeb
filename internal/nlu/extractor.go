package nlu

import (
	"strings"

	"go.uber.org/zap"

	"lexbot/internal/config"
	"lexbot/internal/logging"
)

// Extractor runs the full entity-extraction pass over normalized text.
// Order matters: the temporal extractor claims its tokens first and the
// identifier extractor only sees what remains.
type Extractor struct {
	temporal   *TemporalExtractor
	identifier *IdentifierExtractor
	log        *zap.Logger
}

// NewExtractor wires the temporal and identifier extractors.
func NewExtractor(cfg config.Config) *Extractor {
	return &Extractor{
		temporal:   NewTemporalExtractor(cfg),
		identifier: NewIdentifierExtractor(cfg),
		log:        logging.Get(logging.CategoryNLU),
	}
}

// Extract pulls all entities from normalized text.
func (e *Extractor) Extract(text string) Entities {
	var ents Entities
	masked := text

	if d, sp, ok := e.temporal.extractDate(masked); ok {
		ents.Date = &d
		masked = mask(masked, sp)
	}
	if t, sp, ok := e.temporal.extractTime(masked); ok {
		ents.Time = &t
		masked = mask(masked, sp)
	}
	if id, ok := e.identifier.ExtractCaseID(masked); ok {
		ents.CaseID = &id
	}

	e.log.Debug("extraction complete",
		zap.Bool("date", ents.Date != nil),
		zap.Bool("time", ents.Time != nil),
		zap.Bool("case_id", ents.CaseID != nil))
	return ents
}

// mask blanks a claimed span so later stages cannot re-read its digits.
func mask(text string, sp span) string {
	return text[:sp.start] + strings.Repeat(" ", sp.end-sp.start) + text[sp.end:]
}
