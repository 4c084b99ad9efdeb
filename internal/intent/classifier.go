package intent

import (
	"strings"

	"go.uber.org/zap"

	"lexbot/internal/logging"
	"lexbot/internal/nlu"
)

// Result is the outcome of classifying one turn.
type Result struct {
	// Intent is the selected intent name, empty when nothing met its
	// confidence floor.
	Intent string

	// Confidence is the normalized score in [0,1].
	Confidence float64

	// IsCompletion marks a turn interpreted as supplying missing slots
	// for a pending intent rather than starting a new one.
	IsCompletion bool
}

// Recognized reports whether an intent was selected.
func (r Result) Recognized() bool { return r.Intent != "" }

// SessionSnapshot is the slice of dialogue state the classifier needs:
// the pending intent, if any, and which of its slots are still missing.
type SessionSnapshot struct {
	Pending string
	Missing []Slot
}

// Classifier scores a normalized utterance against the intent
// catalogue. Implementations: Weighted (trigger scoring) and
// SimilarityScorer (example overlap).
type Classifier interface {
	Classify(text string, ents nlu.Entities, snap SessionSnapshot) Result
}

// completionConfidence is reported for completion turns; the decision
// is structural (a missing slot was supplied), not score-based.
const completionConfidence = 0.95

// maxTextAnswerWords bounds how long a turn may be and still count as
// answering a free-text slot question. A long discursive turn that
// merely mentions a capture keyword ("...se llama el cliente todavia la
// verdad") is an aside, not an answer.
const maxTextAnswerWords = 6

// CheckCompletion decides whether this turn continues a pending intent.
// With a pending intent and missing slots, a turn that supplies any of
// the missing values is a completion: "4pm" after "agenda audiencia"
// must not be re-classified as an unrelated intent. Free-text slots
// only complete on short turns; typed entities are unambiguous at any
// length.
func CheckCompletion(snap SessionSnapshot, ents nlu.Entities, text string) (Result, bool) {
	if snap.Pending == "" {
		return Result{}, false
	}
	words := len(strings.Fields(text))
	for _, slot := range snap.Missing {
		if slot.Kind == KindText && words > maxTextAnswerWords {
			continue
		}
		if _, ok := slotValue(slot, ents, text); ok {
			return Result{
				Intent:       snap.Pending,
				Confidence:   completionConfidence,
				IsCompletion: true,
			}, true
		}
	}
	return Result{}, false
}

// Weighted is the trigger/context-word scoring classifier. An intent is
// a candidate only when at least one trigger phrase matches; context
// words and bonus rules then adjust the score, and the intent must
// clear its own confidence floor.
type Weighted struct {
	reg *Registry
	log *zap.Logger
}

// NewWeighted builds the weighted classifier over a registry.
func NewWeighted(reg *Registry) *Weighted {
	return &Weighted{reg: reg, log: logging.Get(logging.CategoryIntent)}
}

const contextWordWeight = 10

// Classify implements Classifier.
func (w *Weighted) Classify(text string, ents nlu.Entities, snap SessionSnapshot) Result {
	if res, ok := CheckCompletion(snap, ents, text); ok {
		w.log.Debug("completion turn",
			zap.String("intent", res.Intent))
		return res
	}

	var (
		best      *Definition
		bestScore float64
	)
	for _, def := range w.reg.All() {
		score, triggered := w.score(def, text)
		if !triggered {
			continue
		}
		if score > bestScore || (score == bestScore && best != nil && def.Priority > best.Priority) {
			best, bestScore = def, score
		}
	}

	if best == nil {
		return Result{}
	}

	confidence := bestScore / 100
	if confidence > 1 {
		confidence = 1
	}
	if confidence < best.Floor {
		w.log.Debug("best candidate below floor",
			zap.String("intent", best.Name),
			zap.Float64("confidence", confidence),
			zap.Float64("floor", best.Floor))
		return Result{}
	}

	w.log.Debug("classified",
		zap.String("intent", best.Name),
		zap.Float64("confidence", confidence))
	return Result{Intent: best.Name, Confidence: confidence}
}

// score accumulates trigger weights, context-word points, and bonus
// deltas. triggered is false when no trigger phrase matched at all.
func (w *Weighted) score(def *Definition, text string) (score float64, triggered bool) {
	for _, trig := range def.Triggers {
		if containsPhrase(text, trig.Phrase) {
			score += trig.Weight
			triggered = true
		}
	}
	if !triggered {
		return 0, false
	}
	for _, word := range def.ContextWords {
		if containsPhrase(text, word) {
			score += contextWordWeight
		}
	}
	for _, b := range def.Bonuses {
		if containsPhrase(text, b.Phrase) {
			score += b.Delta
		}
	}
	return score, true
}

// containsPhrase matches a phrase on word boundaries: "crea" must not
// fire inside "creatividad".
func containsPhrase(text, phrase string) bool {
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}
