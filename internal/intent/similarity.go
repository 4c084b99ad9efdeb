package intent

import (
	"strings"

	"go.uber.org/zap"

	"lexbot/internal/logging"
	"lexbot/internal/nlu"
)

// synonyms maps utterance words to the canonical word the curated
// examples use, so "programa la cita" can match "agenda una audiencia".
var synonyms = map[string]string{
	"agendar":   "agenda",
	"agendame":  "agenda",
	"programa":  "agenda",
	"programar": "agenda",
	"cita":      "audiencia",
	"juicio":    "audiencia",
	"vista":     "audiencia",
	"modifica":  "actualiza",
	"modificar": "actualiza",
	"cambia":    "actualiza",
	"cambiar":   "actualiza",
	"registra":  "crea",
	"registrar": "crea",
	"abrir":     "crea",
	"abre":      "crea",
	"busca":     "consulta",
	"buscar":    "consulta",
	"muestrame": "consulta",
	"muestra":   "consulta",
	"exp":       "expediente",
	"resumen":   "resume",
	"resumir":   "resume",
}

// stopwords carry no signal for similarity and are dropped before
// comparing token sets.
var stopwords = map[string]bool{
	"el": true, "la": true, "los": true, "las": true,
	"un": true, "una": true, "de": true, "del": true,
	"para": true, "por": true, "que": true, "y": true,
	"a": true, "en": true, "me": true, "mi": true,
}

// SimilarityScorer classifies by word-overlap similarity between the
// utterance and each intent's curated example phrases. The best example
// score per intent is kept; anything below the global minimum threshold
// is rejected.
type SimilarityScorer struct {
	reg *Registry
	min float64
	log *zap.Logger
}

// NewSimilarityScorer builds the similarity classifier.
func NewSimilarityScorer(reg *Registry, minSimilarity float64) *SimilarityScorer {
	return &SimilarityScorer{
		reg: reg,
		min: minSimilarity,
		log: logging.Get(logging.CategoryIntent),
	}
}

// Classify implements Classifier.
func (s *SimilarityScorer) Classify(text string, ents nlu.Entities, snap SessionSnapshot) Result {
	if res, ok := CheckCompletion(snap, ents, text); ok {
		return res
	}

	input := tokenSet(text)
	if len(input) == 0 {
		return Result{}
	}

	var bestName string
	var bestScore float64
	for _, def := range s.reg.All() {
		for _, example := range def.Examples {
			score := jaccard(input, tokenSet(example))
			if score > bestScore {
				bestName, bestScore = def.Name, score
			}
		}
	}

	if bestScore < s.min {
		s.log.Debug("best example similarity below threshold",
			zap.String("intent", bestName),
			zap.Float64("similarity", bestScore))
		return Result{}
	}
	return Result{Intent: bestName, Confidence: bestScore}
}

// tokenSet canonicalizes an utterance into its significant word set.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		if stopwords[w] {
			continue
		}
		if canon, ok := synonyms[w]; ok {
			w = canon
		}
		set[w] = true
	}
	return set
}

// jaccard is |intersection| / |union| of two token sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for w := range a {
		if b[w] {
			common++
		}
	}
	union := len(a) + len(b) - common
	return float64(common) / float64(union)
}
