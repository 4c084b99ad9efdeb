package dialogue

import (
	"strings"

	"go.uber.org/zap"

	"lexbot/internal/config"
	"lexbot/internal/intent"
	"lexbot/internal/logging"
	"lexbot/internal/nlu"
)

// OutcomeKind says what the turn resolved to.
type OutcomeKind int

const (
	// OutcomeDispatch: all required slots present, execute the action.
	OutcomeDispatch OutcomeKind = iota
	// OutcomeAsk: an intent is pending and a targeted question is due.
	OutcomeAsk
	// OutcomeFallback: nothing recognized; generic help response.
	OutcomeFallback
	// OutcomeExpired: an abandoned dialogue was dropped.
	OutcomeExpired
)

// Outcome is the resolver's decision for one turn.
type Outcome struct {
	Kind    OutcomeKind
	Intent  *intent.Definition
	Slots   intent.SlotSet
	Missing []string

	// Completed marks that this turn continued a pending dialogue.
	Completed bool
}

// maxBareTextWords bounds the late fill of a free-text slot from a
// whole utterance; longer asides are left alone.
const maxBareTextWords = 6

// Resolver merges a turn's classification and entities with the
// session, driving the Idle / AwaitingSlots / Ready state machine.
type Resolver struct {
	maxPendingTurns int
	log             *zap.Logger
}

// NewResolver builds a resolver with the configured expiry policy.
func NewResolver(cfg config.Config) *Resolver {
	return &Resolver{
		maxPendingTurns: cfg.MaxPendingTurns,
		log:             logging.Get(logging.CategoryDialogue),
	}
}

// Resolve applies one classified turn to the session and returns what
// should happen next. The session is mutated; on OutcomeDispatch the
// caller must Reset it after the action runs, success or failure.
func (r *Resolver) Resolve(sess *Session, res intent.Result, reg *intent.Registry, ents nlu.Entities, text string) Outcome {
	switch {
	case res.IsCompletion:
		return r.resolveCompletion(sess, ents, text)

	case res.Recognized():
		def, ok := reg.Get(res.Intent)
		if !ok {
			// Classifier returned an intent the registry no longer has
			// (hot reload race); treat as unrecognized.
			r.log.Warn("classified intent not in registry", zap.String("intent", res.Intent))
			return r.resolveUnrecognized(sess, ents, text)
		}
		return r.beginIntent(sess, def, ents, text)

	default:
		return r.resolveUnrecognized(sess, ents, text)
	}
}

// beginIntent starts (or restarts) a dialogue for a confidently
// recognized intent. A new confident intent replaces a pending one: the
// user changed their mind.
func (r *Resolver) beginIntent(sess *Session, def *intent.Definition, ents nlu.Entities, text string) Outcome {
	slots, missing := intent.FillSlots(def, ents, text)
	sess.Begin(def, slots, missing)

	if len(missing) == 0 {
		r.log.Debug("intent ready in a single turn", zap.String("intent", def.Name))
		return Outcome{Kind: OutcomeDispatch, Intent: def, Slots: sess.Collected()}
	}
	r.log.Debug("awaiting slots",
		zap.String("intent", def.Name),
		zap.Strings("missing", missing))
	return Outcome{Kind: OutcomeAsk, Intent: def, Slots: sess.Collected(), Missing: missing}
}

// resolveCompletion merges a completion turn into the pending dialogue.
func (r *Resolver) resolveCompletion(sess *Session, ents nlu.Entities, text string) Outcome {
	def := sess.Pending()
	if def == nil {
		// Classifier said completion but nothing is pending; the session
		// is malformed. Recover by discarding it.
		r.log.Warn("completion with no pending intent, resetting session")
		sess.Reset()
		return Outcome{Kind: OutcomeFallback}
	}

	slots, _ := intent.FillSlots(def, ents, text)
	if err := sess.Merge(slots); err != nil {
		r.log.Warn("malformed session discarded", zap.Error(err))
		sess.Reset()
		return Outcome{Kind: OutcomeFallback}
	}

	if sess.Phase() == Ready {
		return Outcome{Kind: OutcomeDispatch, Intent: def, Slots: sess.Collected(), Completed: true}
	}
	return Outcome{
		Kind:      OutcomeAsk,
		Intent:    def,
		Slots:     sess.Collected(),
		Missing:   sess.Missing(),
		Completed: true,
	}
}

// resolveUnrecognized handles a turn no classifier accepted. A pending
// dialogue is preserved: a misunderstood aside must not discard an
// in-progress command. Two exceptions: a short bare answer can fill a
// pending free-text slot, and the optional expiry policy can drop an
// abandoned dialogue.
func (r *Resolver) resolveUnrecognized(sess *Session, ents nlu.Entities, text string) Outcome {
	if sess.Phase() != AwaitingSlots {
		return Outcome{Kind: OutcomeFallback}
	}

	def := sess.Pending()
	if v, ok := bareTextFill(def, sess.Missing(), text); ok {
		if err := sess.Merge(intent.SlotSet{sess.Missing()[0]: v}); err != nil {
			r.log.Warn("malformed session discarded", zap.Error(err))
			sess.Reset()
			return Outcome{Kind: OutcomeFallback}
		}
		if sess.Phase() == Ready {
			return Outcome{Kind: OutcomeDispatch, Intent: def, Slots: sess.Collected(), Completed: true}
		}
		return Outcome{
			Kind:      OutcomeAsk,
			Intent:    def,
			Slots:     sess.Collected(),
			Missing:   sess.Missing(),
			Completed: true,
		}
	}

	asides := sess.NoteAside()
	if r.maxPendingTurns > 0 && asides > r.maxPendingTurns {
		r.log.Info("pending dialogue expired",
			zap.String("intent", def.Name),
			zap.Int("asides", asides))
		expired := def
		sess.Reset()
		return Outcome{Kind: OutcomeExpired, Intent: expired}
	}

	return Outcome{Kind: OutcomeFallback, Intent: def, Missing: sess.Missing()}
}

// bareTextFill answers the common case of the user replying to a
// targeted question for a free-text slot with just the value ("maria
// lopez"). Only the first missing slot is considered and only short
// answers qualify.
func bareTextFill(def *intent.Definition, missing []string, text string) (intent.Value, bool) {
	if def == nil || len(missing) == 0 {
		return intent.Value{}, false
	}
	slot, ok := def.Slot(missing[0])
	if !ok || slot.Kind != intent.KindText {
		return intent.Value{}, false
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len(strings.Fields(trimmed)) > maxBareTextWords {
		return intent.Value{}, false
	}
	return intent.TextValue(trimmed), true
}
