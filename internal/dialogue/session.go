// Package dialogue tracks the state of an in-progress multi-turn
// command and decides how each new turn affects it.
package dialogue

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"lexbot/internal/intent"
)

// State is the dialogue phase of a session.
type State int

const (
	// Idle: no pending intent.
	Idle State = iota
	// AwaitingSlots: an intent was chosen but required slots are missing.
	AwaitingSlots
	// Ready: all required slots are present; the action can dispatch.
	Ready
)

func (s State) String() string {
	switch s {
	case AwaitingSlots:
		return "awaiting_slots"
	case Ready:
		return "ready"
	default:
		return "idle"
	}
}

// Turn is one utterance in the bounded conversation history.
type Turn struct {
	Role string // "user" or "assistant"
	Text string
	At   time.Time
}

// Session holds the dialogue state for one conversation surface. One
// session per surface; sessions are never shared, so no locking lives
// here. It is cleared entirely once an intent executes.
type Session struct {
	ID string

	state     state
	history   []Turn
	histLimit int
}

// state is the mutable core, grouped so Reset can replace it wholesale.
type state struct {
	phase     State
	pending   *intent.Definition
	missing   []string
	collected intent.SlotSet

	// asides counts consecutive turns that neither completed nor
	// replaced the pending intent, for the optional expiry policy.
	asides int
}

// NewSession creates an empty session with the given history bound.
func NewSession(historyLimit int) *Session {
	if historyLimit < 1 {
		historyLimit = 1
	}
	return &Session{
		ID:        uuid.NewString(),
		state:     state{collected: make(intent.SlotSet)},
		histLimit: historyLimit,
	}
}

// Phase returns the current dialogue state.
func (s *Session) Phase() State { return s.state.phase }

// Pending returns the intent awaiting completion, or nil.
func (s *Session) Pending() *intent.Definition { return s.state.pending }

// Missing returns the required slots still unfilled, in order.
func (s *Session) Missing() []string {
	out := make([]string, len(s.state.missing))
	copy(out, s.state.missing)
	return out
}

// Collected returns a copy of the slots gathered so far.
func (s *Session) Collected() intent.SlotSet {
	return s.state.collected.Clone()
}

// Asides returns how many consecutive unrecognized turns have passed
// while awaiting slots.
func (s *Session) Asides() int { return s.state.asides }

// Snapshot produces the classifier's view of this session. A malformed
// session (a missing slot the intent does not define) is reported as an
// error so the caller can discard it instead of crashing the turn.
func (s *Session) Snapshot() (intent.SessionSnapshot, error) {
	if s.state.pending == nil {
		return intent.SessionSnapshot{}, nil
	}
	snap := intent.SessionSnapshot{Pending: s.state.pending.Name}
	for _, name := range s.state.missing {
		slot, ok := s.state.pending.Slot(name)
		if !ok {
			return intent.SessionSnapshot{}, fmt.Errorf(
				"session %s: missing slot %q not defined by intent %q", s.ID, name, s.state.pending.Name)
		}
		snap.Missing = append(snap.Missing, slot)
	}
	return snap, nil
}

// Begin starts a new dialogue for def, discarding any pending one.
func (s *Session) Begin(def *intent.Definition, slots intent.SlotSet, missing []string) {
	s.state = state{
		pending:   def,
		collected: slots.Clone(),
		missing:   missing,
		asides:    0,
	}
	if len(missing) == 0 {
		s.state.phase = Ready
	} else {
		s.state.phase = AwaitingSlots
	}
}

// Merge folds a completion turn's slots into the pending dialogue and
// recomputes what is still missing.
func (s *Session) Merge(slots intent.SlotSet) error {
	if s.state.pending == nil {
		return fmt.Errorf("session %s: merge with no pending intent", s.ID)
	}
	for name := range slots {
		if _, ok := s.state.pending.Slot(name); !ok {
			return fmt.Errorf("session %s: slot %q not defined by intent %q",
				s.ID, name, s.state.pending.Name)
		}
	}

	s.state.collected.Merge(slots)
	s.state.asides = 0

	var missing []string
	for _, name := range s.state.pending.RequiredSlots() {
		if _, ok := s.state.collected[name]; !ok {
			missing = append(missing, name)
		}
	}
	s.state.missing = missing
	if len(missing) == 0 {
		s.state.phase = Ready
	} else {
		s.state.phase = AwaitingSlots
	}
	return nil
}

// NoteAside records an unrecognized turn while awaiting slots and
// returns the consecutive count.
func (s *Session) NoteAside() int {
	s.state.asides++
	return s.state.asides
}

// Reset clears the dialogue back to Idle. History is kept; it belongs
// to the conversation, not to the command in flight.
func (s *Session) Reset() {
	s.state = state{collected: make(intent.SlotSet)}
}

// Record appends a turn to the bounded history, evicting the oldest
// once the limit is reached.
func (s *Session) Record(role, text string, at time.Time) {
	s.history = append(s.history, Turn{Role: role, Text: text, At: at})
	if len(s.history) > s.histLimit {
		s.history = s.history[len(s.history)-s.histLimit:]
	}
}

// History returns the retained turns, oldest first.
func (s *Session) History() []Turn {
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// SeedHistory preloads prior turns supplied by the caller, subject to
// the same bound.
func (s *Session) SeedHistory(turns []Turn) {
	for _, t := range turns {
		s.Record(t.Role, t.Text, t.At)
	}
}
