// Package intent defines the closed catalogue of actions the assistant
// can perform and classifies normalized utterances against it.
package intent

import (
	"fmt"
	"regexp"
	"sync"
)

// SlotKind is the value type a slot accepts.
type SlotKind string

const (
	KindDate   SlotKind = "date"
	KindTime   SlotKind = "time"
	KindCaseID SlotKind = "caseid"
	KindText   SlotKind = "text"
)

// Slot is one parameter of an intent.
type Slot struct {
	Name     string
	Kind     SlotKind
	Required bool

	// Question is the targeted prompt emitted while this slot is missing.
	Question string

	// Capture optionally extracts a free-text value from the utterance.
	// Only meaningful for KindText slots.
	Capture *regexp.Regexp
}

// Trigger is a weighted phrase that votes for an intent.
type Trigger struct {
	Phrase string
	Weight float64
}

// Bonus adds (or subtracts) points when a phrase is present. Used to
// break ties between textually overlapping intents, e.g. update verbs
// outranking create verbs.
type Bonus struct {
	Phrase string
	Delta  float64
}

// Definition describes one intent. Definitions are immutable once
// registered; the catalogue is closed and known at process start.
type Definition struct {
	Name  string
	Slots []Slot

	// Floor is the minimum confidence this intent must score to be
	// selected.
	Floor float64

	// Priority breaks exact score ties.
	Priority int

	// Triggers and ContextWords drive the weighted classifier. An intent
	// is only a candidate when at least one trigger matches; context
	// words merely add points.
	Triggers     []Trigger
	ContextWords []string
	Bonuses      []Bonus

	// Examples drive the similarity classifier.
	Examples []string
}

// RequiredSlots returns the names of required slots, in declaration order.
func (d *Definition) RequiredSlots() []string {
	var names []string
	for _, s := range d.Slots {
		if s.Required {
			names = append(names, s.Name)
		}
	}
	return names
}

// Slot looks up a slot by name.
func (d *Definition) Slot(name string) (Slot, bool) {
	for _, s := range d.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

// Registry holds the intent catalogue. Replace supports hot reload from
// the intents YAML file; readers always see a consistent snapshot.
type Registry struct {
	mu     sync.RWMutex
	defs   []*Definition
	byName map[string]*Definition
}

// NewRegistry validates and indexes a catalogue.
func NewRegistry(defs []*Definition) (*Registry, error) {
	r := &Registry{}
	if err := r.Replace(defs); err != nil {
		return nil, err
	}
	return r, nil
}

// Replace swaps the whole catalogue atomically.
func (r *Registry) Replace(defs []*Definition) error {
	byName := make(map[string]*Definition, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return fmt.Errorf("intent with empty name")
		}
		if _, dup := byName[d.Name]; dup {
			return fmt.Errorf("duplicate intent %q", d.Name)
		}
		if d.Floor < 0 || d.Floor > 1 {
			return fmt.Errorf("intent %q: floor %f outside [0,1]", d.Name, d.Floor)
		}
		seen := make(map[string]bool, len(d.Slots))
		for _, s := range d.Slots {
			if seen[s.Name] {
				return fmt.Errorf("intent %q: duplicate slot %q", d.Name, s.Name)
			}
			seen[s.Name] = true
			switch s.Kind {
			case KindDate, KindTime, KindCaseID, KindText:
			default:
				return fmt.Errorf("intent %q: slot %q has unknown kind %q", d.Name, s.Name, s.Kind)
			}
		}
		byName[d.Name] = d
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs = defs
	r.byName = byName
	return nil
}

// Get looks up an intent by name.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	return d, ok
}

// All returns the catalogue in registration order.
func (r *Registry) All() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, len(r.defs))
	copy(out, r.defs)
	return out
}
