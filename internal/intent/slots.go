package intent

import (
	"lexbot/internal/nlu"
)

// ValueKind tags a slot value.
type ValueKind string

const (
	ValueDate   ValueKind = "date"
	ValueTime   ValueKind = "time"
	ValueCaseID ValueKind = "caseid"
	ValueText   ValueKind = "text"
)

// Value is a tagged slot value. Exactly the field matching Kind is set,
// so an invalid state (a date slot holding free text) cannot be built
// through the constructors.
type Value struct {
	Kind   ValueKind
	Date   nlu.Date
	Time   nlu.Time
	CaseID nlu.CaseID
	Text   string
}

// DateValue wraps an extracted date.
func DateValue(d nlu.Date) Value { return Value{Kind: ValueDate, Date: d} }

// TimeValue wraps an extracted time.
func TimeValue(t nlu.Time) Value { return Value{Kind: ValueTime, Time: t} }

// CaseIDValue wraps an extracted case identifier.
func CaseIDValue(id nlu.CaseID) Value { return Value{Kind: ValueCaseID, CaseID: id} }

// TextValue wraps free text.
func TextValue(s string) Value { return Value{Kind: ValueText, Text: s} }

// Display renders the canonical user-facing form.
func (v Value) Display() string {
	switch v.Kind {
	case ValueDate:
		return v.Date.ISO()
	case ValueTime:
		return v.Time.String()
	case ValueCaseID:
		return v.CaseID.Value
	default:
		return v.Text
	}
}

// SlotSet maps slot names to collected values. It is built up
// incrementally across the turns of a dialogue.
type SlotSet map[string]Value

// Clone returns an independent copy.
func (s SlotSet) Clone() SlotSet {
	out := make(SlotSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge copies values from other, overwriting on conflict. Newer turns
// win: restating a slot corrects it.
func (s SlotSet) Merge(other SlotSet) {
	for k, v := range other {
		s[k] = v
	}
}

// FillSlots extracts values for def's slots from one turn. It returns
// the collected values and the required slots still missing, in
// declaration order.
func FillSlots(def *Definition, ents nlu.Entities, text string) (SlotSet, []string) {
	slots := make(SlotSet)
	for _, slot := range def.Slots {
		if v, ok := slotValue(slot, ents, text); ok {
			slots[slot.Name] = v
		}
	}

	var missing []string
	for _, name := range def.RequiredSlots() {
		if _, ok := slots[name]; !ok {
			missing = append(missing, name)
		}
	}
	return slots, missing
}

// slotValue pulls one slot's value out of the turn, if present.
func slotValue(slot Slot, ents nlu.Entities, text string) (Value, bool) {
	switch slot.Kind {
	case KindDate:
		if ents.Date != nil {
			return DateValue(*ents.Date), true
		}
	case KindTime:
		if ents.Time != nil {
			return TimeValue(*ents.Time), true
		}
	case KindCaseID:
		if ents.CaseID != nil {
			return CaseIDValue(*ents.CaseID), true
		}
	case KindText:
		if slot.Capture != nil {
			if m := slot.Capture.FindStringSubmatch(text); m != nil {
				return TextValue(m[1]), true
			}
		}
	}
	return Value{}, false
}
