package nlu

import "fmt"

// Date is a calendar date extracted from an utterance. Only dates whose
// year falls inside the configured plausible window are ever produced;
// an implausible candidate is discarded, never guessed at.
type Date struct {
	Day   int
	Month int
	Year  int

	// YearExplicit is false when the year was defaulted because the
	// utterance named only a day and month.
	YearExplicit bool
}

// ISO returns the canonical yyyy-mm-dd form.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Meridiem is the half of the day a Time belongs to.
type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

// Time is a time of day. When the utterance carries no explicit am/pm
// marker the meridiem is inferred with the business-hours heuristic and
// Inferred is set.
type Time struct {
	Hour     int // 1-12
	Minute   int
	Meridiem Meridiem
	Inferred bool
}

// String returns the canonical "h:mm AM" form.
func (t Time) String() string {
	return fmt.Sprintf("%d:%02d %s", t.Hour, t.Minute, t.Meridiem)
}

// CaseID is a docket identifier. A bare token that could be a plausible
// calendar year is never a CaseID; see IdentifierExtractor.
type CaseID struct {
	Value string
}

// Entities is the combined extraction result for one utterance. Nil
// fields simply mean the utterance did not mention that entity.
type Entities struct {
	Date   *Date
	Time   *Time
	CaseID *CaseID
}
