package nlu

import (
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"lexbot/internal/config"
	"lexbot/internal/logging"
)

// monthNames maps normalized Spanish month names to month numbers.
// "setiembre" is the common Peruvian spelling of septiembre.
var monthNames = map[string]int{
	"enero":      1,
	"febrero":    2,
	"marzo":      3,
	"abril":      4,
	"mayo":       5,
	"junio":      6,
	"julio":      7,
	"agosto":     8,
	"septiembre": 9,
	"setiembre":  9,
	"octubre":    10,
	"noviembre":  11,
	"diciembre":  12,
}

// Date patterns, most specific first. The first pattern that yields a
// valid candidate wins; a candidate with an implausible year is
// discarded and matching continues with the NEXT pattern, so a loose
// pattern can never pre-empt a precise one.
var (
	reDayMonthYear = regexp.MustCompile(`\b(\d{1,2}) de ([a-zñ]+) (?:del? )?(\d{4})\b`)
	reNumericDate  = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	reDayMonth     = regexp.MustCompile(`\b(\d{1,2}) de ([a-zñ]+)\b`)
)

// Time patterns, most specific first. "a las" survives normalization as
// a protected phrase.
var (
	reClockMeridiem = regexp.MustCompile(`\b(\d{1,2}):(\d{2}) ?(am|pm)\b`)
	reHourMeridiem  = regexp.MustCompile(`\b(\d{1,2}) ?(am|pm)\b`)
	reClock         = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	reALasHour      = regexp.MustCompile(`\ba las (\d{1,2})\b`)
)

// TemporalExtractor recognizes calendar dates and times of day in
// normalized text.
type TemporalExtractor struct {
	years       config.YearRange
	defaultYear int
	log         *zap.Logger
}

// NewTemporalExtractor builds an extractor with the configured
// plausible-year window and default year.
func NewTemporalExtractor(cfg config.Config) *TemporalExtractor {
	return &TemporalExtractor{
		years:       cfg.Years,
		defaultYear: cfg.DefaultYear,
		log:         logging.Get(logging.CategoryNLU),
	}
}

// span marks the [start,end) byte range a match claimed, so later
// extraction stages can mask it out.
type span struct{ start, end int }

// ExtractDate returns the first valid date in text.
func (e *TemporalExtractor) ExtractDate(text string) (Date, bool) {
	d, _, ok := e.extractDate(text)
	return d, ok
}

func (e *TemporalExtractor) extractDate(text string) (Date, span, bool) {
	// Pattern 1: day + month name + explicit year.
	if m := reDayMonthYear.FindStringSubmatchIndex(text); m != nil {
		day := atoi(text[m[2]:m[3]])
		month, monthOK := monthNames[text[m[4]:m[5]]]
		year := atoi(text[m[6]:m[7]])
		if monthOK && validDay(day, month) && e.years.Contains(year) {
			return Date{Day: day, Month: month, Year: year, YearExplicit: true},
				span{m[0], m[1]}, true
		}
		e.log.Debug("discarded explicit-year date candidate",
			zap.String("match", text[m[0]:m[1]]))
	}

	// Pattern 2: numeric dd/mm/yyyy or dd-mm-yyyy.
	if m := reNumericDate.FindStringSubmatchIndex(text); m != nil {
		day := atoi(text[m[2]:m[3]])
		month := atoi(text[m[4]:m[5]])
		year := atoi(text[m[6]:m[7]])
		if validDay(day, month) && month >= 1 && month <= 12 && e.years.Contains(year) {
			return Date{Day: day, Month: month, Year: year, YearExplicit: true},
				span{m[0], m[1]}, true
		}
		e.log.Debug("discarded numeric date candidate",
			zap.String("match", text[m[0]:m[1]]))
	}

	// Pattern 3: day + month name, year defaulted.
	if m := reDayMonth.FindStringSubmatchIndex(text); m != nil {
		day := atoi(text[m[2]:m[3]])
		month, monthOK := monthNames[text[m[4]:m[5]]]
		if monthOK && validDay(day, month) {
			return Date{Day: day, Month: month, Year: e.defaultYear, YearExplicit: false},
				span{m[0], m[1]}, true
		}
	}

	return Date{}, span{}, false
}

// ExtractTime returns the first valid time of day in text.
func (e *TemporalExtractor) ExtractTime(text string) (Time, bool) {
	t, _, ok := e.extractTime(text)
	return t, ok
}

func (e *TemporalExtractor) extractTime(text string) (Time, span, bool) {
	// Pattern 1: hh:mm with explicit meridiem.
	if m := reClockMeridiem.FindStringSubmatchIndex(text); m != nil {
		hour, minute := atoi(text[m[2]:m[3]]), atoi(text[m[4]:m[5]])
		if t, ok := clockTime(hour, minute, Meridiem(upper(text[m[6]:m[7]])), false); ok {
			return t, span{m[0], m[1]}, true
		}
	}

	// Pattern 2: bare hour with explicit meridiem.
	if m := reHourMeridiem.FindStringSubmatchIndex(text); m != nil {
		hour := atoi(text[m[2]:m[3]])
		if t, ok := clockTime(hour, 0, Meridiem(upper(text[m[4]:m[5]])), false); ok {
			return t, span{m[0], m[1]}, true
		}
	}

	// Pattern 3: hh:mm without meridiem; infer it.
	if m := reClock.FindStringSubmatchIndex(text); m != nil {
		hour, minute := atoi(text[m[2]:m[3]]), atoi(text[m[4]:m[5]])
		if t, ok := inferredTime(hour, minute); ok {
			return t, span{m[0], m[1]}, true
		}
	}

	// Pattern 4: "a las N".
	if m := reALasHour.FindStringSubmatchIndex(text); m != nil {
		hour := atoi(text[m[2]:m[3]])
		if t, ok := inferredTime(hour, 0); ok {
			return t, span{m[0], m[1]}, true
		}
	}

	return Time{}, span{}, false
}

// clockTime validates an explicit-meridiem candidate.
func clockTime(hour, minute int, mer Meridiem, inferred bool) (Time, bool) {
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return Time{}, false
	}
	return Time{Hour: hour, Minute: minute, Meridiem: mer, Inferred: inferred}, true
}

// inferredTime applies the business-hours heuristic when no meridiem is
// present: a legal office schedules 1-7 in the afternoon and 8-11 in
// the morning. 24-hour values are taken literally.
func inferredTime(hour, minute int) (Time, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Time{}, false
	}
	switch {
	case hour == 0:
		return Time{Hour: 12, Minute: minute, Meridiem: AM}, true
	case hour >= 1 && hour <= 7:
		return Time{Hour: hour, Minute: minute, Meridiem: PM, Inferred: true}, true
	case hour >= 8 && hour <= 11:
		return Time{Hour: hour, Minute: minute, Meridiem: AM, Inferred: true}, true
	case hour == 12:
		return Time{Hour: 12, Minute: minute, Meridiem: PM, Inferred: true}, true
	default: // 13-23, explicit 24-hour clock
		return Time{Hour: hour - 12, Minute: minute, Meridiem: PM}, true
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func upper(s string) string {
	if s == "am" {
		return "AM"
	}
	return "PM"
}

func validDay(day, month int) bool {
	if day < 1 || day > 31 {
		return false
	}
	switch month {
	case 4, 6, 9, 11:
		return day <= 30
	case 2:
		return day <= 29
	}
	return true
}
