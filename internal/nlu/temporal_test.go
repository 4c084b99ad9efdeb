package nlu

import (
	"testing"

	"lexbot/internal/config"
)

func newTemporal(t *testing.T) *TemporalExtractor {
	t.Helper()
	return NewTemporalExtractor(config.Default())
}

func TestExtractDate(t *testing.T) {
	e := newTemporal(t)

	tests := []struct {
		name     string
		input    string
		wantISO  string
		explicit bool
		wantOK   bool
	}{
		{
			name:     "day month explicit year",
			input:    "agenda para el 15 de enero del 2025",
			wantISO:  "2025-01-15",
			explicit: true,
			wantOK:   true,
		},
		{
			name:     "de instead of del",
			input:    "el 3 de marzo de 2026",
			wantISO:  "2026-03-03",
			explicit: true,
			wantOK:   true,
		},
		{
			name:     "year without article",
			input:    "audiencia 7 de julio 2024",
			wantISO:  "2024-07-07",
			explicit: true,
			wantOK:   true,
		},
		{
			name:     "numeric slash date",
			input:    "vence el 15/01/2025",
			wantISO:  "2025-01-15",
			explicit: true,
			wantOK:   true,
		},
		{
			name:     "numeric hyphen date",
			input:    "para 9-12-2027",
			wantISO:  "2027-12-09",
			explicit: true,
			wantOK:   true,
		},
		{
			name:     "day month defaults year",
			input:    "el 19 de enero a las 11:00",
			wantISO:  "2025-01-19",
			explicit: false,
			wantOK:   true,
		},
		{
			name:     "peruvian setiembre",
			input:    "el 2 de setiembre del 2025",
			wantISO:  "2025-09-02",
			explicit: true,
			wantOK:   true,
		},
		{
			name:   "no date",
			input:  "consulta el estado del caso",
			wantOK: false,
		},
		{
			name:   "invalid day discarded",
			input:  "el 45 de enero del 2025",
			wantOK: false,
		},
		{
			name:   "invalid month name discarded",
			input:  "el 15 de enerox del 2025",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.ExtractDate(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractDate(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.ISO() != tt.wantISO {
				t.Errorf("ISO = %q, want %q", got.ISO(), tt.wantISO)
			}
			if got.YearExplicit != tt.explicit {
				t.Errorf("YearExplicit = %v, want %v", got.YearExplicit, tt.explicit)
			}
		})
	}
}

// The explicit-year pattern must win over the year-defaulted pattern,
// and an implausible year falls through to the next pattern instead of
// being silently corrected.
func TestExtractDatePatternPriority(t *testing.T) {
	e := newTemporal(t)

	got, ok := e.ExtractDate("15 de enero del 2025")
	if !ok {
		t.Fatal("expected a date")
	}
	if !got.YearExplicit {
		t.Error("explicit-year pattern should have matched, not the defaulted one")
	}
	if got.ISO() != "2025-01-15" {
		t.Errorf("ISO = %q, want 2025-01-15", got.ISO())
	}

	// Implausible year: the explicit-year candidate is discarded and the
	// day+month pattern takes over with the default year.
	got, ok = e.ExtractDate("15 de enero del 1825")
	if !ok {
		t.Fatal("expected fallback to day+month pattern")
	}
	if got.YearExplicit {
		t.Error("implausible year must not survive as explicit")
	}
	if got.ISO() != "2025-01-15" {
		t.Errorf("ISO = %q, want default-year 2025-01-15", got.ISO())
	}
}

func TestExtractTime(t *testing.T) {
	e := newTemporal(t)

	tests := []struct {
		name     string
		input    string
		want     string
		inferred bool
		wantOK   bool
	}{
		{"clock with meridiem", "a las 4:30 pm", "4:30 PM", false, true},
		{"hour with meridiem", "9 am en la oficina", "9:00 AM", false, true},
		{"clock morning inferred", "a las 11:00", "11:00 AM", true, true},
		{"clock afternoon inferred", "a las 4:00", "4:00 PM", true, true},
		{"a las bare hour afternoon", "a las 5", "5:00 PM", true, true},
		{"a las bare hour morning", "a las 10", "10:00 AM", true, true},
		{"noon inferred", "a las 12:00", "12:00 PM", true, true},
		{"24h clock literal", "a las 16:30", "4:30 PM", false, true},
		{"midnight", "a las 0:15", "12:15 AM", false, true},
		{"no time", "consulta el expediente", "", false, false},
		// 9:75 is invalid everywhere; the "a las 9" fallback still fires.
		{"invalid minute falls back to bare hour", "a las 9:75", "9:00 AM", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.ExtractTime(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractTime(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.String() != tt.want {
				t.Errorf("String = %q, want %q", got.String(), tt.want)
			}
			if got.Inferred != tt.inferred {
				t.Errorf("Inferred = %v, want %v", got.Inferred, tt.inferred)
			}
		})
	}
}
