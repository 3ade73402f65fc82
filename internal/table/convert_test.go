package table

import (
	"testing"
	"time"
)

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"whitespace", "  hello  ", "hello"},
		{"bom", "\ufeffhello", "hello"},
		{"excel formula prefix", `="12345"`, "12345"},
		{"formula prefix then whitespace", `=" padded "`, "padded"},
		{"unterminated formula left alone", `="broken`, `="broken`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDateOrNull(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"iso", "2025-06-15", date(2025, 6, 15), true},
		{"slash ymd", "2025/06/15", date(2025, 6, 15), true},
		{"us style", "6/15/2025", date(2025, 6, 15), true},
		{"us style padded", "06/15/2025", date(2025, 6, 15), true},
		{"dotted", "15.6.2025", time.Time{}, false}, // day-first is not a supported layout
		{"month name", "Jun 15, 2025", date(2025, 6, 15), true},
		{"compact", "20250615", date(2025, 6, 15), true},
		{"timestamp", "2025-06-15T10:30:00", time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC), true},
		{"two digit year", "6/15/25", date(2025, 6, 15), true},
		{"whitespace", "  2025-06-15  ", date(2025, 6, 15), true},
		{"empty is null", "", time.Time{}, false},
		{"tbd is null", "TBD", time.Time{}, false},
		{"garbage is null", "not a date", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDateOrNull(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDateOrNull(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDateOrNull(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDateOrNull_TwoDigitYearPivot(t *testing.T) {
	// A 2-digit year far past the pivot belongs to the previous century.
	got, ok := ParseDateOrNull("6/15/99")
	if !ok {
		t.Fatal("ParseDateOrNull(6/15/99) ok = false")
	}
	if got.Year() != 1999 {
		t.Errorf("year = %d, want 1999", got.Year())
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
