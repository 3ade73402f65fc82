package table

// convert.go provides cell-level conversions for spreadsheet-sourced data.
//
// Source data arrives in whatever shape the sheet owners typed into it:
// mixed date formats, stray whitespace, Excel formula prefixes, BOMs.
// The policy throughout is leniency: a value that cannot be interpreted
// becomes empty/null rather than an error, and null values fall out of any
// date-bounded comparison downstream.

import (
	"strings"
	"time"
)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years in the future are assumed
// to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling.
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"2006-01-02T15:04:05",
		"20060102",
	}
)

// CleanCell removes common CSV/spreadsheet artifacts from a cell value:
// UTF-8 BOM, Excel formula prefix (="value"), and surrounding whitespace.
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) > 3 {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// ParseDateOrNull parses a date cell, returning the zero time and false when
// the value is empty or unparseable. Silent null-coercion on parse failure is
// a deliberate policy (the sheet contains plenty of "TBD" and similar), so it
// lives here under a name tests can target directly.
func ParseDateOrNull(s string) (time.Time, bool) {
	s = CleanCell(s)
	if s == "" {
		return time.Time{}, false
	}

	// 4-digit year layouts first; they are unambiguous.
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}
