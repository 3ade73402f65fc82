package report

import "strings"

// NotBooked is the label a joined row contributes when its booking code
// matches none of the configured format markers.
const NotBooked = "Not Booked"

// FormatMarker maps a booking-code substring to a display label.
// The booking unit codes in the sheet embed a per-format product code
// (e.g. "M244DX" for 4DX, "M24SCX" for ScreenX); detection is a substring
// match over the raw BU field.
type FormatMarker struct {
	Code  string // substring to look for in the BU field
	Label string // display label, e.g. "4DX"
}

// DefaultMarkers is the marker table matching the current booking sheet.
// Override via configuration if the product codes change.
func DefaultMarkers(code4DX, codeScreenX string) []FormatMarker {
	return []FormatMarker{
		{Code: code4DX, Label: "4DX"},
		{Code: codeScreenX, Label: "ScreenX"},
	}
}

// FormatLabel derives the booked-format label for one booking code.
// It is a pure function: the comma-join of all matched marker labels in
// marker-table order, or NotBooked when nothing matches (including the
// empty code of an unmatched join row).
func FormatLabel(bookingCode string, markers []FormatMarker) string {
	var labels []string
	for _, m := range markers {
		if m.Code == "" {
			continue
		}
		if strings.Contains(bookingCode, m.Code) {
			labels = append(labels, m.Label)
		}
	}
	if len(labels) == 0 {
		return NotBooked
	}
	return strings.Join(labels, ", ")
}
