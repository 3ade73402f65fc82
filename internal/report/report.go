// Package report implements the lineup report transformation.
//
// Given the bookings and lineup tables, it produces the two tables the
// dashboard shows an exhibitor: titles they have booked for release, and
// upcoming titles in the lineup they have not booked yet. This package has
// no HTTP or storage dependencies and operates purely on table.Table values.
package report

import (
	"strings"
	"time"

	"github.com/exhibitor-tools/lineup-portal/internal/table"
)

// Column names the transformation depends on (post-normalization).
const (
	colExhibitor     = "Exhibitor"
	colCountry       = "Country"
	colTitle         = "Title"
	colStartDate     = "Start_Date"
	colBookingUnit   = "BU"
	colFirstRelease  = "First_Release"
	colCountryOrigin = "Country_of_Origin"
	colFourDX        = "4DX"
	colScreenX       = "SX"
)

// noDateSentinel marks a joined row whose booking has no start date.
const noDateSentinel = "-"

// emDashPlaceholder is a placeholder value that occasionally appears in the
// sheet's format column; it is excluded from format aggregation.
const emDashPlaceholder = "—"

// BookedTitle is one row of the "your lineup" table.
type BookedTitle struct {
	Title           string `json:"title"`
	CountryOfOrigin string `json:"country_of_origin"`
	ReleaseDate     string `json:"release_date"`
	FormatsBooked   string `json:"formats_booked"`
}

// UpcomingTitle is one row of the "what about these titles" table.
type UpcomingTitle struct {
	Title           string `json:"title"`
	CountryOfOrigin string `json:"country_of_origin"`
	FourDX          string `json:"4dx"`
	ScreenX         string `json:"sx"`
}

// Report is the pair of derived tables for one exhibitor and one run.
type Report struct {
	Booked   []BookedTitle   `json:"booked"`
	Upcoming []UpcomingTitle `json:"upcoming"`
}

// Params configures a single report build.
type Params struct {
	// Exhibitor is the authenticated exhibitor name. Required.
	Exhibitor string

	// Country restricts bookings to one market. Empty means all markets.
	Country string

	// Today anchors the rolling window.
	Today time.Time

	// WindowBack and WindowForward are day offsets for the upcoming window,
	// inclusive at both bounds.
	WindowBack    int
	WindowForward int

	// ExcludedOrigins are origin countries never shown in the upcoming set.
	ExcludedOrigins []string

	// Markers maps booking-code substrings to format labels.
	Markers []FormatMarker
}

// FilterLineup returns the lineup rows whose First_Release parses to a date
// on or after cutoff. Rows with unparseable dates never satisfy the bound and
// are dropped, per the null-coercion policy in table.ParseDateOrNull.
func FilterLineup(lineup *table.Table, cutoff time.Time) *table.Table {
	return lineup.Filter(func(row []string) bool {
		d, ok := table.ParseDateOrNull(lineup.Value(row, colFirstRelease))
		return ok && !d.Before(cutoff)
	})
}

// Exhibitors returns the distinct exhibitor names in the bookings table,
// in first-seen order. The access gate treats this as the set of valid
// login names.
func Exhibitors(bookings *table.Table) []string {
	return bookings.Distinct(colExhibitor)
}

// Countries returns the distinct countries the given exhibitor has bookings
// in, in first-seen order. Used to populate the country selector.
func Countries(bookings *table.Table, exhibitor string) []string {
	return bookings.
		Filter(func(row []string) bool {
			return bookings.Value(row, colExhibitor) == exhibitor
		}).
		Distinct(colCountry)
}

// joinedRow is one row of the lineup left-joined to the exhibitor's bookings.
type joinedRow struct {
	title       string
	origin      string
	releaseDate string
	formats     string
}

// Build runs the report transformation and returns the booked and upcoming
// sets. bookings must be the full normalized bookings table; lineup must
// already be year-filtered via FilterLineup.
//
// A title appears in at most one of the two outputs. Rows whose join key does
// not match and rows whose dates fail to parse drop silently; only upstream
// source loading can fail, so Build returns no error.
func Build(bookings, lineup *table.Table, p Params) Report {
	selected := bookings.Filter(func(row []string) bool {
		if bookings.Value(row, colExhibitor) != p.Exhibitor {
			return false
		}
		if p.Country != "" && bookings.Value(row, colCountry) != p.Country {
			return false
		}
		return true
	})

	// Index the exhibitor's bookings by title for the left join.
	byTitle := make(map[string][][]string)
	for _, row := range selected.Rows {
		title := selected.Value(row, colTitle)
		byTitle[title] = append(byTitle[title], row)
	}

	// Left-join: every lineup row appears at least once, repeated per
	// matching booking row, with empty booking fields when none match.
	var joined []joinedRow
	for _, lrow := range lineup.Rows {
		title := lineup.Value(lrow, colTitle)
		origin := lineup.Value(lrow, colCountryOrigin)

		matches := byTitle[title]
		if len(matches) == 0 {
			joined = append(joined, joinedRow{
				title:       title,
				origin:      origin,
				releaseDate: noDateSentinel,
				formats:     FormatLabel("", p.Markers),
			})
			continue
		}
		for _, brow := range matches {
			release := selected.Value(brow, colStartDate)
			if release == "" {
				release = noDateSentinel
			}
			joined = append(joined, joinedRow{
				title:       title,
				origin:      origin,
				releaseDate: release,
				formats:     FormatLabel(selected.Value(brow, colBookingUnit), p.Markers),
			})
		}
	}

	// Group rows with an actual booking by title: first country, first date,
	// deduplicated union of format labels.
	bookedIdx := make(map[string]int)
	var booked []BookedTitle
	for _, jr := range joined {
		if jr.releaseDate == noDateSentinel {
			continue
		}
		i, ok := bookedIdx[jr.title]
		if !ok {
			bookedIdx[jr.title] = len(booked)
			booked = append(booked, BookedTitle{
				Title:           jr.title,
				CountryOfOrigin: jr.origin,
				ReleaseDate:     jr.releaseDate,
				FormatsBooked:   "",
			})
			i = len(booked) - 1
		}
		booked[i].FormatsBooked = mergeFormats(booked[i].FormatsBooked, jr.formats)
	}

	// Parsed release dates are midnight UTC; truncate Today to a date so the
	// inclusive window bounds hold regardless of wall-clock time.
	today := time.Date(p.Today.Year(), p.Today.Month(), p.Today.Day(), 0, 0, 0, 0, time.UTC)
	windowStart := today.AddDate(0, 0, -p.WindowBack)
	windowEnd := today.AddDate(0, 0, p.WindowForward)

	excluded := make(map[string]struct{}, len(p.ExcludedOrigins))
	for _, c := range p.ExcludedOrigins {
		excluded[c] = struct{}{}
	}

	// Upcoming: lineup titles outside the booked set, inside the window,
	// with non-excluded origins. Exact-duplicate projected rows collapse.
	seen := make(map[UpcomingTitle]struct{})
	var upcoming []UpcomingTitle
	for _, lrow := range lineup.Rows {
		title := lineup.Value(lrow, colTitle)
		if _, ok := bookedIdx[title]; ok {
			continue
		}
		d, ok := table.ParseDateOrNull(lineup.Value(lrow, colFirstRelease))
		if !ok || d.Before(windowStart) || d.After(windowEnd) {
			continue
		}
		if _, ok := excluded[lineup.Value(lrow, colCountryOrigin)]; ok {
			continue
		}
		row := UpcomingTitle{
			Title:           title,
			CountryOfOrigin: lineup.Value(lrow, colCountryOrigin),
			FourDX:          lineup.Value(lrow, colFourDX),
			ScreenX:         lineup.Value(lrow, colScreenX),
		}
		if _, dup := seen[row]; dup {
			continue
		}
		seen[row] = struct{}{}
		upcoming = append(upcoming, row)
	}

	return Report{Booked: booked, Upcoming: upcoming}
}

// mergeFormats merges a row's format label into the accumulated, comma-joined
// label set for its title. Labels dedupe component-wise in first-seen order;
// the em-dash placeholder never contributes.
func mergeFormats(acc, label string) string {
	existing := make(map[string]struct{})
	parts := []string{}
	if acc != "" {
		for _, part := range strings.Split(acc, ", ") {
			existing[part] = struct{}{}
			parts = append(parts, part)
		}
	}
	if label != "" {
		for _, part := range strings.Split(label, ", ") {
			if part == emDashPlaceholder {
				continue
			}
			if _, ok := existing[part]; ok {
				continue
			}
			existing[part] = struct{}{}
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
