// Package table provides the in-memory tabular model shared by all source
// backends and the report builder.
//
// A Table is a header row plus string cells. Sources are responsible for
// flattening whatever their store returns (sheet values, CSV records, SQL
// rows) into this shape; typed interpretation of cells (dates) happens at
// the point of use via the conversion helpers in this package.
package table

import "strings"

// Separator is the character that replaces internal whitespace in
// normalized header names.
const Separator = "_"

// Table is an ordered set of named columns over string cells.
type Table struct {
	Headers []string
	Rows    [][]string

	// index maps lowercased header names to column positions.
	// Rebuilt whenever headers change.
	index map[string]int
}

// New creates a Table from a header row and data rows.
// Cells are cleaned (BOM, surrounding whitespace) on the way in.
func New(headers []string, rows [][]string) *Table {
	t := &Table{
		Headers: make([]string, len(headers)),
		Rows:    make([][]string, 0, len(rows)),
	}
	for i, h := range headers {
		t.Headers[i] = CleanCell(h)
	}
	for _, row := range rows {
		clean := make([]string, len(t.Headers))
		for i := range clean {
			if i < len(row) {
				clean[i] = CleanCell(row[i])
			}
		}
		t.Rows = append(t.Rows, clean)
	}
	t.rebuildIndex()
	return t
}

// NormalizeHeaders canonicalizes the header row: leading/trailing whitespace
// is removed and internal spaces and newlines collapse to a single separator.
// The operation is idempotent; normalizing twice equals normalizing once.
func (t *Table) NormalizeHeaders() {
	for i, h := range t.Headers {
		t.Headers[i] = NormalizeHeader(h)
	}
	t.rebuildIndex()
}

// NormalizeHeader canonicalizes a single header name.
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(h)
	fields := strings.FieldsFunc(h, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\r' || r == '\t'
	})
	return strings.Join(fields, Separator)
}

// DisplayHeader converts a normalized header back to its human-readable form
// by replacing separators with spaces. Part of the output contract: rendered
// tables show "Country of Origin", not "Country_of_Origin".
func DisplayHeader(h string) string {
	return strings.ReplaceAll(h, Separator, " ")
}

// Col returns the position of the named column, or -1 if absent.
// Lookup is case-insensitive.
func (t *Table) Col(name string) int {
	if pos, ok := t.index[strings.ToLower(name)]; ok {
		return pos
	}
	return -1
}

// HasCol reports whether the named column exists.
func (t *Table) HasCol(name string) bool {
	return t.Col(name) >= 0
}

// Value returns the cell at (row, column name), or "" if the column is
// absent or the row is ragged.
func (t *Table) Value(row []string, name string) string {
	pos := t.Col(name)
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return row[pos]
}

// Filter returns a new Table containing the rows for which keep returns true.
// Headers are shared; rows are not copied.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := &Table{Headers: t.Headers, index: t.index}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Distinct returns the distinct non-empty values of the named column,
// in first-seen order.
func (t *Table) Distinct(name string) []string {
	pos := t.Col(name)
	if pos < 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, row := range t.Rows {
		if pos >= len(row) {
			continue
		}
		v := row[pos]
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) rebuildIndex() {
	t.index = make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		t.index[strings.ToLower(h)] = i
	}
}
