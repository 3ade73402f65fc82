package source

import (
	"context"
	"database/sql"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/exhibitor-tools/lineup-portal/internal/table"
)

// SQLite loads both tables from a local SQLite snapshot file, typically one
// produced by exporting the production sheet. Useful for demos and tests
// where neither the Sheets API nor a warehouse is reachable.
type SQLite struct {
	path          string
	bookingsTable string
	lineupTable   string
}

// NewSQLite creates the SQLite backend.
func NewSQLite(path, bookingsTable, lineupTable string) *SQLite {
	return &SQLite{path: path, bookingsTable: bookingsTable, lineupTable: lineupTable}
}

// Name implements Source.
func (s *SQLite) Name() string { return "sqlite" }

// Load implements Source.
func (s *SQLite) Load(ctx context.Context) (*table.Table, *table.Table, error) {
	if s.path == "" {
		return nil, nil, unavailable("sqlite: SOURCE_SQLITE_PATH is not set")
	}
	if _, err := os.Stat(s.path); err != nil {
		return nil, nil, unavailable("sqlite: %v", err)
	}

	db, err := sql.Open("sqlite", s.path+"?mode=ro")
	if err != nil {
		return nil, nil, unavailable("sqlite: opening %s: %v", s.path, err)
	}
	defer db.Close()

	bookings, err := s.readTable(ctx, db, s.bookingsTable)
	if err != nil {
		return nil, nil, err
	}
	lineup, err := s.readTable(ctx, db, s.lineupTable)
	if err != nil {
		return nil, nil, err
	}
	return bookings, lineup, nil
}

// readTable selects an entire table, using the column names as headers.
func (s *SQLite) readTable(ctx context.Context, db *sql.DB, name string) (*table.Table, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(name))
	if err != nil {
		return nil, unavailable("sqlite: reading %s: %v", name, err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, unavailable("sqlite: columns of %s: %v", name, err)
	}

	var data [][]string
	for rows.Next() {
		raw := make([]any, len(headers))
		ptrs := make([]any, len(headers))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, unavailable("sqlite: scanning %s: %v", name, err)
		}
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = sqlCell(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("sqlite: reading %s: %v", name, err)
	}

	return table.New(headers, data), nil
}

// quoteIdent double-quotes an identifier for SQLite.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
