package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/exhibitor-tools/lineup-portal/internal/table"
)

// CSVFiles loads both tables from local CSV files. Intended for development
// and offline work against exports of the production sheet.
type CSVFiles struct {
	bookingsPath string
	lineupPath   string
}

// NewCSVFiles creates the CSV backend.
func NewCSVFiles(bookingsPath, lineupPath string) *CSVFiles {
	return &CSVFiles{bookingsPath: bookingsPath, lineupPath: lineupPath}
}

// Name implements Source.
func (c *CSVFiles) Name() string { return "csv" }

// Load implements Source.
func (c *CSVFiles) Load(ctx context.Context) (*table.Table, *table.Table, error) {
	if c.bookingsPath == "" || c.lineupPath == "" {
		return nil, nil, unavailable("csv: both SOURCE_BOOKINGS_CSV and SOURCE_LINEUP_CSV must be set")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, unavailable("csv: %v", err)
	}

	bookings, err := readCSV(c.bookingsPath)
	if err != nil {
		return nil, nil, err
	}
	lineup, err := readCSV(c.lineupPath)
	if err != nil {
		return nil, nil, err
	}
	return bookings, lineup, nil
}

// readCSV parses one file into a Table. Ragged rows are tolerated; the
// header row sets the column count and short rows pad with empty cells.
func readCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, unavailable("csv: opening %s: %v", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // exports from the sheet are frequently ragged
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: csv: parsing %s: %v", ErrSourceUnavailable, path, err)
	}
	if len(records) == 0 {
		return nil, unavailable("csv: %s has no header row", path)
	}

	return table.New(records[0], records[1:]), nil
}
