package source

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/exhibitor-tools/lineup-portal/internal/table"
)

// Postgres loads both tables from a PostgreSQL database. Used where the
// sheet contents are mirrored into a warehouse and the portal should read
// from there instead of hitting the Sheets API.
type Postgres struct {
	url           string
	bookingsTable string
	lineupTable   string
}

// NewPostgres creates the Postgres backend.
func NewPostgres(url, bookingsTable, lineupTable string) *Postgres {
	return &Postgres{url: url, bookingsTable: bookingsTable, lineupTable: lineupTable}
}

// Name implements Source.
func (p *Postgres) Name() string { return "postgres" }

// Load implements Source. A fresh pool is opened per load; loads are rare
// (startup plus the refresh interval), so holding connections open between
// them buys nothing.
func (p *Postgres) Load(ctx context.Context) (*table.Table, *table.Table, error) {
	if p.url == "" {
		return nil, nil, unavailable("postgres: SOURCE_DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(ctx, p.url)
	if err != nil {
		return nil, nil, unavailable("postgres: connecting: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, nil, unavailable("postgres: ping: %v", err)
	}

	bookings, err := p.readTable(ctx, pool, p.bookingsTable)
	if err != nil {
		return nil, nil, err
	}
	lineup, err := p.readTable(ctx, pool, p.lineupTable)
	if err != nil {
		return nil, nil, err
	}
	return bookings, lineup, nil
}

// readTable selects an entire table, using the column names as headers.
func (p *Postgres) readTable(ctx context.Context, pool *pgxpool.Pool, name string) (*table.Table, error) {
	rows, err := pool.Query(ctx, "SELECT * FROM "+pgx.Identifier{name}.Sanitize())
	if err != nil {
		return nil, unavailable("postgres: reading %s: %v", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	headers := make([]string, len(fields))
	for i, fd := range fields {
		headers[i] = fd.Name
	}

	var data [][]string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, unavailable("postgres: scanning %s: %v", name, err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = sqlCell(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("postgres: reading %s: %v", name, err)
	}

	return table.New(headers, data), nil
}

// sqlCell renders one scanned database value as a string cell. Dates render
// as ISO dates so the lenient parser downstream sees its preferred layout.
func sqlCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format("2006-01-02")
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(val)
	}
}
