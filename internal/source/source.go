// Package source loads the two read-only datasets the dashboard reports on:
// the bookings table and the release lineup.
//
// Backends share one contract: produce both tables or fail with
// ErrSourceUnavailable. Everything after loading (header normalization,
// filtering, joining) is source-agnostic and works on table.Table values.
// The Cache type holds the most recent good snapshot and refreshes it in the
// background.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/exhibitor-tools/lineup-portal/internal/config"
	"github.com/exhibitor-tools/lineup-portal/internal/table"
)

// ErrSourceUnavailable indicates the external store could not be reached or
// the expected tables are absent: missing/invalid credentials, connectivity
// failures, or a renamed worksheet. Fatal at startup; tolerated (with the
// previous snapshot retained) during background refresh.
var ErrSourceUnavailable = errors.New("source unavailable")

// Source produces the bookings and lineup tables.
type Source interface {
	// Load fetches both tables. Implementations must not retain references
	// to the returned tables; callers own them.
	Load(ctx context.Context) (bookings, lineup *table.Table, err error)

	// Name identifies the backend for logging.
	Name() string
}

// New constructs the configured source backend.
func New(cfg *config.Config) (Source, error) {
	switch cfg.Source.Backend {
	case "sheets":
		return NewSheets(cfg.Source), nil
	case "csv":
		return NewCSVFiles(cfg.Source.BookingsCSV, cfg.Source.LineupCSV), nil
	case "postgres":
		return NewPostgres(cfg.Source.DatabaseURL, cfg.Source.BookingsTable, cfg.Source.LineupTable), nil
	case "sqlite":
		return NewSQLite(cfg.Source.SQLitePath, cfg.Source.BookingsTable, cfg.Source.LineupTable), nil
	default:
		return nil, fmt.Errorf("unknown source backend %q", cfg.Source.Backend)
	}
}

// unavailable wraps an underlying failure in ErrSourceUnavailable.
func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSourceUnavailable, fmt.Sprintf(format, args...))
}
