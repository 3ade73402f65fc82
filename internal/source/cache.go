package source

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/exhibitor-tools/lineup-portal/internal/report"
	"github.com/exhibitor-tools/lineup-portal/internal/table"
)

// Snapshot is one consistent load of both tables, headers already
// normalized. Snapshots are immutable once published; readers share them.
type Snapshot struct {
	Bookings *table.Table
	Lineup   *table.Table
	LoadedAt time.Time
}

// Cache holds the most recent good snapshot of the source tables and
// refreshes it in the background. A failed refresh logs and keeps the
// previous snapshot; only the initial load is fatal.
type Cache struct {
	src Source

	mu   sync.RWMutex
	snap Snapshot
}

// NewCache creates a cache over the given source. Call Load before serving.
func NewCache(src Source) *Cache {
	return &Cache{src: src}
}

// Load fetches both tables, normalizes their headers, and publishes the
// snapshot. The first call must succeed for the process to start.
func (c *Cache) Load(ctx context.Context) error {
	bookings, lineup, err := c.src.Load(ctx)
	if err != nil {
		return err
	}
	bookings.NormalizeHeaders()
	lineup.NormalizeHeaders()
	warnMissingColumns(bookings, "bookings", "Exhibitor", "Country", "Title", "Start_Date", "BU")
	warnMissingColumns(lineup, "lineup", "Title", "First_Release", "Country_of_Origin", "4DX", "SX")

	c.mu.Lock()
	c.snap = Snapshot{Bookings: bookings, Lineup: lineup, LoadedAt: time.Now()}
	c.mu.Unlock()

	slog.Info("source loaded",
		"backend", c.src.Name(),
		"booking_rows", bookings.Len(),
		"lineup_rows", lineup.Len(),
	)
	return nil
}

// Snapshot returns the current snapshot.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Exhibitors returns the distinct exhibitor names in the current bookings
// snapshot. Satisfies auth.ExhibitorDirectory.
func (c *Cache) Exhibitors() []string {
	return report.Exhibitors(c.Snapshot().Bookings)
}

// Run refreshes the snapshot on the given interval until ctx is cancelled.
// Refresh failures keep the last good snapshot.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("source refresh stopped")
			return
		case <-ticker.C:
			if err := c.Load(ctx); err != nil {
				slog.Warn("source refresh failed, keeping previous snapshot",
					"backend", c.src.Name(),
					"error", err,
				)
			}
		}
	}
}

// warnMissingColumns logs when an expected column is absent after
// normalization. Missing columns are not fatal; the affected values read as
// empty and fall out of the derived tables, which is the documented policy.
func warnMissingColumns(t *table.Table, name string, cols ...string) {
	for _, col := range cols {
		if !t.HasCol(col) {
			slog.Warn("expected column missing", "table", name, "column", col)
		}
	}
}
