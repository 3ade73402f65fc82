package source

import (
	"context"
	"errors"
	"testing"

	"github.com/exhibitor-tools/lineup-portal/internal/table"
)

// fakeSource returns canned tables, or an error, and counts loads.
type fakeSource struct {
	bookings *table.Table
	lineup   *table.Table
	err      error
	loads    int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Load(ctx context.Context) (*table.Table, *table.Table, error) {
	f.loads++
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.bookings, f.lineup, nil
}

func fakeTables() (*table.Table, *table.Table) {
	bookings := table.New(
		[]string{"Exhibitor", "Country", "Title", "Start Date", "BU"},
		[][]string{
			{"CinemaOne", "Peru", "Movie1", "2025-07-04", "M244DX"},
			{"MegaPlex", "Chile", "Movie1", "2025-07-04", "M24SCX"},
		},
	)
	lineup := table.New(
		[]string{"Title", "Country of Origin", "First Release", "4DX", "SX"},
		[][]string{{"Movie1", "USA", "2025-07-04", "x", "x"}},
	)
	return bookings, lineup
}

func TestCache_LoadNormalizesHeaders(t *testing.T) {
	bookings, lineup := fakeTables()
	cache := NewCache(&fakeSource{bookings: bookings, lineup: lineup})

	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	snap := cache.Snapshot()
	if !snap.Bookings.HasCol("Start_Date") {
		t.Errorf("bookings headers not normalized: %v", snap.Bookings.Headers)
	}
	if !snap.Lineup.HasCol("Country_of_Origin") {
		t.Errorf("lineup headers not normalized: %v", snap.Lineup.Headers)
	}
	if snap.LoadedAt.IsZero() {
		t.Error("LoadedAt is zero after Load")
	}
}

func TestCache_LoadPropagatesError(t *testing.T) {
	want := errors.New("boom")
	cache := NewCache(&fakeSource{err: want})

	if err := cache.Load(context.Background()); !errors.Is(err, want) {
		t.Errorf("Load() error = %v, want %v", err, want)
	}
}

func TestCache_FailedReloadKeepsSnapshot(t *testing.T) {
	bookings, lineup := fakeTables()
	src := &fakeSource{bookings: bookings, lineup: lineup}
	cache := NewCache(src)

	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	good := cache.Snapshot()

	src.err = errors.New("network down")
	if err := cache.Load(context.Background()); err == nil {
		t.Fatal("Load() expected error")
	}

	after := cache.Snapshot()
	if after.Bookings != good.Bookings || after.Lineup != good.Lineup {
		t.Error("failed reload replaced the snapshot")
	}
}

func TestCache_Exhibitors(t *testing.T) {
	bookings, lineup := fakeTables()
	cache := NewCache(&fakeSource{bookings: bookings, lineup: lineup})

	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := cache.Exhibitors()
	want := []string{"CinemaOne", "MegaPlex"}
	if len(got) != len(want) {
		t.Fatalf("Exhibitors() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Exhibitors()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
