package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"flight-tracker/internal/altitude"
	"flight-tracker/internal/geo"
	"flight-tracker/internal/providers/skyaware"
	"flight-tracker/internal/store"
)

// Mock providers for testing

type mockFeed struct {
	response *skyaware.AircraftAPIResponse
	err      error
	calls    int
}

func (m *mockFeed) GetAircraft(ctx context.Context) (*skyaware.AircraftAPIResponse, error) {
	m.calls++
	return m.response, m.err
}

type mockRegistry struct {
	records map[string]store.AircraftRecord
	lookups int
}

func (m *mockRegistry) LookupAircraft(icao string) (*store.AircraftRecord, error) {
	m.lookups++
	rec, ok := m.records[icao]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &rec, nil
}

type mockSnapshots struct {
	payload []byte
	savedAt time.Time
}

func (m *mockSnapshots) SaveSnapshot(key string, payload []byte, now time.Time) error {
	m.payload = payload
	m.savedAt = now
	return nil
}

func (m *mockSnapshots) LoadSnapshot(key string) ([]byte, time.Time, error) {
	if m.payload == nil {
		return nil, time.Time{}, store.ErrNotFound
	}
	return m.payload, m.savedAt, nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

var center = geo.NewCoordinate(27.9506, -82.4572)

func ptr[T any](v T) *T { return &v }

// milesNorth returns the latitude the given distance north of center
func milesNorth(miles float64) float64 {
	return center.Latitude + miles/geo.EarthRadiusMiles*180/math.Pi
}

func entry(hex string, milesFromCenter float64, alt *skyaware.Altitude, gs float64) skyaware.AircraftAPIEntry {
	return skyaware.AircraftAPIEntry{
		Hex:         hex,
		Lat:         ptr(milesNorth(milesFromCenter)),
		Lon:         ptr(center.Longitude),
		AltBaro:     alt,
		GroundSpeed: ptr(gs),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, feed FeedProvider, registry AircraftRegistry, snapshots SnapshotStore, clock *fakeClock, trails bool) Service {
	t.Helper()
	window, err := geo.NewViewWindow(center, 10, 1, 64, 32)
	if err != nil {
		t.Fatalf("NewViewWindow() unexpected error = %v", err)
	}
	colorizer, err := altitude.NewColorizer(altitude.DefaultBreakpoints())
	if err != nil {
		t.Fatalf("NewColorizer() unexpected error = %v", err)
	}
	opts := Options{
		Window:      window,
		Colorizer:   colorizer,
		StaleAfter:  60 * time.Second,
		ShowTrails:  trails,
		TrailLength: 3,
		Now:         clock.Now,
	}
	return NewTrackerServiceWithProviders(feed, registry, snapshots, opts, testLogger())
}

func TestTrackerService_Refresh(t *testing.T) {
	feed := &mockFeed{response: &skyaware.AircraftAPIResponse{
		Aircraft: []skyaware.AircraftAPIEntry{
			func() skyaware.AircraftAPIEntry {
				e := entry("a1b2c3", 2, &skyaware.Altitude{Feet: 3500}, 210)
				e.Flight = "DAL123  "
				e.Track = ptr(45.0)
				e.TypeCode = "B738"
				return e
			}(),
			entry("abcdef", 0.05, &skyaware.Altitude{OnGround: true}, 5),
			entry("far000", 25, &skyaware.Altitude{Feet: 30000}, 450),
			{Hex: "nopos1", AltBaro: &skyaware.Altitude{Feet: 1000}},
			func() skyaware.AircraftAPIEntry {
				e := entry("geo001", 5, nil, 300)
				e.AltGeom = ptr(12000.0)
				e.TrueHeading = ptr(270.0)
				return e
			}(),
		},
	}}
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, feed, nil, nil, clock, false)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() unexpected error = %v", err)
	}

	all := svc.Aircraft()
	if len(all) != 3 {
		t.Fatalf("len(Aircraft()) = %d, want 3: %+v", len(all), all)
	}

	// sorted by distance
	if all[0].ICAO != "ABCDEF" || all[1].ICAO != "A1B2C3" || all[2].ICAO != "GEO001" {
		t.Errorf("order = %s, %s, %s", all[0].ICAO, all[1].ICAO, all[2].ICAO)
	}

	ground := all[0]
	if !ground.OnGround || ground.Altitude.Feet != 0 {
		t.Errorf("ground aircraft altitude = %+v, onGround = %v", ground.Altitude, ground.OnGround)
	}
	if ground.Callsign != "ABCDEF" {
		t.Errorf("callsign fallback = %q, want ABCDEF", ground.Callsign)
	}
	if ground.AircraftType != "Unknown" {
		t.Errorf("AircraftType = %q, want Unknown", ground.AircraftType)
	}
	if ground.Color != (altitude.DefaultBreakpoints()[0].Color) {
		t.Errorf("ground color = %v", ground.Color)
	}

	dal := all[1]
	if dal.Callsign != "DAL123" {
		t.Errorf("callsign = %q, want trimmed DAL123", dal.Callsign)
	}
	if math.Abs(dal.DistanceMiles-2) > 1e-6 {
		t.Errorf("DistanceMiles = %v, want 2", dal.DistanceMiles)
	}
	if math.Abs(dal.BearingDegrees) > 1e-9 {
		t.Errorf("BearingDegrees = %v, want 0 for an aircraft due north", dal.BearingDegrees)
	}
	if dal.Heading.Degrees != 45 || dal.Heading.Cardinal != "NE" {
		t.Errorf("Heading = %+v, want 45 NE", dal.Heading)
	}
	if !dal.LastSeen.Equal(clock.now) {
		t.Errorf("LastSeen = %v, want %v", dal.LastSeen, clock.now)
	}

	geoAlt := all[2]
	if geoAlt.Altitude.Feet != 12000 {
		t.Errorf("alt_geom fallback = %v, want 12000", geoAlt.Altitude.Feet)
	}
	if geoAlt.Heading.Degrees != 270 {
		t.Errorf("true_heading fallback = %v, want 270", geoAlt.Heading.Degrees)
	}
}

func TestTrackerService_Statistics(t *testing.T) {
	feed := &mockFeed{response: &skyaware.AircraftAPIResponse{
		Aircraft: []skyaware.AircraftAPIEntry{
			entry("000001", 1, &skyaware.Altitude{Feet: 2000}, 150),
			entry("000002", 3, &skyaware.Altitude{Feet: 35000}, 480),
			entry("000003", 6, &skyaware.Altitude{Feet: 9000}, 520),
		},
	}}
	clock := &fakeClock{now: time.Now()}
	svc := newTestService(t, feed, nil, nil, clock, false)

	if _, err := svc.Closest(); !errors.Is(err, ErrNoAircraft) {
		t.Errorf("Closest() before refresh error = %v, want ErrNoAircraft", err)
	}

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() unexpected error = %v", err)
	}

	tests := []struct {
		name string
		stat func() (string, error)
		want string
	}{
		{"closest", func() (string, error) { a, err := svc.Closest(); return a.ICAO, err }, "000001"},
		{"fastest", func() (string, error) { a, err := svc.Fastest(); return a.ICAO, err }, "000003"},
		{"highest", func() (string, error) { a, err := svc.Highest(); return a.ICAO, err }, "000002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.stat()
			if err != nil {
				t.Fatalf("unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTrackerService_StaleAndTrails(t *testing.T) {
	feed := &mockFeed{response: &skyaware.AircraftAPIResponse{
		Aircraft: []skyaware.AircraftAPIEntry{
			entry("aaaaaa", 1, &skyaware.Altitude{Feet: 1000}, 100),
			entry("bbbbbb", 2, &skyaware.Altitude{Feet: 2000}, 100),
		},
	}}
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(t, feed, nil, nil, clock, true)

	for i := 0; i < 5; i++ {
		if err := svc.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh() unexpected error = %v", err)
		}
		clock.now = clock.now.Add(5 * time.Second)
	}

	trails := svc.Trails()
	if got := len(trails["AAAAAA"]); got != 3 {
		t.Errorf("trail length = %d, want capped at 3", got)
	}

	// bbbbbb disappears from the feed and goes stale after 60s
	feed.response = &skyaware.AircraftAPIResponse{
		Aircraft: []skyaware.AircraftAPIEntry{entry("aaaaaa", 1, &skyaware.Altitude{Feet: 1000}, 100)},
	}
	clock.now = clock.now.Add(61 * time.Second)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() unexpected error = %v", err)
	}

	if svc.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", svc.Count())
	}
	if _, ok := svc.Trails()["BBBBBB"]; ok {
		t.Error("trail of stale aircraft was not removed")
	}
}

func TestTrackerService_Registry(t *testing.T) {
	feed := &mockFeed{response: &skyaware.AircraftAPIResponse{
		Aircraft: []skyaware.AircraftAPIEntry{
			entry("a1b2c3", 1, &skyaware.Altitude{Feet: 1000}, 100),
			entry("ffffff", 2, &skyaware.Altitude{Feet: 1000}, 100),
		},
	}}
	registry := &mockRegistry{records: map[string]store.AircraftRecord{
		"A1B2C3": {ICAO: "A1B2C3", Registration: "N123DL", TypeCode: "B738"},
	}}
	clock := &fakeClock{now: time.Now()}
	svc := newTestService(t, feed, registry, &mockSnapshots{}, clock, false)

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() unexpected error = %v", err)
	}

	all := svc.Aircraft()
	if all[0].Registration != "N123DL" || all[0].AircraftType != "B738" {
		t.Errorf("enriched aircraft = %+v", all[0])
	}
	if all[1].AircraftType != "Unknown" {
		t.Errorf("unregistered AircraftType = %q, want Unknown", all[1].AircraftType)
	}

	// known aircraft keep their details without another lookup
	lookups := registry.lookups
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() unexpected error = %v", err)
	}
	if registry.lookups != lookups+1 {
		t.Errorf("registry lookups = %d, want %d (only the unregistered aircraft)", registry.lookups, lookups+1)
	}
}

func TestTrackerService_SnapshotFallback(t *testing.T) {
	feed := &mockFeed{response: &skyaware.AircraftAPIResponse{
		Aircraft: []skyaware.AircraftAPIEntry{entry("a1b2c3", 1, &skyaware.Altitude{Feet: 1000}, 100)},
	}}
	snapshots := &mockSnapshots{}
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

	svc := newTestService(t, feed, &mockRegistry{}, snapshots, clock, false)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() unexpected error = %v", err)
	}
	if snapshots.payload == nil {
		t.Fatal("snapshot was not saved")
	}

	// a fresh tracker with a broken feed recovers from the snapshot
	broken := &mockFeed{err: errors.New("connection refused")}
	svc = newTestService(t, broken, &mockRegistry{}, snapshots, clock, false)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() with snapshot unexpected error = %v", err)
	}
	if svc.Count() != 1 {
		t.Errorf("Count() = %d, want 1 from snapshot", svc.Count())
	}

	// and fails without one
	svc = newTestService(t, broken, &mockRegistry{}, &mockSnapshots{}, clock, false)
	if err := svc.Refresh(context.Background()); err == nil {
		t.Error("Refresh() expected error without feed or snapshot")
	}
}
