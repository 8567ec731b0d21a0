package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"flight-tracker/internal/altitude"
	"flight-tracker/internal/geo"
	"flight-tracker/internal/providers/skyaware"
	"flight-tracker/internal/store"
	"flight-tracker/internal/types"
)

// ErrNoAircraft is returned by the statistics when nothing is tracked
var ErrNoAircraft = errors.New("no aircraft tracked")

const (
	snapshotKey     = "flight_tracker_data"
	unknownType     = "Unknown"
	defaultStale    = 60 * time.Second
	defaultTrailLen = 10
)

// FeedProvider fetches the live ADS-B feed
type FeedProvider interface {
	GetAircraft(ctx context.Context) (*skyaware.AircraftAPIResponse, error)
}

// AircraftRegistry looks up static aircraft details by ICAO address
type AircraftRegistry interface {
	LookupAircraft(icao string) (*store.AircraftRecord, error)
}

// SnapshotStore keeps the last good feed document for when the feed is down
type SnapshotStore interface {
	SaveSnapshot(key string, payload []byte, now time.Time) error
	LoadSnapshot(key string) ([]byte, time.Time, error)
}

// Service tracks aircraft around the observer
type Service interface {
	Refresh(ctx context.Context) error
	Aircraft() []types.Aircraft
	Closest() (types.Aircraft, error)
	Fastest() (types.Aircraft, error)
	Highest() (types.Aircraft, error)
	Trails() map[string][]types.TrailPoint
	Count() int
	Window() geo.ViewWindow
}

// Options configures a tracker Service
type Options struct {
	Window              geo.ViewWindow
	Colorizer           *altitude.Colorizer
	StaleAfter          time.Duration
	ShowTrails          bool
	TrailLength         int
	GroundElevationFeet float64
	// Now defaults to time.Now
	Now func() time.Time
}

type trackerService struct {
	feed     FeedProvider
	registry AircraftRegistry
	snapshot SnapshotStore
	opts     Options
	logger   *slog.Logger

	mu       sync.RWMutex
	aircraft map[string]types.Aircraft
	trails   map[string][]types.TrailPoint
}

// NewTrackerService creates a tracker backed by the SkyAware client and the
// store for registry lookups and feed snapshots
func NewTrackerService(feed *skyaware.Client, db *store.Store, opts Options, logger *slog.Logger) Service {
	if db == nil {
		return NewTrackerServiceWithProviders(feed, nil, nil, opts, logger)
	}
	return NewTrackerServiceWithProviders(feed, db, db, opts, logger)
}

// NewTrackerServiceWithProviders creates a tracker with custom providers.
// registry and snapshot may be nil.
func NewTrackerServiceWithProviders(
	feed FeedProvider,
	registry AircraftRegistry,
	snapshot SnapshotStore,
	opts Options,
	logger *slog.Logger,
) Service {
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = defaultStale
	}
	if opts.TrailLength <= 0 {
		opts.TrailLength = defaultTrailLen
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &trackerService{
		feed:     feed,
		registry: registry,
		snapshot: snapshot,
		opts:     opts,
		logger:   logger.With("component", "tracker-service"),
		aircraft: make(map[string]types.Aircraft),
		trails:   make(map[string][]types.TrailPoint),
	}
}

// Refresh fetches the feed and updates the tracked set. When the feed fails
// the last stored snapshot is used instead.
func (s *trackerService) Refresh(ctx context.Context) error {
	now := s.opts.Now()

	resp, err := s.feed.GetAircraft(ctx)
	if err != nil {
		s.logger.Error("failed to fetch aircraft data", "error", err)

		cached, savedAt, cacheErr := s.loadSnapshot()
		if cacheErr != nil {
			return fmt.Errorf("failed to fetch aircraft data: %w", err)
		}
		s.logger.Info("using cached aircraft data", "saved_at", savedAt)
		resp = cached
	} else {
		s.saveSnapshot(resp, now)
	}

	s.process(resp, now)

	s.logger.Debug("currently tracking aircraft", "count", s.Count())
	return nil
}

func (s *trackerService) process(resp *skyaware.AircraftAPIResponse, now time.Time) {
	if resp == nil || resp.Aircraft == nil {
		s.logger.Warn("no aircraft data in response")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range resp.Aircraft {
		ac, ok := s.translate(entry, now)
		if !ok {
			continue
		}
		s.aircraft[ac.ICAO] = ac

		if s.opts.ShowTrails {
			trail := append(s.trails[ac.ICAO], types.TrailPoint{Position: ac.Position, Timestamp: now})
			if len(trail) > s.opts.TrailLength {
				trail = trail[len(trail)-s.opts.TrailLength:]
			}
			s.trails[ac.ICAO] = trail
		}
	}

	for icao, ac := range s.aircraft {
		if now.Sub(ac.LastSeen) > s.opts.StaleAfter {
			delete(s.aircraft, icao)
			delete(s.trails, icao)
		}
	}
}

// translate converts a feed entry to a tracked aircraft. It reports false for
// entries without an address or position, or outside the radius.
// Callers hold s.mu.
func (s *trackerService) translate(entry skyaware.AircraftAPIEntry, now time.Time) (types.Aircraft, bool) {
	icao := strings.ToUpper(strings.TrimSpace(entry.Hex))
	if icao == "" || entry.Lat == nil || entry.Lon == nil {
		return types.Aircraft{}, false
	}

	position := geo.NewCoordinate(*entry.Lat, *entry.Lon)
	distance := geo.DistanceMiles(s.opts.Window.Center, position)
	if distance > s.opts.Window.RadiusMiles {
		return types.Aircraft{}, false
	}

	var (
		altitudeFeet float64
		onGround     bool
	)
	switch {
	case entry.AltBaro != nil:
		altitudeFeet = entry.AltBaro.Feet
		onGround = entry.AltBaro.OnGround
	case entry.AltGeom != nil:
		altitudeFeet = *entry.AltGeom
	}

	var heading float64
	switch {
	case entry.Track != nil:
		heading = *entry.Track
	case entry.TrueHeading != nil:
		heading = *entry.TrueHeading
	}

	var speed float64
	if entry.GroundSpeed != nil {
		speed = *entry.GroundSpeed
	}

	callsign := strings.TrimSpace(entry.Flight)
	if callsign == "" {
		callsign = icao
	}

	ac := types.Aircraft{
		ICAO:              icao,
		Callsign:          callsign,
		Registration:      entry.Registration,
		AircraftType:      entry.TypeCode,
		Position:          position,
		Altitude:          types.NewAltitudeFromFeet(altitudeFeet),
		OnGround:          onGround,
		AboveObserverFeet: altitudeFeet - s.opts.GroundElevationFeet,
		Speed:             types.NewSpeedFromKnots(speed),
		Heading:           types.NewHeading(heading),
		DistanceMiles:     distance,
		BearingDegrees:    geo.BearingDegrees(s.opts.Window.Center, position),
		Color:             s.opts.Colorizer.ColorFor(altitudeFeet),
		LastSeen:          now,
	}
	if onGround {
		ac.AboveObserverFeet = 0
	}

	s.enrich(&ac)
	return ac, true
}

// enrich fills registration and type from the offline registry, reusing
// what was found the last time this aircraft was seen
func (s *trackerService) enrich(ac *types.Aircraft) {
	if prev, ok := s.aircraft[ac.ICAO]; ok {
		if ac.Registration == "" {
			ac.Registration = prev.Registration
		}
		if ac.AircraftType == "" && prev.AircraftType != unknownType {
			ac.AircraftType = prev.AircraftType
		}
	}

	if s.registry != nil && (ac.Registration == "" || ac.AircraftType == "") {
		rec, err := s.registry.LookupAircraft(ac.ICAO)
		switch {
		case err == nil:
			if ac.Registration == "" {
				ac.Registration = rec.Registration
			}
			if ac.AircraftType == "" {
				ac.AircraftType = rec.TypeCode
			}
		case !errors.Is(err, store.ErrNotFound):
			s.logger.Warn("aircraft registry lookup failed", "icao", ac.ICAO, "error", err)
		}
	}

	if ac.AircraftType == "" {
		ac.AircraftType = unknownType
	}
}

func (s *trackerService) saveSnapshot(resp *skyaware.AircraftAPIResponse, now time.Time) {
	if s.snapshot == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("failed to encode aircraft snapshot", "error", err)
		return
	}
	if err := s.snapshot.SaveSnapshot(snapshotKey, payload, now); err != nil {
		s.logger.Warn("failed to save aircraft snapshot", "error", err)
	}
}

func (s *trackerService) loadSnapshot() (*skyaware.AircraftAPIResponse, time.Time, error) {
	if s.snapshot == nil {
		return nil, time.Time{}, store.ErrNotFound
	}
	payload, savedAt, err := s.snapshot.LoadSnapshot(snapshotKey)
	if err != nil {
		return nil, time.Time{}, err
	}
	var resp skyaware.AircraftAPIResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode aircraft snapshot: %w", err)
	}
	return &resp, savedAt, nil
}

// Aircraft returns the tracked aircraft ordered by distance from the center
func (s *trackerService) Aircraft() []types.Aircraft {
	s.mu.RLock()
	out := make([]types.Aircraft, 0, len(s.aircraft))
	for _, ac := range s.aircraft {
		out = append(out, ac)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceMiles != out[j].DistanceMiles {
			return out[i].DistanceMiles < out[j].DistanceMiles
		}
		return out[i].ICAO < out[j].ICAO
	})
	return out
}

func (s *trackerService) Closest() (types.Aircraft, error) {
	return s.pick(func(a, b types.Aircraft) bool { return a.DistanceMiles < b.DistanceMiles })
}

func (s *trackerService) Fastest() (types.Aircraft, error) {
	return s.pick(func(a, b types.Aircraft) bool { return a.Speed.Knots > b.Speed.Knots })
}

func (s *trackerService) Highest() (types.Aircraft, error) {
	return s.pick(func(a, b types.Aircraft) bool { return a.Altitude.Feet > b.Altitude.Feet })
}

// pick returns the aircraft that wins against all others under better; the
// distance ordering of Aircraft breaks ties
func (s *trackerService) pick(better func(a, b types.Aircraft) bool) (types.Aircraft, error) {
	all := s.Aircraft()
	if len(all) == 0 {
		return types.Aircraft{}, ErrNoAircraft
	}
	best := all[0]
	for _, ac := range all[1:] {
		if better(ac, best) {
			best = ac
		}
	}
	return best, nil
}

// Trails returns a copy of the position history of tracked aircraft
func (s *trackerService) Trails() map[string][]types.TrailPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]types.TrailPoint, len(s.trails))
	for icao, trail := range s.trails {
		out[icao] = append([]types.TrailPoint(nil), trail...)
	}
	return out
}

func (s *trackerService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.aircraft)
}

func (s *trackerService) Window() geo.ViewWindow {
	return s.opts.Window
}
