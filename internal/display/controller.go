package display

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"flight-tracker/internal/types"
)

// Mode is what the panel is showing
type Mode string

const (
	ModeMap      Mode = "map"
	ModeOverhead Mode = "overhead"
	ModeStats    Mode = "stats"
)

// ParseMode accepts a mode name case-insensitively; empty means map
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeMap:
		return ModeMap, nil
	case ModeOverhead:
		return ModeOverhead, nil
	case ModeStats:
		return ModeStats, nil
	default:
		return "", fmt.Errorf("unknown display mode %q", s)
	}
}

// Stat selects which aircraft the stats view highlights
type Stat string

const (
	StatClosest Stat = "closest"
	StatFastest Stat = "fastest"
	StatHighest Stat = "highest"
)

// statOrder is the rotation sequence of the stats view
var statOrder = []Stat{StatClosest, StatFastest, StatHighest}

func ParseStat(s string) (Stat, error) {
	stat := Stat(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range statOrder {
		if stat == known {
			return stat, nil
		}
	}
	return "", fmt.Errorf("unknown statistic %q", s)
}

type Options struct {
	ProximityEnabled  bool
	ProximityMiles    float64
	ProximityDuration time.Duration
	StatDuration      time.Duration
}

// Frame is the controller's decision for one render
type Frame struct {
	Mode           Mode
	Stat           Stat
	ProximityAlert bool
}

// Controller picks the effective mode for each frame. A close aircraft seen
// while the map is requested switches the panel to overhead for a while, and
// the stats view cycles through its statistics.
type Controller struct {
	opts   Options
	logger *slog.Logger

	mu          sync.Mutex
	alertUntil  time.Time
	statIndex   int
	statStarted time.Time
}

func NewController(opts Options, logger *slog.Logger) *Controller {
	return &Controller{
		opts:   opts,
		logger: logger.With("component", "display-controller"),
	}
}

// Frame decides the mode for a frame rendered at now. closest may be nil.
func (c *Controller) Frame(now time.Time, requested Mode, closest *types.Aircraft) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.alertUntil.IsZero() && !now.Before(c.alertUntil) {
		c.logger.Debug("proximity alert expired")
		c.alertUntil = time.Time{}
	}

	if requested == ModeMap && c.alertUntil.IsZero() && c.inProximity(closest) {
		c.alertUntil = now.Add(c.opts.ProximityDuration)
		c.logger.Info("proximity alert triggered",
			"callsign", closest.Callsign,
			"distance_miles", closest.DistanceMiles,
			"duration", c.opts.ProximityDuration,
		)
	}

	if !c.alertUntil.IsZero() {
		return Frame{Mode: ModeOverhead, ProximityAlert: true}
	}

	if requested != ModeStats {
		return Frame{Mode: requested}
	}

	if c.statStarted.IsZero() {
		c.statStarted = now
	} else if c.opts.StatDuration > 0 && now.Sub(c.statStarted) >= c.opts.StatDuration {
		c.statIndex = (c.statIndex + 1) % len(statOrder)
		c.statStarted = now
	}
	return Frame{Mode: ModeStats, Stat: statOrder[c.statIndex]}
}

func (c *Controller) inProximity(closest *types.Aircraft) bool {
	return c.opts.ProximityEnabled && closest != nil && closest.DistanceMiles <= c.opts.ProximityMiles
}
