package altitude

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
)

// ErrInvalidConfiguration is returned when a breakpoint table cannot be used
// for interpolation
var ErrInvalidConfiguration = errors.New("invalid altitude color table")

// Breakpoint pins a color to an altitude in feet
type Breakpoint struct {
	AltitudeFeet float64
	Color        color.RGBA
}

// Colorizer maps altitudes onto a color ramp. It is immutable once built and
// safe for concurrent use.
type Colorizer struct {
	table []Breakpoint
}

// DefaultBreakpoints returns the standard aviation altitude scale, from
// orange-red on the ground through green and blue to magenta at FL450
func DefaultBreakpoints() []Breakpoint {
	return []Breakpoint{
		{0, rgb(255, 100, 0)},
		{500, rgb(255, 120, 0)},
		{1000, rgb(255, 140, 0)},
		{2000, rgb(255, 200, 0)},
		{4000, rgb(255, 255, 0)},
		{6000, rgb(200, 255, 0)},
		{8000, rgb(0, 255, 0)},
		{10000, rgb(0, 200, 150)},
		{20000, rgb(0, 150, 255)},
		{30000, rgb(0, 0, 200)},
		{40000, rgb(150, 0, 200)},
		{45000, rgb(200, 0, 150)},
	}
}

// NewColorizer validates table and returns a Colorizer holding its own copy.
// The table needs at least two entries with strictly ascending, non-negative
// altitudes.
func NewColorizer(table []Breakpoint) (*Colorizer, error) {
	if len(table) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 breakpoints, got %d", ErrInvalidConfiguration, len(table))
	}

	for i, bp := range table {
		if math.IsNaN(bp.AltitudeFeet) || bp.AltitudeFeet < 0 {
			return nil, fmt.Errorf("%w: breakpoint %d has invalid altitude %v", ErrInvalidConfiguration, i, bp.AltitudeFeet)
		}
		if i == 0 {
			continue
		}
		prev := table[i-1].AltitudeFeet
		if bp.AltitudeFeet == prev {
			return nil, fmt.Errorf("%w: duplicate altitude %v", ErrInvalidConfiguration, bp.AltitudeFeet)
		}
		if bp.AltitudeFeet < prev {
			return nil, fmt.Errorf("%w: altitude %v follows %v, table must be ascending", ErrInvalidConfiguration, bp.AltitudeFeet, prev)
		}
	}

	owned := make([]Breakpoint, len(table))
	copy(owned, table)
	for i := range owned {
		owned[i].Color.A = 255
	}

	return &Colorizer{table: owned}, nil
}

// Breakpoints returns a copy of the table
func (c *Colorizer) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, len(c.table))
	copy(out, c.table)
	return out
}

// ColorFor returns the color for altitudeFeet. Altitudes below the first
// breakpoint take its color, likewise above the last; in between each channel
// is interpolated linearly.
func (c *Colorizer) ColorFor(altitudeFeet float64) color.RGBA {
	first := c.table[0]
	last := c.table[len(c.table)-1]

	if math.IsNaN(altitudeFeet) || altitudeFeet <= first.AltitudeFeet {
		return first.Color
	}
	if altitudeFeet >= last.AltitudeFeet {
		return last.Color
	}

	// index of the first breakpoint strictly above altitudeFeet; >= 1 here
	i := sort.Search(len(c.table), func(i int) bool {
		return c.table[i].AltitudeFeet > altitudeFeet
	})
	lo, hi := c.table[i-1], c.table[i]

	ratio := (altitudeFeet - lo.AltitudeFeet) / (hi.AltitudeFeet - lo.AltitudeFeet)
	return color.RGBA{
		R: lerp(lo.Color.R, hi.Color.R, ratio),
		G: lerp(lo.Color.G, hi.Color.G, ratio),
		B: lerp(lo.Color.B, hi.Color.B, ratio),
		A: 255,
	}
}

// ParseBreakpoints builds a table from configuration where keys are
// altitudes in feet and values are [r, g, b]. Entries are sorted by altitude;
// the result still has to go through NewColorizer.
func ParseBreakpoints(raw map[string][]int) ([]Breakpoint, error) {
	table := make([]Breakpoint, 0, len(raw))
	for key, channels := range raw {
		alt, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: altitude %q is not a number", ErrInvalidConfiguration, key)
		}
		if len(channels) != 3 {
			return nil, fmt.Errorf("%w: altitude %q needs 3 color channels, got %d", ErrInvalidConfiguration, key, len(channels))
		}
		for _, ch := range channels {
			if ch < 0 || ch > 255 {
				return nil, fmt.Errorf("%w: altitude %q has channel %d outside 0..255", ErrInvalidConfiguration, key, ch)
			}
		}
		table = append(table, Breakpoint{
			AltitudeFeet: alt,
			Color:        rgb(uint8(channels[0]), uint8(channels[1]), uint8(channels[2])),
		})
	}

	sort.Slice(table, func(i, j int) bool {
		return table[i].AltitudeFeet < table[j].AltitudeFeet
	})
	return table, nil
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func lerp(a, b uint8, ratio float64) uint8 {
	return clamp(float64(a) + (float64(b)-float64(a))*ratio)
}

func clamp(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
