package geo

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned when a view window is assembled from
// values that cannot produce a projection
var ErrInvalidConfiguration = errors.New("invalid view configuration")

// PixelPoint is a pixel position on the raster, origin top-left
type PixelPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ViewWindow describes the area around Center that is rendered onto a
// Width x Height raster. Zoom divides RadiusMiles to give the effective radius
// spanning half the raster width.
type ViewWindow struct {
	Center      Coordinate
	RadiusMiles float64
	Zoom        float64
	Width       int
	Height      int
}

// NewViewWindow validates its inputs and returns a ViewWindow. All errors wrap
// ErrInvalidConfiguration.
func NewViewWindow(center Coordinate, radiusMiles, zoom float64, width, height int) (ViewWindow, error) {
	if err := center.Validate(); err != nil {
		return ViewWindow{}, fmt.Errorf("invalid center: %w", err)
	}
	if math.IsNaN(radiusMiles) || radiusMiles <= 0 {
		return ViewWindow{}, fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidConfiguration, radiusMiles)
	}
	if math.IsNaN(zoom) || zoom <= 0 {
		return ViewWindow{}, fmt.Errorf("%w: zoom must be positive, got %v", ErrInvalidConfiguration, zoom)
	}
	if width <= 0 || height <= 0 {
		return ViewWindow{}, fmt.Errorf("%w: raster must be at least 1x1, got %dx%d", ErrInvalidConfiguration, width, height)
	}

	return ViewWindow{
		Center:      center,
		RadiusMiles: radiusMiles,
		Zoom:        zoom,
		Width:       width,
		Height:      height,
	}, nil
}

func (w ViewWindow) EffectiveRadius() float64 {
	return w.RadiusMiles / w.Zoom
}

func (w ViewWindow) PixelsPerMile() float64 {
	return float64(w.Width) / (2 * w.EffectiveRadius())
}

// CenterPixel is the raster position of the window center
func (w ViewWindow) CenterPixel() PixelPoint {
	return PixelPoint{
		X: int(math.Round(float64(w.Width) / 2)),
		Y: int(math.Round(float64(w.Height) / 2)),
	}
}

// Contains reports whether target lies within the configured radius of the
// center. This ignores zoom; it is the tracking radius, not the visible area.
func (w ViewWindow) Contains(target Coordinate) bool {
	return DistanceMiles(w.Center, target) <= w.RadiusMiles
}

// Project maps target onto the raster with north up. The second return value
// is false when the target falls outside the raster, which is the normal
// outcome for aircraft beyond the visible area.
func (w ViewWindow) Project(target Coordinate) (PixelPoint, bool) {
	distance := DistanceMiles(w.Center, target)
	pixelDistance := distance * w.PixelsPerMile()

	bearing := Bearing(w.Center, target)
	offsetX := pixelDistance * math.Sin(bearing)
	// pixel rows grow downward
	offsetY := -pixelDistance * math.Cos(bearing)

	x := int(math.Round(float64(w.Width)/2 + offsetX))
	y := int(math.Round(float64(w.Height)/2 + offsetY))

	if x < 0 || x >= w.Width || y < 0 || y >= w.Height {
		return PixelPoint{}, false
	}
	return PixelPoint{X: x, Y: y}, true
}
