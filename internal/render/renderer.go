package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"

	"flight-tracker/internal/altitude"
	"flight-tracker/internal/display"
	"flight-tracker/internal/geo"
	"flight-tracker/internal/types"
)

const (
	markerBrightness = 1.3
	// panels up to this size get the compact overhead layout
	smallWidth  = 128
	smallHeight = 32
)

var (
	background = color.RGBA{A: 255}
	white      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	grey       = color.RGBA{R: 160, G: 160, B: 160, A: 255}

	statTitleColors = map[display.Stat]color.RGBA{
		display.StatClosest: {R: 255, G: 100, B: 0, A: 255},
		display.StatFastest: {R: 0, G: 255, B: 100, A: 255},
		display.StatHighest: {R: 100, G: 150, B: 255, A: 255},
	}
)

// airplaneIcon is drawn next to the aircraft count on the map
var airplaneIcon = []string{
	"..#..",
	".###.",
	"#####",
	"..#..",
	".###.",
}

// Renderer draws LED-matrix frames for a view window. It is safe for
// concurrent use: each frame gets its own context and font face.
type Renderer struct {
	window     geo.ViewWindow
	font       *truetype.Font
	fontPoints float64
}

// NewRenderer uses gg's built-in bitmap font unless fontPath names a TrueType
// font to load at fontPoints
func NewRenderer(window geo.ViewWindow, fontPath string, fontPoints float64) (*Renderer, error) {
	if fontPath == "" {
		return &Renderer{window: window}, nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load font %s: %w", fontPath, err)
	}
	return NewRendererWithFont(window, data, fontPoints)
}

// NewRendererWithFont parses a TrueType font from ttf
func NewRendererWithFont(window geo.ViewWindow, ttf []byte, fontPoints float64) (*Renderer, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Renderer{window: window, font: f, fontPoints: fontPoints}, nil
}

func (r *Renderer) newContext() *gg.Context {
	dc := gg.NewContext(r.window.Width, r.window.Height)
	if r.font != nil {
		// truetype faces cache glyphs internally and must not be shared
		dc.SetFontFace(truetype.NewFace(r.font, &truetype.Options{Size: r.fontPoints}))
	}
	dc.SetColor(background)
	dc.Clear()
	return dc
}

func (r *Renderer) small() bool {
	return r.window.Width <= smallWidth && r.window.Height <= smallHeight
}

// Map draws the observer at the center, trails as segments fading toward
// their oldest point and each aircraft as a single brightened pixel
func (r *Renderer) Map(aircraft []types.Aircraft, trails map[string][]types.TrailPoint) image.Image {
	dc := r.newContext()

	colors := make(map[string]color.RGBA, len(aircraft))
	for _, ac := range aircraft {
		colors[ac.ICAO] = ac.Color
	}

	for icao, trail := range trails {
		base, ok := colors[icao]
		if !ok {
			continue
		}
		r.drawTrail(dc, trail, base)
	}

	center := r.window.CenterPixel()
	dc.SetColor(white)
	dc.SetPixel(center.X, center.Y)

	for _, ac := range aircraft {
		px, ok := r.window.Project(ac.Position)
		if !ok {
			continue
		}
		dc.SetColor(altitude.Brighten(ac.Color, markerBrightness))
		dc.SetPixel(px.X, px.Y)
	}

	r.drawCount(dc, len(aircraft))
	return dc.Image()
}

// drawTrail joins the on-screen trail points with segments; alpha grows with
// the segment index over the number of visible points
func (r *Renderer) drawTrail(dc *gg.Context, trail []types.TrailPoint, base color.RGBA) {
	pixels := make([]geo.PixelPoint, 0, len(trail))
	for _, point := range trail {
		if px, ok := r.window.Project(point.Position); ok {
			pixels = append(pixels, px)
		}
	}
	if len(pixels) < 2 {
		return
	}

	dc.SetLineWidth(1)
	n := float64(len(pixels))
	for i := 0; i < len(pixels)-1; i++ {
		a, b := pixels[i], pixels[i+1]
		dc.SetColor(altitude.Dim(base, float64(i+1)/n))
		dc.DrawLine(float64(a.X)+0.5, float64(a.Y)+0.5, float64(b.X)+0.5, float64(b.Y)+0.5)
		dc.Stroke()
	}
}

func (r *Renderer) drawCount(dc *gg.Context, count int) {
	dc.SetColor(white)
	for y, row := range airplaneIcon {
		for x, c := range row {
			if c == '#' {
				dc.SetPixel(x, y)
			}
		}
	}
	dc.DrawStringAnchored(fmt.Sprintf("%d", count), float64(len(airplaneIcon[0])+2), 0, 0, 1)
}

// Overhead shows details of a single aircraft; nil draws "No Aircraft"
func (r *Renderer) Overhead(ac *types.Aircraft) image.Image {
	dc := r.newContext()

	if ac == nil {
		dc.SetColor(grey)
		dc.DrawStringAnchored("No Aircraft", float64(r.window.Width)/2, float64(r.window.Height)/2, 0.5, 0.5)
		return dc.Image()
	}

	var lines []string
	if r.small() {
		lines = []string{
			ac.Callsign,
			fmt.Sprintf("%.0fft %.0fkt", ac.Altitude.Feet, ac.Speed.Knots),
			fmt.Sprintf("%.1fmi %s", ac.DistanceMiles, ac.Heading.Cardinal),
		}
	} else {
		lines = []string{
			strings.TrimSpace(ac.Callsign + " " + ac.AircraftType),
			fmt.Sprintf("ALT %.0f ft", ac.Altitude.Feet),
			fmt.Sprintf("SPD %.0f kt", ac.Speed.Knots),
			fmt.Sprintf("DST %.2f mi", ac.DistanceMiles),
			fmt.Sprintf("HDG %.0f %s", ac.Heading.Degrees, ac.Heading.Cardinal),
		}
		if ac.Registration != "" {
			lines = append(lines, ac.Registration)
		}
	}

	first := ac.Color
	if first.A == 0 {
		first = white
	}
	r.drawLines(dc, lines, first)
	return dc.Image()
}

// Stats draws a title in the statistic's color followed by the aircraft
// holding it; nil draws the title with "No Aircraft"
func (r *Renderer) Stats(stat display.Stat, ac *types.Aircraft) image.Image {
	dc := r.newContext()

	title := strings.ToUpper(string(stat))
	dc.SetColor(statTitleColors[stat])
	dc.DrawStringAnchored(title, 0, 0, 0, 1)

	var lines []string
	if ac == nil {
		lines = []string{"No Aircraft"}
	} else {
		lines = []string{ac.Callsign, statValue(stat, ac)}
	}

	lineHeight := math.Ceil(dc.FontHeight())
	dc.SetColor(white)
	for i, line := range lines {
		y := lineHeight * float64(i+1)
		if y >= float64(r.window.Height) {
			break
		}
		dc.DrawStringAnchored(line, 0, y, 0, 1)
	}
	return dc.Image()
}

func statValue(stat display.Stat, ac *types.Aircraft) string {
	switch stat {
	case display.StatFastest:
		return fmt.Sprintf("%.0f kt", ac.Speed.Knots)
	case display.StatHighest:
		return fmt.Sprintf("%.0f ft", ac.Altitude.Feet)
	default:
		return fmt.Sprintf("%.2f mi", ac.DistanceMiles)
	}
}

// drawLines writes lines top-down, the first in highlight, stopping at the
// bottom edge
func (r *Renderer) drawLines(dc *gg.Context, lines []string, highlight color.RGBA) {
	lineHeight := math.Ceil(dc.FontHeight())
	for i, line := range lines {
		y := lineHeight * float64(i)
		if y >= float64(r.window.Height) {
			break
		}
		if i == 0 {
			dc.SetColor(highlight)
		} else {
			dc.SetColor(white)
		}
		dc.DrawStringAnchored(line, 0, y, 0, 1)
	}
}
