package geo

import (
	"errors"
	"math"
	"testing"
)

var tampa = NewCoordinate(27.9506, -82.4572)

// northOf returns the coordinate the given number of miles due north of c
func northOf(c Coordinate, miles float64) Coordinate {
	return NewCoordinate(c.Latitude+miles/EarthRadiusMiles*180/math.Pi, c.Longitude)
}

func mustWindow(t *testing.T, center Coordinate, radius, zoom float64, width, height int) ViewWindow {
	t.Helper()
	w, err := NewViewWindow(center, radius, zoom, width, height)
	if err != nil {
		t.Fatalf("NewViewWindow() unexpected error = %v", err)
	}
	return w
}

func TestNewViewWindow(t *testing.T) {
	tests := []struct {
		name    string
		center  Coordinate
		radius  float64
		zoom    float64
		width   int
		height  int
		wantErr bool
	}{
		{"valid", tampa, 10, 1, 64, 32, false},
		{"zoomed in", tampa, 10, 2.5, 128, 64, false},
		{"zero zoom", tampa, 10, 0, 64, 32, true},
		{"negative zoom", tampa, 10, -1, 64, 32, true},
		{"NaN zoom", tampa, 10, math.NaN(), 64, 32, true},
		{"zero radius", tampa, 0, 1, 64, 32, true},
		{"negative radius", tampa, -5, 1, 64, 32, true},
		{"zero width", tampa, 10, 1, 0, 32, true},
		{"zero height", tampa, 10, 1, 64, 0, true},
		{"latitude out of range", NewCoordinate(91, 0), 10, 1, 64, 32, true},
		{"longitude out of range", NewCoordinate(0, -181), 10, 1, 64, 32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewViewWindow(tt.center, tt.radius, tt.zoom, tt.width, tt.height)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewViewWindow() expected error but got none")
				}
				if !errors.Is(err, ErrInvalidConfiguration) {
					t.Errorf("NewViewWindow() error = %v, want wrapping ErrInvalidConfiguration", err)
				}
				return
			}
			if err != nil {
				t.Errorf("NewViewWindow() unexpected error = %v", err)
			}
		})
	}
}

func TestViewWindow_Scale(t *testing.T) {
	w := mustWindow(t, tampa, 10, 2, 64, 32)
	if got := w.EffectiveRadius(); got != 5 {
		t.Errorf("EffectiveRadius() = %v, want 5", got)
	}
	if got := w.PixelsPerMile(); got != 6.4 {
		t.Errorf("PixelsPerMile() = %v, want 6.4", got)
	}
}

func TestViewWindow_Project(t *testing.T) {
	w := mustWindow(t, tampa, 10, 1, 64, 32)

	tests := []struct {
		name   string
		target Coordinate
		want   PixelPoint
		wantOK bool
	}{
		{
			name:   "center maps to raster center",
			target: tampa,
			want:   PixelPoint{X: 32, Y: 16},
			wantOK: true,
		},
		{
			name:   "five miles north reaches the top edge",
			target: northOf(tampa, 5),
			want:   PixelPoint{X: 32, Y: 0},
			wantOK: true,
		},
		{
			name:   "two miles north",
			target: northOf(tampa, 2),
			want:   PixelPoint{X: 32, Y: 10},
			wantOK: true,
		},
		{
			name:   "six miles north is off screen",
			target: northOf(tampa, 6),
			wantOK: false,
		},
		{
			name:   "two miles south",
			target: northOf(tampa, -2),
			want:   PixelPoint{X: 32, Y: 22},
			wantOK: true,
		},
		{
			name:   "far away",
			target: NewCoordinate(51.5074, -0.1278),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := w.Project(tt.target)
			if ok != tt.wantOK {
				t.Fatalf("Project(%v) ok = %v, want %v", tt.target, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Project(%v) = %+v, want %+v", tt.target, got, tt.want)
			}
		})
	}
}

func TestViewWindow_Project_EastWest(t *testing.T) {
	w := mustWindow(t, tampa, 10, 1, 64, 32)
	center := w.CenterPixel()

	east, ok := w.Project(NewCoordinate(tampa.Latitude, tampa.Longitude+0.02))
	if !ok {
		t.Fatal("Project(east) out of bounds")
	}
	if east.X <= center.X {
		t.Errorf("east target x = %d, want > %d", east.X, center.X)
	}

	west, ok := w.Project(NewCoordinate(tampa.Latitude, tampa.Longitude-0.02))
	if !ok {
		t.Fatal("Project(west) out of bounds")
	}
	if west.X >= center.X {
		t.Errorf("west target x = %d, want < %d", west.X, center.X)
	}
}

func TestViewWindow_Project_NorthKeepsColumn(t *testing.T) {
	for _, miles := range []float64{0.5, 1, 2.5, 4.9} {
		w := mustWindow(t, tampa, 10, 1, 64, 32)
		got, ok := w.Project(northOf(tampa, miles))
		if !ok {
			t.Fatalf("Project(%v mi north) out of bounds", miles)
		}
		if got.X != 32 {
			t.Errorf("Project(%v mi north).X = %d, want 32", miles, got.X)
		}
		if got.Y >= 16 {
			t.Errorf("Project(%v mi north).Y = %d, want < 16", miles, got.Y)
		}
	}
}

func TestViewWindow_Project_ZoomedOut(t *testing.T) {
	// a huge radius squeezes everything near the center pixel
	w := mustWindow(t, tampa, 5000, 1, 64, 32)
	got, ok := w.Project(northOf(tampa, 50))
	if !ok {
		t.Fatal("Project() out of bounds")
	}
	if got != (PixelPoint{X: 32, Y: 16}) {
		t.Errorf("Project() = %+v, want center", got)
	}
}

func TestViewWindow_Contains(t *testing.T) {
	w := mustWindow(t, tampa, 10, 4, 64, 32)
	if !w.Contains(northOf(tampa, 9.5)) {
		t.Error("Contains(9.5 mi) = false, want true")
	}
	if w.Contains(northOf(tampa, 10.5)) {
		t.Error("Contains(10.5 mi) = true, want false")
	}
}
