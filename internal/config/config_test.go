package config

import (
	"errors"
	"testing"
	"time"

	"flight-tracker/internal/altitude"
	"flight-tracker/internal/geo"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Tracker.UpdateInterval != 5*time.Second {
		t.Errorf("Tracker.UpdateInterval = %v, want 5s", cfg.Tracker.UpdateInterval)
	}
	if cfg.Tracker.RadiusMiles != 10 || cfg.Tracker.Zoom != 1 {
		t.Errorf("Tracker radius/zoom = %v/%v, want 10/1", cfg.Tracker.RadiusMiles, cfg.Tracker.Zoom)
	}
	if cfg.Display.Width != 64 || cfg.Display.Height != 32 {
		t.Errorf("Display = %dx%d, want 64x32", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Proximity.Duration != 30*time.Second {
		t.Errorf("Proximity.Duration = %v, want 30s", cfg.Proximity.Duration)
	}
	if cfg.FlightPlan.PrefetchInterval != 4*time.Hour || cfg.FlightPlan.MaxCallsPerRun != 10 {
		t.Errorf("FlightPlan prefetch = %v/%d, want 4h/10", cfg.FlightPlan.PrefetchInterval, cfg.FlightPlan.MaxCallsPerRun)
	}
	if len(cfg.FlightPlan.AirlinePrefixes) == 0 {
		t.Error("FlightPlan.AirlinePrefixes is empty")
	}
	if got := cfg.GetServerAddr(); got != ":8080" {
		t.Errorf("GetServerAddr() = %q, want :8080", got)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("FLIGHT_TRACKER_TRACKER_ZOOM", "2.5")
	t.Setenv("FLIGHT_TRACKER_DISPLAY_WIDTH", "128")
	t.Setenv("FLIGHT_TRACKER_SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}
	if cfg.Tracker.Zoom != 2.5 {
		t.Errorf("Tracker.Zoom = %v, want 2.5", cfg.Tracker.Zoom)
	}
	if cfg.Display.Width != 128 {
		t.Errorf("Display.Width = %d, want 128", cfg.Display.Width)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
}

func TestConfig_ViewWindow(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	w, err := cfg.ViewWindow()
	if err != nil {
		t.Fatalf("ViewWindow() unexpected error = %v", err)
	}
	if w.Width != 64 || w.Height != 32 || w.RadiusMiles != 10 {
		t.Errorf("ViewWindow() = %+v", w)
	}

	cfg.Tracker.Zoom = 0
	if _, err := cfg.ViewWindow(); !errors.Is(err, geo.ErrInvalidConfiguration) {
		t.Errorf("ViewWindow() with zero zoom error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestConfig_Colorizer(t *testing.T) {
	cfg := &Config{}
	c, err := cfg.Colorizer()
	if err != nil {
		t.Fatalf("Colorizer() unexpected error = %v", err)
	}
	if got := len(c.Breakpoints()); got != len(altitude.DefaultBreakpoints()) {
		t.Errorf("default table has %d breakpoints, want %d", got, len(altitude.DefaultBreakpoints()))
	}

	cfg.Altitude.Colors = map[string][]int{"0": {255, 0, 0}, "1000": {0, 0, 255}}
	c, err = cfg.Colorizer()
	if err != nil {
		t.Fatalf("Colorizer() unexpected error = %v", err)
	}
	if got := c.ColorFor(500); got.R != 128 || got.B != 128 {
		t.Errorf("ColorFor(500) = %v, want midpoint", got)
	}

	cfg.Altitude.Colors = map[string][]int{"0": {255, 0, 0}}
	if _, err := cfg.Colorizer(); !errors.Is(err, altitude.ErrInvalidConfiguration) {
		t.Errorf("Colorizer() with one breakpoint error = %v, want ErrInvalidConfiguration", err)
	}
}
