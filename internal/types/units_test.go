package types

import (
	"math"
	"testing"
)

func TestNewHeading(t *testing.T) {
	tests := []struct {
		degrees float64
		want    string
	}{
		{0, "N"},
		{11, "N"},
		{12, "NNE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{349, "N"},
		{359.9, "N"},
		{360, "N"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := NewHeading(tt.degrees)
			if got.Cardinal != tt.want {
				t.Errorf("NewHeading(%v).Cardinal = %q, want %q", tt.degrees, got.Cardinal, tt.want)
			}
		})
	}
}

func TestNewAltitudeFromFeet(t *testing.T) {
	got := NewAltitudeFromFeet(10000)
	if math.Abs(got.Meters-3048) > 1e-9 {
		t.Errorf("Meters = %v, want 3048", got.Meters)
	}
}

func TestNewSpeedFromKnots(t *testing.T) {
	got := NewSpeedFromKnots(100)
	if math.Abs(got.Kph-185.2) > 1e-9 {
		t.Errorf("Kph = %v, want 185.2", got.Kph)
	}
}
