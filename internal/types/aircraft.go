package types

import (
	"image/color"
	"time"

	"flight-tracker/internal/geo"
)

// Aircraft is a tracked aircraft inside the configured radius
type Aircraft struct {
	ICAO         string
	Callsign     string
	Registration string
	AircraftType string
	Position     geo.Coordinate
	Altitude     Altitude
	OnGround     bool
	// AboveObserverFeet is altitude minus the observer's ground elevation
	AboveObserverFeet float64
	Speed             Speed
	Heading           Heading
	DistanceMiles     float64
	// BearingDegrees is the direction from the observer, clockwise from north
	BearingDegrees float64
	Color          color.RGBA
	LastSeen       time.Time
}

// TrailPoint is a previously observed position of an aircraft
type TrailPoint struct {
	Position  geo.Coordinate
	Timestamp time.Time
}
