package types

import (
	"time"

	"flight-tracker/internal/geo"
)

// Observer is the fixed point the display is centered on
type Observer struct {
	Position geo.Coordinate
	// ElevationFeet is ground elevation, valid when HasElevation is set
	ElevationFeet float64
	HasElevation  bool
	Timezone      string
	Location      *time.Location
}
