package skyaware

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AircraftAPIResponse is the dump1090/SkyAware aircraft.json document
type AircraftAPIResponse struct {
	Now      float64            `json:"now"`
	Messages int64              `json:"messages"`
	Aircraft []AircraftAPIEntry `json:"aircraft"`
}

// AircraftAPIEntry is one aircraft in the feed. Fields the receiver has not
// decoded yet are absent, hence the pointers.
type AircraftAPIEntry struct {
	Hex          string    `json:"hex"`
	Flight       string    `json:"flight,omitempty"`
	Lat          *float64  `json:"lat,omitempty"`
	Lon          *float64  `json:"lon,omitempty"`
	AltBaro      *Altitude `json:"alt_baro,omitempty"`
	AltGeom      *float64  `json:"alt_geom,omitempty"`
	GroundSpeed  *float64  `json:"gs,omitempty"`
	Track        *float64  `json:"track,omitempty"`
	TrueHeading  *float64  `json:"true_heading,omitempty"`
	Registration string    `json:"r,omitempty"`
	TypeCode     string    `json:"t,omitempty"`
	Squawk       string    `json:"squawk,omitempty"`
	Seen         float64   `json:"seen,omitempty"`
	RSSI         float64   `json:"rssi,omitempty"`
}

// Altitude is a barometric altitude in feet, or the literal "ground"
type Altitude struct {
	Feet     float64
	OnGround bool
}

func (a *Altitude) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "ground" {
			return fmt.Errorf("unexpected altitude value %q", s)
		}
		*a = Altitude{OnGround: true}
		return nil
	}

	var feet float64
	if err := json.Unmarshal(data, &feet); err != nil {
		return fmt.Errorf("failed to decode altitude: %w", err)
	}
	*a = Altitude{Feet: feet}
	return nil
}

func (a Altitude) MarshalJSON() ([]byte, error) {
	if a.OnGround {
		return []byte(`"ground"`), nil
	}
	return json.Marshal(a.Feet)
}
