package types

const (
	FeetToMeters = 0.3048
	KnotsToMph   = 1.15078
	KnotsToKph   = 1.852
)

type Altitude struct {
	Feet   float64
	Meters float64
}

func NewAltitudeFromFeet(feet float64) Altitude {
	return Altitude{
		Feet:   feet,
		Meters: feet * FeetToMeters,
	}
}

// Speed is ground speed as reported by ADS-B (knots)
type Speed struct {
	Knots float64
	Mph   float64
	Kph   float64
}

func NewSpeedFromKnots(knots float64) Speed {
	return Speed{
		Knots: knots,
		Mph:   knots * KnotsToMph,
		Kph:   knots * KnotsToKph,
	}
}

var cardinals = [16]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

type Heading struct {
	Degrees  float64
	Cardinal string
}

func NewHeading(degrees float64) Heading {
	index := int(degrees/22.5+.5) % 16 // .5 for rounding
	if index < 0 {
		index += 16
	}
	return Heading{
		Degrees:  degrees,
		Cardinal: cardinals[index],
	}
}
