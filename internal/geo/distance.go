package geo

import "math"

// EarthRadiusMiles is the mean Earth radius used for all great-circle math
const EarthRadiusMiles = 3959.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceMiles returns the great-circle distance between a and b using the
// haversine formula.
func DistanceMiles(a, b Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push h a hair past 1 for antipodal points
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMiles * c
}

// Bearing returns the initial bearing (forward azimuth) from one coordinate
// to another in radians, clockwise from north. Argument order matters.
func Bearing(from, to Coordinate) float64 {
	lat1 := toRadians(from.Latitude)
	lat2 := toRadians(to.Latitude)
	dLon := toRadians(to.Longitude - from.Longitude)

	x := math.Sin(dLon) * math.Cos(lat2)
	y := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Atan2(x, y)
}

// BearingDegrees is Bearing normalized to [0, 360)
func BearingDegrees(from, to Coordinate) float64 {
	deg := Bearing(from, to) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}
