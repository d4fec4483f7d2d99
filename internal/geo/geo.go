// Package geo holds the one geometric primitive the rest of the
// service is built on.
package geo

import "math"

const earthRadiusKm = 6371

// Coordinate is a (latitude, longitude) pair in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// DistanceKm returns the great-circle (haversine) distance between a
// and b in kilometers. Callers are expected to have validated the
// coordinates; non-finite input yields NaN.
func DistanceKm(a, b Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
