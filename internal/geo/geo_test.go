package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_Symmetry(t *testing.T) {
	pairs := [][2]Coordinate{
		{{Lat: 28.61, Lon: 77.20}, {Lat: 28.63, Lon: 77.22}},
		{{Lat: 19.076, Lon: 72.8777}, {Lat: 18.5204, Lon: 73.8567}},
		{{Lat: -33.87, Lon: 151.21}, {Lat: 51.51, Lon: -0.13}},
		{{Lat: 0, Lon: 179.9}, {Lat: 0, Lon: -179.9}},
	}
	for _, p := range pairs {
		assert.Equal(t, DistanceKm(p[0], p[1]), DistanceKm(p[1], p[0]))
	}
}

func TestDistanceKm_ZeroForSamePoint(t *testing.T) {
	c := Coordinate{Lat: 28.6139, Lon: 77.209}
	assert.Equal(t, 0.0, DistanceKm(c, c))
}

func TestDistanceKm_KnownDistances(t *testing.T) {
	// Connaught Place to a point ~2.9 km north-east of it.
	d := DistanceKm(Coordinate{Lat: 28.61, Lon: 77.20}, Coordinate{Lat: 28.63, Lon: 77.22})
	assert.InDelta(t, 2.97, d, 0.1)

	// Delhi to Mumbai, roughly 1150 km great-circle.
	d = DistanceKm(Coordinate{Lat: 28.6139, Lon: 77.209}, Coordinate{Lat: 19.076, Lon: 72.8777})
	assert.InDelta(t, 1150, d, 20)
}

func TestDistanceKm_NonNegative(t *testing.T) {
	a := Coordinate{Lat: 12.9716, Lon: 77.5946}
	b := Coordinate{Lat: 12.9717, Lon: 77.5946}
	assert.GreaterOrEqual(t, DistanceKm(a, b), 0.0)
	assert.Greater(t, DistanceKm(a, b), 0.0)
}
