package compass

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expected               string
	}{
		{name: "due east", lat1: 0, lon1: 0, lat2: 0, lon2: 1, expected: East},
		{name: "due north", lat1: 0, lon1: 0, lat2: 1, lon2: 0, expected: North},
		{name: "due west", lat1: 0, lon1: 1, lat2: 0, lon2: 0, expected: West},
		{name: "due south", lat1: 1, lon1: 0, lat2: 0, lon2: 0, expected: South},
		{name: "northeast diagonal", lat1: 0, lon1: 0, lat2: 1, lon2: 1, expected: NorthEast},
		{name: "northwest diagonal", lat1: 0, lon1: 1, lat2: 1, lon2: 0, expected: NorthWest},
		{name: "southwest diagonal", lat1: 1, lon1: 1, lat2: 0, lon2: 0, expected: SouthWest},
		{name: "southeast diagonal", lat1: 1, lon1: 0, lat2: 0, lon2: 1, expected: SouthEast},
		{name: "identical coordinates classify as E", lat1: -33.87, lon1: 151.21, lat2: -33.87, lon2: 151.21, expected: East},
		{name: "sydney to melbourne is SW", lat1: -33.8688, lon1: 151.2093, lat2: -37.8136, lon2: 144.9631, expected: SouthWest},
		{name: "melbourne to sydney is NE", lat1: -37.8136, lon1: 144.9631, lat2: -33.8688, lon2: 151.2093, expected: NorthEast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.lat1, tt.lon1, tt.lat2, tt.lon2))
		})
	}
}

// TestClassifyBoundaries checks that exact octant boundary angles resolve
// to the lower-bound-inclusive octant.
func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		angle    float64
		expected string
	}{
		{0, East},
		{22.5, NorthEast},
		{67.5, North},
		{112.5, NorthWest},
		{157.5, West},
		{202.5, SouthWest},
		{247.5, South},
		{292.5, SouthEast},
		{337.5, East},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FromAngle(tt.angle), "angle %.1f", tt.angle)
	}
}

// TestClassifyAntipodal verifies that swapping source and target yields
// the label 180° across the wheel.
func TestClassifyAntipodal(t *testing.T) {
	pairs := [][4]float64{
		{0, 0, 0, 1},
		{0, 0, 1, 0},
		{0, 0, 1, 1},
		{0, 0, -1, 2},
		{-33.8688, 151.2093, -37.8136, 144.9631},
		{-31.95, 115.86, -12.46, 130.84},
	}

	for _, p := range pairs {
		forward := Classify(p[0], p[1], p[2], p[3])
		backward := Classify(p[2], p[3], p[0], p[1])
		assert.Equal(t, Opposite(forward), backward,
			"forward %s backward %s for %v", forward, backward, p)
	}
}

func TestClassifyAlwaysReturnsKnownLabel(t *testing.T) {
	for angle := 0.0; angle < 360; angle += 0.5 {
		rad := angle * math.Pi / 180
		label := Classify(0, 0, math.Sin(rad), math.Cos(rad))
		assert.True(t, Valid(label), "angle %.1f produced %q", angle, label)
	}
}

func TestOpposite(t *testing.T) {
	for _, label := range Labels {
		opp := Opposite(label)
		assert.True(t, Valid(opp))
		assert.Equal(t, label, Opposite(opp), "opposite must be an involution")
	}
	assert.Empty(t, Opposite("NNE"))
}
