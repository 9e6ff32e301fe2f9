package centroid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGALambertForward(t *testing.T) {
	// Sydney CBD under GDA2020 / GA Lambert. Expected values computed with
	// the EPSG two-standard-parallel method.
	e, n := GALambert.Forward(-33.8688, 151.2093)
	assert.InDelta(t, 1578995.92, e, 1.0)
	assert.InDelta(t, -3922929.61, n, 1.0)
}

func TestGALambertRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
	}{
		{"sydney", -33.8688, 151.2093},
		{"melbourne", -37.8136, 144.9631},
		{"perth", -31.9523, 115.8613},
		{"darwin", -12.4634, 130.8456},
		{"hobart", -42.8821, 147.3272},
		{"alice springs", -23.6980, 133.8807},
		{"central meridian", -25.0, 134.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, n := GALambert.Forward(tt.lat, tt.lon)
			lat, lon, err := GALambert.Inverse(e, n)
			require.NoError(t, err)
			assert.InDelta(t, tt.lat, lat, 1e-9)
			assert.InDelta(t, tt.lon, lon, 1e-9)
		})
	}
}

func TestGALambertOrientation(t *testing.T) {
	// East of the central meridian must have a larger easting, and points
	// further south a smaller northing.
	e1, n1 := GALambert.Forward(-30, 140)
	e2, _ := GALambert.Forward(-30, 145)
	_, n3 := GALambert.Forward(-35, 140)

	assert.Greater(t, e2, e1)
	assert.Less(t, n3, n1)
}
