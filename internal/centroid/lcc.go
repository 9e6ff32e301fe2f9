package centroid

import (
	"math"

	"github.com/rotisserie/eris"
)

// Lambert Conformal Conic (2SP) projection on an ellipsoid, following the
// EPSG method. Centroids must be computed in an equal-angle planar space,
// so rings are projected into metres, averaged, and the result is
// inverse-projected back to degrees.
type lambertConic struct {
	a  float64 // semi-major axis (metres)
	e  float64 // eccentricity
	n  float64
	f  float64
	r0 float64
	// Origin.
	lon0 float64 // radians
	fe   float64 // false easting
	fn   float64 // false northing
}

// GALambert is GDA2020 / GA Lambert (EPSG:7845): GRS80 ellipsoid,
// standard parallels 18°S and 36°S, central meridian 134°E, latitude of
// origin 0°, zero false origin. The only projected CRS this tool uses.
var GALambert = newLambertConic(6378137.0, 1/298.257222101, -18, -36, 0, 134, 0, 0)

// newLambertConic precomputes the projection constants for a 2SP Lambert
// Conformal Conic. Angles are degrees, axes metres.
func newLambertConic(a, flattening, sp1, sp2, lat0, lon0, fe, fn float64) *lambertConic {
	e := math.Sqrt(2*flattening - flattening*flattening)

	phi1 := radians(sp1)
	phi2 := radians(sp2)
	phi0 := radians(lat0)

	m1 := mFactor(phi1, e)
	m2 := mFactor(phi2, e)
	t0 := tFactor(phi0, e)
	t1 := tFactor(phi1, e)
	t2 := tFactor(phi2, e)

	n := (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	f := m1 / (n * math.Pow(t1, n))

	return &lambertConic{
		a:    a,
		e:    e,
		n:    n,
		f:    f,
		r0:   a * f * math.Pow(t0, n),
		lon0: radians(lon0),
		fe:   fe,
		fn:   fn,
	}
}

// Forward projects geographic coordinates (degrees) to planar easting and
// northing in metres.
func (p *lambertConic) Forward(lat, lon float64) (easting, northing float64) {
	phi := radians(lat)
	lam := radians(lon)

	r := p.a * p.f * math.Pow(tFactor(phi, p.e), p.n)
	theta := p.n * (lam - p.lon0)

	easting = p.fe + r*math.Sin(theta)
	northing = p.fn + p.r0 - r*math.Cos(theta)
	return easting, northing
}

// Inverse converts planar easting/northing in metres back to geographic
// coordinates in degrees. The latitude series converges in a handful of
// iterations; failure to converge indicates a point far outside the
// projection's domain.
func (p *lambertConic) Inverse(easting, northing float64) (lat, lon float64, err error) {
	de := easting - p.fe
	dn := p.r0 - (northing - p.fn)

	r := math.Sqrt(de*de + dn*dn)
	if p.n < 0 {
		r = -r
		de = -de
		dn = -dn
	}
	t := math.Pow(r/(p.a*p.f), 1/p.n)
	theta := math.Atan2(de, dn)

	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 15; i++ {
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-p.e*math.Sin(phi))/(1+p.e*math.Sin(phi)), p.e/2))
		if math.Abs(next-phi) < 1e-12 {
			return degrees(next), degrees(theta/p.n + p.lon0), nil
		}
		phi = next
	}
	return 0, 0, eris.Errorf("centroid: inverse projection did not converge for E=%.1f N=%.1f", easting, northing)
}

// mFactor is cos(phi)/sqrt(1 - e² sin²(phi)).
func mFactor(phi, e float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-e*e*s*s)
}

// tFactor is tan(pi/4 - phi/2) / ((1 - e sin phi)/(1 + e sin phi))^(e/2).
func tFactor(phi, e float64) float64 {
	s := math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-e*s)/(1+e*s), e/2)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
