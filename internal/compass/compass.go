// Package compass classifies the bearing between two coordinate points
// into one of eight 45°-wide compass octants.
package compass

import "math"

// Direction labels.
const (
	East      = "E"
	NorthEast = "NE"
	North     = "N"
	NorthWest = "NW"
	West      = "W"
	SouthWest = "SW"
	South     = "S"
	SouthEast = "SE"
)

// Octant is one 45° slice of the compass wheel. Bounds are degrees in
// [0, 360), lower bound inclusive, upper bound exclusive. East wraps
// around 0° and is handled separately.
type Octant struct {
	Label string
	Lower float64
	Upper float64
}

// Octants is the single boundary table shared by classification and
// validation tooling. East's wraparound slice [337.5, 360) ∪ [0, 22.5)
// is not listed here; Classify checks it first.
var Octants = []Octant{
	{NorthEast, 22.5, 67.5},
	{North, 67.5, 112.5},
	{NorthWest, 112.5, 157.5},
	{West, 157.5, 202.5},
	{SouthWest, 202.5, 247.5},
	{South, 247.5, 292.5},
	{SouthEast, 292.5, 337.5},
}

// Labels lists all eight direction labels in ascending lexical order.
var Labels = []string{East, North, NorthEast, NorthWest, South, SouthEast, SouthWest, West}

// opposite maps each label to the one 180° across the wheel.
var opposite = map[string]string{
	East:      West,
	West:      East,
	North:     South,
	South:     North,
	NorthEast: SouthWest,
	SouthWest: NorthEast,
	NorthWest: SouthEast,
	SouthEast: NorthWest,
}

// Classify returns the compass direction from (lat1, lon1) to (lat2, lon2).
//
// Latitude and longitude are treated as a planar (y, x) pair: the bearing
// is atan2 on raw degree deltas with no geodesic correction. The reference
// labels this output is validated against were produced the same way, so
// the planar formula is part of the contract and must not be replaced
// with a great-circle bearing.
//
// Identical coordinates normalize to angle 0 and classify as E.
func Classify(lat1, lon1, lat2, lon2 float64) string {
	dy := lat2 - lat1
	dx := lon2 - lon1
	angle := math.Mod(degrees(math.Atan2(dy, dx))+360, 360)
	return FromAngle(angle)
}

// FromAngle returns the label for a bearing angle in [0, 360) degrees,
// measured counterclockwise from east. Each boundary belongs to the
// octant it opens.
func FromAngle(angle float64) string {
	if angle >= 337.5 || angle < 22.5 {
		return East
	}
	for _, o := range Octants {
		if angle >= o.Lower && angle < o.Upper {
			return o.Label
		}
	}
	// Unreachable: the table covers [22.5, 337.5).
	return East
}

// Opposite returns the label 180° across the octant wheel, or "" for an
// unknown label.
func Opposite(label string) string {
	return opposite[label]
}

// Valid reports whether label is one of the eight direction labels.
func Valid(label string) bool {
	_, ok := opposite[label]
	return ok
}

// degrees converts radians to degrees.
func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
