// Package relation generates, partitions, and rereads the full set of
// directed place-pair relations with their compass labels.
package relation

import (
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/ausgeo/compass-cli/internal/compass"
)

// Header is the column layout every partition file carries. The names
// match the published relation datasets.
var Header = []string{
	"city1_name", "city1_latitude", "city1_longitude",
	"city2_name", "city2_latitude", "city2_longitude",
	"direction",
}

// Relation is one ordered (source, target) place pair annotated with the
// computed direction label. Source and target are always distinct.
type Relation struct {
	Source    string
	SourceLat float64
	SourceLon float64
	Target    string
	TargetLat float64
	TargetLon float64
	Direction string
}

// Record renders the relation as a CSV record in Header order.
func (r Relation) Record() []string {
	return []string{
		r.Source,
		formatCoord(r.SourceLat),
		formatCoord(r.SourceLon),
		r.Target,
		formatCoord(r.TargetLat),
		formatCoord(r.TargetLon),
		r.Direction,
	}
}

// FromRecord parses a CSV record in Header order.
func FromRecord(rec []string) (Relation, error) {
	if len(rec) != len(Header) {
		return Relation{}, eris.Errorf("relation: record has %d fields, want %d", len(rec), len(Header))
	}

	var r Relation
	var err error
	r.Source = rec[0]
	if r.SourceLat, err = strconv.ParseFloat(rec[1], 64); err != nil {
		return Relation{}, eris.Wrapf(err, "relation: parse %s", Header[1])
	}
	if r.SourceLon, err = strconv.ParseFloat(rec[2], 64); err != nil {
		return Relation{}, eris.Wrapf(err, "relation: parse %s", Header[2])
	}
	r.Target = rec[3]
	if r.TargetLat, err = strconv.ParseFloat(rec[4], 64); err != nil {
		return Relation{}, eris.Wrapf(err, "relation: parse %s", Header[4])
	}
	if r.TargetLon, err = strconv.ParseFloat(rec[5], 64); err != nil {
		return Relation{}, eris.Wrapf(err, "relation: parse %s", Header[5])
	}
	r.Direction = rec[6]
	if !compass.Valid(r.Direction) {
		return Relation{}, eris.Errorf("relation: unknown direction %q", r.Direction)
	}
	return r, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
