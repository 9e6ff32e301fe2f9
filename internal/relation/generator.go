package relation

import (
	"github.com/ausgeo/compass-cli/internal/centroid"
	"github.com/ausgeo/compass-cli/internal/compass"
)

// Generator lazily yields every ordered pair of distinct places in the
// mapping, row-major over the mapping's place order: all pairs for the
// first place, then the second, and so on. Self-pairs are skipped in
// place during iteration, so the excluded diagonal is never materialized.
//
// For N places the stream holds exactly N·(N−1) relations. Direction is
// not symmetric, so (A,B) and (B,A) both appear, with labels 180° apart.
type Generator struct {
	mapping *centroid.Mapping
	i, j    int
}

// NewGenerator creates a generator over the mapping. An empty mapping
// yields an empty stream; callers that require output must treat that as
// a configuration error.
func NewGenerator(m *centroid.Mapping) *Generator {
	return &Generator{mapping: m}
}

// Total returns the number of relations the full stream will produce.
func (g *Generator) Total() int {
	n := g.mapping.Len()
	return n * (n - 1)
}

// Next returns the next relation, or ok=false once the stream is
// exhausted.
func (g *Generator) Next() (Relation, bool) {
	names := g.mapping.Names
	for g.i < len(names) {
		if g.j >= len(names) {
			g.i++
			g.j = 0
			continue
		}
		if g.j == g.i {
			g.j++
			continue
		}

		src := names[g.i]
		tgt := names[g.j]
		g.j++

		a := g.mapping.Coords[src]
		b := g.mapping.Coords[tgt]
		return Relation{
			Source:    src,
			SourceLat: a.Lat,
			SourceLon: a.Lon,
			Target:    tgt,
			TargetLat: b.Lat,
			TargetLon: b.Lon,
			Direction: compass.Classify(a.Lat, a.Lon, b.Lat, b.Lon),
		}, true
	}
	return Relation{}, false
}
