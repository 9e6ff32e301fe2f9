// Package centroid extracts named centroid coordinates from suburb
// boundary shapefiles.
//
// Boundaries ship in geographic GDA2020 coordinates. Centroids are
// computed the way the reference datasets were built: every ring vertex
// is projected into GDA2020 / GA Lambert (EPSG:7845) planar metres, the
// area-weighted centroid is taken there, and the result is
// inverse-projected back to latitude/longitude.
package centroid

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// Coordinate is a geographic point in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Mapping is an ordered, read-only snapshot of entity name → centroid.
// Names preserves shapefile record order so downstream pair generation is
// deterministic across runs.
type Mapping struct {
	Names  []string
	Coords map[string]Coordinate
}

// Len returns the number of entities in the mapping.
func (m *Mapping) Len() int { return len(m.Names) }

// Lookup returns the centroid for a name.
func (m *Mapping) Lookup(name string) (Coordinate, bool) {
	c, ok := m.Coords[name]
	return c, ok
}

// ExtractOptions configures shapefile centroid extraction.
type ExtractOptions struct {
	// NameField is the attribute holding the entity name (e.g. SAL_NAME21).
	NameField string
}

// Extract reads a polygon shapefile and returns the centroid mapping for
// every record with a usable name and geometry. Records with a blank
// name, a duplicate name, or malformed geometry are skipped and counted.
// An empty result is an error: every downstream stage needs at least one
// entity.
func Extract(shpPath string, opts ExtractOptions) (*Mapping, error) {
	if opts.NameField == "" {
		return nil, eris.New("centroid: name field is required")
	}

	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "centroid: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	nameIdx := -1
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, opts.NameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, eris.Errorf("centroid: field %q not found in %s", opts.NameField, shpPath)
	}

	mapping := &Mapping{Coords: make(map[string]Coordinate)}
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if name == "" {
			skipped++
			continue
		}
		if _, dup := mapping.Coords[name]; dup {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			skipped++
			continue
		}

		coord, err := polygonCentroid(poly)
		if err != nil {
			skipped++
			continue
		}

		mapping.Names = append(mapping.Names, name)
		mapping.Coords[name] = *coord
	}

	if skipped > 0 {
		zap.L().Debug("centroid: skipped shapefile records",
			zap.String("shapefile", shpPath),
			zap.Int("skipped", skipped),
		)
	}

	if mapping.Len() == 0 {
		return nil, eris.Errorf("centroid: no usable records in %s", shpPath)
	}

	zap.L().Info("centroid: extracted place centroids",
		zap.String("shapefile", shpPath),
		zap.Int("places", mapping.Len()),
		zap.Int("skipped", skipped),
	)
	return mapping, nil
}

// polygonCentroid converts a shapefile polygon to a projected
// go-geom MultiPolygon, takes the planar area centroid, and maps it back
// to geographic degrees.
func polygonCentroid(p *shp.Polygon) (*Coordinate, error) {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil, eris.New("centroid: empty polygon")
	}

	mp := geom.NewMultiPolygon(geom.XY)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			// Shapefile points are (lon, lat) degrees; project to metres.
			e, n := GALambert.Forward(p.Points[j].Y, p.Points[j].X)
			flat = append(flat, e, n)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			continue
		}
		if err := mp.Push(poly); err != nil {
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil, eris.New("centroid: no valid polygon parts")
	}

	c, err := xy.Centroid(mp)
	if err != nil {
		return nil, eris.Wrap(err, "centroid: planar centroid")
	}

	lat, lon, err := GALambert.Inverse(c[0], c[1])
	if err != nil {
		return nil, err
	}
	return &Coordinate{Lat: lat, Lon: lon}, nil
}
