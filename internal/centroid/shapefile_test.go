package centroid

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestShapefile creates a polygon shapefile with one square per
// named record, centered on the given coordinates.
func writeTestShapefile(t *testing.T, path, nameField string, names []string, centers []Coordinate) {
	t.Helper()

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	require.NoError(t, w.SetFields([]shp.Field{shp.StringField(nameField, 60)}))

	const half = 0.1
	for i, name := range names {
		c := centers[i]
		ring := []shp.Point{
			{X: c.Lon - half, Y: c.Lat - half},
			{X: c.Lon - half, Y: c.Lat + half},
			{X: c.Lon + half, Y: c.Lat + half},
			{X: c.Lon + half, Y: c.Lat - half},
			{X: c.Lon - half, Y: c.Lat - half},
		}
		poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
		seq := w.Write(&poly)
		require.NoError(t, w.WriteAttribute(int(seq), 0, name))
	}

	w.Close()
}

func TestExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sal.shp")
	names := []string{"Abbotsford (Vic.)", "Balmain", "Carlton (Vic.)"}
	centers := []Coordinate{
		{Lat: -37.802, Lon: 144.997},
		{Lat: -33.858, Lon: 151.179},
		{Lat: -37.800, Lon: 144.967},
	}
	writeTestShapefile(t, path, "SAL_NAME21", names, centers)

	mapping, err := Extract(path, ExtractOptions{NameField: "SAL_NAME21"})
	require.NoError(t, err)

	// Record order preserved.
	assert.Equal(t, names, mapping.Names)
	assert.Equal(t, 3, mapping.Len())

	// Centroid of an axis-aligned square lands on (approximately) its center.
	for i, name := range names {
		got, ok := mapping.Lookup(name)
		require.True(t, ok, name)
		assert.InDelta(t, centers[i].Lat, got.Lat, 0.01, name)
		assert.InDelta(t, centers[i].Lon, got.Lon, 0.01, name)
	}
}

func TestExtractSkipsDuplicateNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.shp")
	writeTestShapefile(t, path, "SAL_NAME21",
		[]string{"Richmond", "Richmond"},
		[]Coordinate{{Lat: -37.82, Lon: 145.0}, {Lat: -33.6, Lon: 150.75}},
	)

	mapping, err := Extract(path, ExtractOptions{NameField: "SAL_NAME21"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Richmond"}, mapping.Names)

	// First record wins.
	got, _ := mapping.Lookup("Richmond")
	assert.InDelta(t, -37.82, got.Lat, 0.01)
}

func TestExtractMissingNameField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrongfield.shp")
	writeTestShapefile(t, path, "OTHER_NAME",
		[]string{"Fitzroy"}, []Coordinate{{Lat: -37.8, Lon: 144.98}})

	_, err := Extract(path, ExtractOptions{NameField: "SAL_NAME21"})
	assert.Error(t, err)
}

func TestExtractEmptyShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.shp")
	writeTestShapefile(t, path, "SAL_NAME21", nil, nil)

	_, err := Extract(path, ExtractOptions{NameField: "SAL_NAME21"})
	assert.Error(t, err)
}

func TestExtractRequiresNameField(t *testing.T) {
	_, err := Extract("nonexistent.shp", ExtractOptions{})
	assert.Error(t, err)
}
