package distribution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ausgeo/compass-cli/internal/centroid"
	"github.com/ausgeo/compass-cli/internal/relation"
)

func TestAggregate(t *testing.T) {
	sum, err := Aggregate(map[string]int{"E": 3, "W": 1})
	require.NoError(t, err)

	assert.Equal(t, 4, sum.Total)
	require.Len(t, sum.Rows, 2)
	assert.Equal(t, Row{Direction: "E", Count: 3, Percentage: 75}, sum.Rows[0])
	assert.Equal(t, Row{Direction: "W", Count: 1, Percentage: 25}, sum.Rows[1])
}

func TestAggregateSortsLabels(t *testing.T) {
	sum, err := Aggregate(map[string]int{"SW": 1, "N": 1, "E": 1, "NE": 1})
	require.NoError(t, err)

	var labels []string
	for _, r := range sum.Rows {
		labels = append(labels, r.Direction)
	}
	assert.Equal(t, []string{"E", "N", "NE", "SW"}, labels)
}

func TestAggregateEmpty(t *testing.T) {
	_, err := Aggregate(nil)
	assert.Error(t, err)

	_, err = Aggregate(map[string]int{"E": 0})
	assert.Error(t, err)
}

func TestAggregateTotalsAndRounding(t *testing.T) {
	// Three labels over an uneven total: percentages round to 2 decimal
	// places and may drift from 100 by at most 0.02 per label.
	sum, err := Aggregate(map[string]int{"N": 1, "S": 1, "E": 1})
	require.NoError(t, err)

	countSum := 0
	pctSum := 0.0
	for _, row := range sum.Rows {
		countSum += row.Count
		pctSum += row.Percentage
		assert.InDelta(t, 33.33, row.Percentage, 0.001)
	}
	assert.Equal(t, sum.Total, countSum)
	assert.InDelta(t, 100.0, pctSum, 0.02*float64(len(sum.Rows)))
}

// TestFromPartitionsEndToEnd runs a three-place worked example through the
// generator, the partitioned writer, and the aggregator.
func TestFromPartitionsEndToEnd(t *testing.T) {
	mapping := &centroid.Mapping{
		Names: []string{"A", "B", "C"},
		Coords: map[string]centroid.Coordinate{
			"A": {Lat: 0, Lon: 0},
			"B": {Lat: 0, Lon: 1},
			"C": {Lat: 1, Lon: 0},
		},
	}

	dir := t.TempDir()
	_, err := relation.WritePartitions(context.Background(), relation.NewGenerator(mapping), relation.WriteOptions{
		Dir:        dir,
		Partitions: 3,
	})
	require.NoError(t, err)

	sum, err := FromPartitions(dir)
	require.NoError(t, err)

	assert.Equal(t, 6, sum.Total)
	require.Len(t, sum.Rows, 6)

	pctSum := 0.0
	for _, row := range sum.Rows {
		assert.Equal(t, 1, row.Count)
		assert.InDelta(t, 16.67, row.Percentage, 0.001)
		pctSum += row.Percentage
	}
	assert.InDelta(t, 100.0, pctSum, 0.02*6)
}

func TestFromPartitionsNoInput(t *testing.T) {
	_, err := FromPartitions(t.TempDir())
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	sum, err := Aggregate(map[string]int{"E": 1, "W": 3})
	require.NoError(t, err)

	out := sum.Render()
	assert.Contains(t, out, "Direction")
	assert.Contains(t, out, "E")
	assert.Contains(t, out, "75.00%")
	assert.Contains(t, out, "Total")
}
