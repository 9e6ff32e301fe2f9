package wiki

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/ausgeo/compass-cli/internal/centroid"
	"github.com/ausgeo/compass-cli/internal/compass"
)

// comparisonHeader matches the published comparison dataset columns.
var comparisonHeader = []string{
	"place1", "place1_latitude", "place1_longitude",
	"place2", "place2_latitude", "place2_longitude",
	"algo_direction", "wiki_direction",
}

// Comparison pairs a wiki-sourced direction label with the
// algorithmically computed one for the same ordered place pair.
type Comparison struct {
	Place1        string
	Lat1, Lon1    float64
	Place2        string
	Lat2, Lon2    float64
	AlgoDirection string
	WikiDirection string
}

// Agrees reports whether the two labels match.
func (c Comparison) Agrees() bool { return c.AlgoDirection == c.WikiDirection }

// BuildComparisons joins the wiki dataset against the centroid mapping
// through the name match table. A pair is emitted only when both names
// resolve through the match table AND both resolved names have
// centroids; pairs failing either side are dropped silently — that is
// the expected, high-frequency case, so only aggregate skip counts are
// logged. Zero emitted pairs is an error.
func BuildComparisons(ds *Dataset, nameMap map[string]string, coords *centroid.Mapping) ([]Comparison, error) {
	// Restrict the match table to names that actually carry a centroid,
	// mirroring how the reference dataset was built.
	resolve := func(wikiName string) (string, centroid.Coordinate, bool) {
		sal, ok := nameMap[wikiName]
		if !ok {
			return "", centroid.Coordinate{}, false
		}
		c, ok := coords.Lookup(sal)
		if !ok {
			return "", centroid.Coordinate{}, false
		}
		return sal, c, true
	}

	var out []Comparison
	var skippedSubjects, skippedNeighbours int

	for _, entry := range ds.Entries {
		srcName, srcCoord, ok := resolve(entry.NameID)
		if !ok {
			skippedSubjects++
			continue
		}

		for _, nb := range entry.Neighbours {
			tgtName, tgtCoord, ok := resolve(nb.Name)
			if !ok {
				skippedNeighbours++
				continue
			}

			out = append(out, Comparison{
				Place1: srcName, Lat1: srcCoord.Lat, Lon1: srcCoord.Lon,
				Place2: tgtName, Lat2: tgtCoord.Lat, Lon2: tgtCoord.Lon,
				AlgoDirection: compass.Classify(srcCoord.Lat, srcCoord.Lon, tgtCoord.Lat, tgtCoord.Lon),
				WikiDirection: nb.Direction,
			})
		}
	}

	if len(out) == 0 {
		return nil, eris.New("wiki: no valid direction pairs found")
	}

	zap.L().Info("wiki: comparison dataset built",
		zap.Int("pairs", len(out)),
		zap.Int("skipped_subjects", skippedSubjects),
		zap.Int("skipped_neighbours", skippedNeighbours),
	)
	return out, nil
}

// AgreementByLabel returns, per wiki label in ascending order, how many
// pairs the algorithmic label agreed on.
func AgreementByLabel(comparisons []Comparison) []AgreementRow {
	byLabel := make(map[string]*AgreementRow)
	for _, c := range comparisons {
		row, ok := byLabel[c.WikiDirection]
		if !ok {
			row = &AgreementRow{WikiDirection: c.WikiDirection}
			byLabel[c.WikiDirection] = row
		}
		row.Total++
		if c.Agrees() {
			row.Agree++
		}
	}

	rows := make([]AgreementRow, 0, len(byLabel))
	for _, row := range byLabel {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].WikiDirection < rows[j].WikiDirection })
	return rows
}

// AgreementRow is per-wiki-label agreement between the two sources.
type AgreementRow struct {
	WikiDirection string
	Agree         int
	Total         int
}

// WriteCSV writes the comparison dataset with header.
func WriteCSV(path string, comparisons []Comparison) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "wiki: create comparison file %s", path)
	}

	w := csv.NewWriter(f)
	if err := w.Write(comparisonHeader); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "wiki: write comparison header %s", path)
	}
	for _, c := range comparisons {
		rec := []string{
			c.Place1, formatCoord(c.Lat1), formatCoord(c.Lon1),
			c.Place2, formatCoord(c.Lat2), formatCoord(c.Lon2),
			c.AlgoDirection, c.WikiDirection,
		}
		if err := w.Write(rec); err != nil {
			_ = f.Close()
			return eris.Wrapf(err, "wiki: write comparison row %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "wiki: flush comparison file %s", path)
	}
	return eris.Wrapf(f.Close(), "wiki: close comparison file %s", path)
}

// WriteXLSX writes the comparison dataset as a workbook: one sheet with
// the full pair list, one with per-label agreement.
func WriteXLSX(path string, comparisons []Comparison) error {
	wb := xlsx.NewFile()

	pairs, err := wb.AddSheet("comparisons")
	if err != nil {
		return eris.Wrap(err, "wiki: add comparisons sheet")
	}
	headerRow := pairs.AddRow()
	for _, col := range comparisonHeader {
		headerRow.AddCell().SetString(col)
	}
	for _, c := range comparisons {
		row := pairs.AddRow()
		row.AddCell().SetString(c.Place1)
		row.AddCell().SetFloat(c.Lat1)
		row.AddCell().SetFloat(c.Lon1)
		row.AddCell().SetString(c.Place2)
		row.AddCell().SetFloat(c.Lat2)
		row.AddCell().SetFloat(c.Lon2)
		row.AddCell().SetString(c.AlgoDirection)
		row.AddCell().SetString(c.WikiDirection)
	}

	agreement, err := wb.AddSheet("agreement")
	if err != nil {
		return eris.Wrap(err, "wiki: add agreement sheet")
	}
	agreeHeader := agreement.AddRow()
	for _, col := range []string{"wiki_direction", "agree", "total"} {
		agreeHeader.AddCell().SetString(col)
	}
	for _, row := range AgreementByLabel(comparisons) {
		r := agreement.AddRow()
		r.AddCell().SetString(row.WikiDirection)
		r.AddCell().SetInt(row.Agree)
		r.AddCell().SetInt(row.Total)
	}

	if err := wb.Save(path); err != nil {
		return eris.Wrapf(err, "wiki: save workbook %s", path)
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
