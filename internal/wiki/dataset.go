// Package wiki loads the wiki-derived directional reference data and
// builds the wiki-vs-algorithmic comparison dataset.
package wiki

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// nullSentinels are cell values the wiki extraction emits for missing
// data. Rows and cells carrying them are treated as absent.
var nullSentinels = map[string]bool{
	"":     true,
	"Null": true,
	"Wikidata|getValue|P1082|FETCH_WIKIDATA": true,
}

// directionColumns maps the wiki table's relation_near* columns to
// direction labels.
var directionColumns = map[string]string{
	"relation_nearE":  "E",
	"relation_nearN":  "N",
	"relation_nearNe": "NE",
	"relation_nearNw": "NW",
	"relation_nearS":  "S",
	"relation_nearSe": "SE",
	"relation_nearSw": "SW",
	"relation_nearW":  "W",
}

// Neighbour is one wiki-sourced claim: the named place lies in Direction
// from the row's subject.
type Neighbour struct {
	Name      string
	Direction string
}

// Entry is one wiki table row: a subject place and its claimed
// directional neighbours.
type Entry struct {
	NameID     string
	Neighbours []Neighbour
}

// Dataset is the parsed wiki reference table.
type Dataset struct {
	Entries []Entry
}

// LoadDataset parses the tab-separated wiki table. The header row must
// contain nameID plus the eight relation_near* columns; other columns
// are ignored. Cells holding a null sentinel are skipped. An empty table
// is an error.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "wiki: open dataset %s", path)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "wiki: read dataset header %s", path)
	}

	// Direction columns are collected in header order so neighbour order,
	// and with it comparison output order, is stable.
	type dirCol struct {
		idx   int
		label string
	}
	nameIdx := -1
	var dirCols []dirCol
	for i, col := range header {
		col = strings.TrimSpace(col)
		if col == "nameID" {
			nameIdx = i
			continue
		}
		if label, ok := directionColumns[col]; ok {
			dirCols = append(dirCols, dirCol{idx: i, label: label})
		}
	}
	if nameIdx < 0 {
		return nil, eris.Errorf("wiki: dataset %s has no nameID column", path)
	}
	if len(dirCols) == 0 {
		return nil, eris.Errorf("wiki: dataset %s has no relation_near columns", path)
	}

	ds := &Dataset{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "wiki: read dataset row %s", path)
		}
		if nameIdx >= len(rec) {
			continue
		}

		name := strings.TrimSpace(rec[nameIdx])
		if nullSentinels[name] {
			continue
		}

		entry := Entry{NameID: name}
		for _, dc := range dirCols {
			if dc.idx >= len(rec) {
				continue
			}
			target := strings.TrimSpace(rec[dc.idx])
			if nullSentinels[target] {
				continue
			}
			entry.Neighbours = append(entry.Neighbours, Neighbour{Name: target, Direction: dc.label})
		}
		ds.Entries = append(ds.Entries, entry)
	}

	if len(ds.Entries) == 0 {
		return nil, eris.Errorf("wiki: dataset %s is empty", path)
	}

	zap.L().Info("wiki: dataset loaded",
		zap.String("file", path),
		zap.Int("entries", len(ds.Entries)),
	)
	return ds, nil
}

// LoadNameMap parses the headerless semicolon-separated wiki→SAL name
// match table. Later duplicates overwrite earlier ones.
func LoadNameMap(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "wiki: open name match %s", path)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	mapping := make(map[string]string)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "wiki: read name match row %s", path)
		}
		if len(rec) < 2 {
			continue
		}
		wikiName := strings.TrimSpace(rec[0])
		salName := strings.TrimSpace(rec[1])
		if wikiName == "" || salName == "" {
			continue
		}
		mapping[wikiName] = salName
	}

	if len(mapping) == 0 {
		return nil, eris.Errorf("wiki: name match table %s is empty", path)
	}
	return mapping, nil
}
