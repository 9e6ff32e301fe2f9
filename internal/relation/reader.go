package relation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
)

// ListPartitions returns the partition files in dir, ordered by part
// number. An empty result is not an error here; callers that need input
// decide how to fail.
func ListPartitions(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, partitionGlob))
	if err != nil {
		return nil, eris.Wrapf(err, "relation: glob partitions in %s", dir)
	}

	// Lexical glob order puts part_10 before part_2; order by part number.
	sort.Slice(paths, func(i, j int) bool {
		return partNumber(paths[i]) < partNumber(paths[j])
	})
	return paths, nil
}

// partNumber extracts the 1-based part index from a partition filename,
// or a large sentinel for names that don't match.
func partNumber(path string) int {
	var part, of int
	if _, err := fmt.Sscanf(filepath.Base(path), "city_relations_part_%d_of_%d.csv", &part, &of); err != nil {
		return 1 << 30
	}
	return part
}

// ReadFile reads one partition file, validating the header and every row.
func ReadFile(path string) ([]Relation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "relation: open partition %s", path)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "relation: read header of %s", path)
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, eris.Errorf("relation: %s: header column %d is %q, want %q", path, i, header[i], col)
		}
	}

	var relations []Relation
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "relation: read row of %s", path)
		}
		rel, err := FromRecord(rec)
		if err != nil {
			return nil, eris.Wrapf(err, "relation: %s", path)
		}
		relations = append(relations, rel)
	}
	return relations, nil
}

// ReadAll reads every partition in dir, concatenated in part order.
func ReadAll(dir string) ([]Relation, error) {
	paths, err := ListPartitions(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, eris.Errorf("relation: no partition files found in %s", dir)
	}

	var all []Relation
	for _, path := range paths {
		rels, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, rels...)
	}
	return all, nil
}
