// Package distribution summarizes how relation labels distribute across
// the eight compass octants.
package distribution

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ausgeo/compass-cli/internal/relation"
)

// Row is the count and share for one direction label.
type Row struct {
	Direction  string  `json:"direction"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Summary is the per-label distribution over a relation set. Rows are
// sorted by label ascending so output is deterministic.
type Summary struct {
	Rows  []Row `json:"rows"`
	Total int   `json:"total"`
}

// Aggregate builds a summary from per-label counts. A zero total is an
// error: an empty summary would silently read as a valid distribution.
func Aggregate(counts map[string]int) (*Summary, error) {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, eris.New("distribution: no relations to aggregate")
	}

	s := &Summary{Total: total}
	for label, count := range counts {
		s.Rows = append(s.Rows, Row{
			Direction:  label,
			Count:      count,
			Percentage: round2(100 * float64(count) / float64(total)),
		})
	}
	sort.Slice(s.Rows, func(i, j int) bool { return s.Rows[i].Direction < s.Rows[j].Direction })
	return s, nil
}

// FromRelations summarizes an in-memory relation sequence.
func FromRelations(rels []relation.Relation) (*Summary, error) {
	counts := make(map[string]int)
	for _, r := range rels {
		counts[r.Direction]++
	}
	return Aggregate(counts)
}

// FromPartitions reads every partition file in dir and summarizes the
// concatenated rows. Order is irrelevant for aggregation. Zero readable
// partitions is a "no input" error, not an empty summary.
func FromPartitions(dir string) (*Summary, error) {
	paths, err := relation.ListPartitions(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, eris.Errorf("distribution: no partition files found in %s, run the relations stage first", dir)
	}

	zap.L().Info("distribution: aggregating partitions",
		zap.String("dir", dir),
		zap.Int("files", len(paths)),
	)

	counts := make(map[string]int)
	for _, path := range paths {
		rels, err := relation.ReadFile(path)
		if err != nil {
			return nil, err
		}
		for _, r := range rels {
			counts[r.Direction]++
		}
	}
	return Aggregate(counts)
}

// Render formats the summary as an aligned human-readable table.
func (s *Summary) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %12s %12s\n", "Direction", "Count", "Percentage")
	b.WriteString(strings.Repeat("-", 36))
	b.WriteByte('\n')
	for _, row := range s.Rows {
		fmt.Fprintf(&b, "%-10s %12d %11.2f%%\n", row.Direction, row.Count, row.Percentage)
	}
	b.WriteString(strings.Repeat("-", 36))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%-10s %12d\n", "Total", s.Total)
	return b.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
