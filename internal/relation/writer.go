package relation

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Partition file naming, shared with the reader.
const (
	partitionGlob = "city_relations_part_*.csv"
)

// DefaultPartitions is the partition count used when none is configured.
const DefaultPartitions = 20

// WriteOptions configures partitioned output.
type WriteOptions struct {
	Dir         string
	Partitions  int // default DefaultPartitions
	Concurrency int // parallel chunk writes; default 1
}

// WritePartitions drains the generator into up to Partitions contiguous
// CSV chunks of ceil(total/Partitions) rows each, named
// city_relations_part_<i>_of_<P>.csv. Writing stops early once the
// stream is exhausted, which is expected when total < Partitions.
//
// Each chunk is independently valid: it carries the full header and a
// contiguous slice of the stream. Chunks write concurrently; the first
// failure cancels remaining writes and is returned, but chunks already
// committed stay on disk.
func WritePartitions(ctx context.Context, gen *Generator, opts WriteOptions) ([]string, error) {
	if opts.Partitions <= 0 {
		opts.Partitions = DefaultPartitions
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	total := gen.Total()
	if total == 0 {
		return nil, eris.New("relation: no places to relate, nothing to write")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "relation: create output dir %s", opts.Dir)
	}

	chunkSize := (total + opts.Partitions - 1) / opts.Partitions

	log := zap.L().With(
		zap.String("component", "relation.writer"),
		zap.String("dir", opts.Dir),
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	var written []string
	for i := 0; i < opts.Partitions; i++ {
		chunk := drain(gen, chunkSize)
		if len(chunk) == 0 {
			break
		}

		path := filepath.Join(opts.Dir, fmt.Sprintf("city_relations_part_%d_of_%d.csv", i+1, opts.Partitions))
		written = append(written, path)

		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return eris.Wrapf(err, "relation: write %s cancelled", path)
			}
			if err := writeChunk(path, chunk); err != nil {
				return err
			}
			log.Debug("wrote partition", zap.String("file", filepath.Base(path)), zap.Int("rows", len(chunk)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("partitioned relations written",
		zap.Int("relations", total),
		zap.Int("partitions", len(written)),
		zap.Int("chunk_size", chunkSize),
	)
	return written, nil
}

// drain pulls up to n relations from the generator.
func drain(gen *Generator, n int) []Relation {
	chunk := make([]Relation, 0, n)
	for len(chunk) < n {
		r, ok := gen.Next()
		if !ok {
			break
		}
		chunk = append(chunk, r)
	}
	return chunk
}

// writeChunk writes one partition file with header.
func writeChunk(path string, chunk []Relation) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "relation: create partition %s", path)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "relation: write header to %s", path)
	}
	for _, r := range chunk {
		if err := w.Write(r.Record()); err != nil {
			_ = f.Close()
			return eris.Wrapf(err, "relation: write row to %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "relation: flush partition %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "relation: close partition %s", path)
	}
	return nil
}
