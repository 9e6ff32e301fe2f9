package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ausgeo/compass-cli/internal/centroid"
	"github.com/ausgeo/compass-cli/internal/relation"
	"github.com/ausgeo/compass-cli/internal/store"
)

var (
	relationsShapefile   string
	relationsDataDir     string
	relationsPartitions  int
	relationsConcurrency int
	relationsRecordRun   bool
)

var relationsCmd = &cobra.Command{
	Use:   "relations",
	Short: "Compute pairwise suburb directions into partitioned CSVs",
	Long: `Extracts a centroid for every suburb in the boundary shapefile, computes the
compass direction for every ordered pair of distinct suburbs, and writes the
relations into partitioned CSV files.

For N suburbs this produces N·(N−1) rows: direction is not symmetric, so both
(A,B) and (B,A) appear, with labels 180° apart.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L().With(zap.String("command", "relations"))

		shpPath := relationsShapefile
		if shpPath == "" {
			shpPath = cfg.Shapefile.Path
		}
		dataDir := relationsDataDir
		if dataDir == "" {
			dataDir = cfg.Relations.DataDir
		}
		partitions := relationsPartitions
		if partitions == 0 {
			partitions = cfg.Relations.Partitions
		}
		concurrency := relationsConcurrency
		if concurrency == 0 {
			concurrency = cfg.Relations.WriteConcurrency
		}

		mapping, err := centroid.Extract(shpPath, centroid.ExtractOptions{
			NameField: cfg.Shapefile.NameField,
		})
		if err != nil {
			return eris.Wrap(err, "relations")
		}

		gen := relation.NewGenerator(mapping)
		total := gen.Total()
		if total == 0 {
			return eris.Errorf("relations: shapefile %s yields no place pairs", shpPath)
		}

		p := message.NewPrinter(language.English)
		fmt.Println(p.Sprintf("Found %d places; processing %d place pairs...", mapping.Len(), total))

		files, err := relation.WritePartitions(ctx, gen, relation.WriteOptions{
			Dir:         dataDir,
			Partitions:  partitions,
			Concurrency: concurrency,
		})
		if err != nil {
			return eris.Wrap(err, "relations")
		}

		if relationsRecordRun {
			if err := recordRun(ctx, shpPath, mapping, total, len(files)); err != nil {
				return err
			}
		}

		log.Info("relations complete",
			zap.Int("places", mapping.Len()),
			zap.Int("relations", total),
			zap.Int("partitions", len(files)),
		)
		fmt.Println(p.Sprintf("Wrote %d relations to %d partition files in %s", total, len(files), dataDir))
		return nil
	},
}

// recordRun persists the run and its centroids to the local store.
func recordRun(ctx context.Context, shpPath string, mapping *centroid.Mapping, relations, partitions int) error {
	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return eris.Wrap(err, "relations: open store")
	}
	defer func() { _ = s.Close() }()

	if err := s.Migrate(ctx); err != nil {
		return eris.Wrap(err, "relations")
	}
	run, err := s.CreateRun(ctx, shpPath, mapping, relations, partitions)
	if err != nil {
		return eris.Wrap(err, "relations: record run")
	}
	zap.L().Info("run recorded", zap.String("run_id", run.ID), zap.String("db", cfg.Store.Path))
	return nil
}

func init() {
	relationsCmd.Flags().StringVar(&relationsShapefile, "shapefile", "", "boundary shapefile path (default from config)")
	relationsCmd.Flags().StringVar(&relationsDataDir, "data-dir", "", "output directory for partition files (default from config)")
	relationsCmd.Flags().IntVar(&relationsPartitions, "partitions", 0, "number of output partitions (default from config or 20)")
	relationsCmd.Flags().IntVar(&relationsConcurrency, "concurrency", 0, "parallel partition writes (default from config)")
	relationsCmd.Flags().BoolVar(&relationsRecordRun, "store", false, "record the run and centroids in the local store")
	rootCmd.AddCommand(relationsCmd)
}
