package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ausgeo/compass-cli/internal/distribution"
	"github.com/ausgeo/compass-cli/internal/store"
)

var (
	analyzeDataDir   string
	analyzeRecordRun bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize the direction distribution of generated relations",
	Long: `Reads every partition file produced by the relations command, groups the rows
by direction label, and prints counts and percentages per label.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dataDir := analyzeDataDir
		if dataDir == "" {
			dataDir = cfg.Relations.DataDir
		}

		summary, err := distribution.FromPartitions(dataDir)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		fmt.Println("\n--- Directional Relationship Distribution ---")
		fmt.Print(summary.Render())
		fmt.Println("---------------------------------------------")

		if analyzeRecordRun {
			if err := recordDistribution(cmd, summary); err != nil {
				return err
			}
		}

		zap.L().Info("analyze complete",
			zap.String("data_dir", dataDir),
			zap.Int("total", summary.Total),
			zap.Int("labels", len(summary.Rows)),
		)
		return nil
	},
}

// recordDistribution attaches the summary to the most recent stored run.
func recordDistribution(cmd *cobra.Command, summary *distribution.Summary) error {
	ctx := cmd.Context()

	s, err := store.Open(cfg.Store.Path)
	if err != nil {
		return eris.Wrap(err, "analyze: open store")
	}
	defer func() { _ = s.Close() }()

	if err := s.Migrate(ctx); err != nil {
		return eris.Wrap(err, "analyze")
	}
	run, err := s.LatestRun(ctx)
	if err != nil {
		return eris.Wrap(err, "analyze: no stored run to attach distribution to")
	}
	if err := s.SaveDistribution(ctx, run.ID, summary); err != nil {
		return eris.Wrap(err, "analyze")
	}
	zap.L().Info("distribution recorded", zap.String("run_id", run.ID))
	return nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDataDir, "data-dir", "", "directory holding partition files (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeRecordRun, "store", false, "attach the summary to the latest stored run")
	rootCmd.AddCommand(analyzeCmd)
}
