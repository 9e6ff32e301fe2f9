package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ausgeo/compass-cli/internal/centroid"
	"github.com/ausgeo/compass-cli/internal/wiki"
)

var (
	compareWikiDataset string
	compareNameMatch   string
	compareShapefile   string
	compareOutput      string
	compareXLSX        string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Build the wiki-vs-calculated direction comparison dataset",
	Long: `Joins the wiki directional reference table against shapefile centroids through
the wiki→SAL name match table, computes the algorithmic direction for every
resolvable pair, and writes one CSV row per pair with both labels.

Pairs whose names do not resolve in both vocabularies, or whose resolved names
carry no centroid, are dropped silently; that is the expected common case.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		wikiPath := compareWikiDataset
		if wikiPath == "" {
			wikiPath = cfg.Wiki.Dataset
		}
		matchPath := compareNameMatch
		if matchPath == "" {
			matchPath = cfg.Wiki.NameMatch
		}
		shpPath := compareShapefile
		if shpPath == "" {
			shpPath = cfg.Shapefile.Path
		}
		outPath := compareOutput
		if outPath == "" {
			outPath = cfg.Wiki.Output
		}
		xlsxPath := compareXLSX
		if xlsxPath == "" {
			xlsxPath = cfg.Wiki.XLSXOutput
		}

		ds, err := wiki.LoadDataset(wikiPath)
		if err != nil {
			return eris.Wrap(err, "compare")
		}
		nameMap, err := wiki.LoadNameMap(matchPath)
		if err != nil {
			return eris.Wrap(err, "compare")
		}
		mapping, err := centroid.Extract(shpPath, centroid.ExtractOptions{
			NameField: cfg.Shapefile.NameField,
		})
		if err != nil {
			return eris.Wrap(err, "compare")
		}

		comparisons, err := wiki.BuildComparisons(ds, nameMap, mapping)
		if err != nil {
			return eris.Wrap(err, "compare")
		}

		if err := wiki.WriteCSV(outPath, comparisons); err != nil {
			return eris.Wrap(err, "compare")
		}
		if xlsxPath != "" {
			if err := wiki.WriteXLSX(xlsxPath, comparisons); err != nil {
				return eris.Wrap(err, "compare")
			}
		}

		agree := 0
		for _, c := range comparisons {
			if c.Agrees() {
				agree++
			}
		}

		zap.L().Info("compare complete",
			zap.Int("pairs", len(comparisons)),
			zap.Int("agree", agree),
			zap.String("output", outPath),
		)

		p := message.NewPrinter(language.English)
		fmt.Println(p.Sprintf("Successfully generated %s", outPath))
		fmt.Println(p.Sprintf("Dataset contains %d directional relationships; sources agree on %d (%.2f%%).",
			len(comparisons), agree, 100*float64(agree)/float64(len(comparisons))))
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareWikiDataset, "wiki", "", "wiki directional dataset (tab-separated, default from config)")
	compareCmd.Flags().StringVar(&compareNameMatch, "match", "", "wiki→SAL name match table (default from config)")
	compareCmd.Flags().StringVar(&compareShapefile, "shapefile", "", "boundary shapefile path (default from config)")
	compareCmd.Flags().StringVar(&compareOutput, "output", "", "comparison CSV output path (default from config)")
	compareCmd.Flags().StringVar(&compareXLSX, "xlsx", "", "optional XLSX workbook output path")
	rootCmd.AddCommand(compareCmd)
}
